package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	input := `
-- leading comment
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (
    y String
) ENGINE = Memory;
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE b (")
	assert.NotContains(t, stmts[1], "--")
}

func TestSplitStatements_Empty(t *testing.T) {
	assert.Empty(t, splitStatements("-- only a comment\n\n"))
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'a''b'; SELECT 1;"))
	assert.Error(t, validateNoSemicolonInStrings("SELECT 'a;b'"))
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default@localhost:9000/fees")
	require.NoError(t, err)
	assert.Equal(t, "fees", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	pg, err := fs.ReadDir(PostgresFS, "postgres")
	require.NoError(t, err)
	assert.Len(t, pg, 2)

	ch, err := fs.ReadDir(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.Len(t, ch, 1)

	data, err := fs.ReadFile(ClickhouseFS, "clickhouse/"+ch[0].Name())
	require.NoError(t, err)
	assert.NoError(t, validateNoSemicolonInStrings(string(data)))
	assert.Len(t, splitStatements(string(data)), 1)
}

func TestLoad_SortedAndNonEmpty(t *testing.T) {
	files, err := load(PostgresFS, "postgres")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_network_status.sql", files[0].name)
	assert.Equal(t, "002_alerts.sql", files[1].name)
	assert.Contains(t, files[1].sql, "CREATE TABLE IF NOT EXISTS alerts")
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := load(PostgresFS, "nope")
	assert.Error(t, err)
}
