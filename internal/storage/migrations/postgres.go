package migrations

import (
	"context"
	"fmt"

	"solana-fee-advisor/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded schema in lexical order.
// Every file uses IF NOT EXISTS so reruns are no-ops.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := load(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range files {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}
