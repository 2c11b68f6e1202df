package congestion

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/sampling"
)

func TestGenerate_24h(t *testing.T) {
	g := NewGenerator(sampling.NewSeeded(1, 2))

	s := g.Generate("24h")

	assert.Equal(t, "24h", s.Timeframe)
	require.Len(t, s.Data, 24)
	for h, p := range s.Data {
		assert.Equal(t, fmt.Sprintf("%d:00", h), p.Label)
		assert.Equal(t, domain.BucketHour, p.Kind)
	}
}

func TestGenerate_Week(t *testing.T) {
	g := NewGenerator(sampling.NewSeeded(1, 2))

	s := g.Generate("week")

	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	require.Len(t, s.Data, len(want))
	for i, p := range s.Data {
		assert.Equal(t, want[i], p.Label)
		assert.Equal(t, domain.BucketDay, p.Kind)
	}
}

func TestGenerate_MonthAndFallback(t *testing.T) {
	g := NewGenerator(sampling.NewSeeded(1, 2))

	for _, tf := range []string{"month", "xyz", "", "WEEK"} {
		s := g.Generate(tf)

		assert.Equal(t, tf, s.Timeframe, "timeframe must be echoed")
		require.Len(t, s.Data, 4, "timeframe %q", tf)
		for i, p := range s.Data {
			assert.Equal(t, fmt.Sprintf("Week %d", i+1), p.Label)
			assert.Equal(t, domain.BucketWeek, p.Kind)
		}
	}
}

func TestGenerate_CongestionRange(t *testing.T) {
	g := NewGenerator(sampling.NewSeeded(9, 9))

	for i := 0; i < 100; i++ {
		for _, p := range g.Generate("24h").Data {
			if p.Congestion < MinCongestion || p.Congestion > MaxCongestion {
				t.Fatalf("congestion out of range: %d", p.Congestion)
			}
		}
	}
}

func TestGenerate_JSONShape(t *testing.T) {
	g := NewGenerator(sampling.NewSeeded(1, 2))

	raw, err := json.Marshal(g.Generate("week"))
	require.NoError(t, err)

	var decoded struct {
		Timeframe string                   `json:"timeframe"`
		Data      []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "week", decoded.Timeframe)
	require.Len(t, decoded.Data, 7)
	assert.Equal(t, "Mon", decoded.Data[0]["day"])
	assert.Contains(t, decoded.Data[0], "congestion")
}
