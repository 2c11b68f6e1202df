package congestion

import (
	"fmt"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/sampling"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const (
	hoursPerDay   = 24
	weeksPerMonth = 4
)

// Generator produces synthetic historical congestion series.
type Generator struct {
	src sampling.Source
}

// NewGenerator creates a Generator drawing from src.
func NewGenerator(src sampling.Source) *Generator {
	return &Generator{src: src}
}

// Generate returns a series for the timeframe. "24h" yields hourly buckets,
// "week" daily buckets; every other value, "month" included, falls through to
// four weekly buckets. The timeframe is echoed unchanged.
func (g *Generator) Generate(timeframe string) domain.HistoricalSeries {
	var data []domain.HistoricalPoint

	switch timeframe {
	case domain.Timeframe24h:
		data = make([]domain.HistoricalPoint, 0, hoursPerDay)
		for h := 0; h < hoursPerDay; h++ {
			data = append(data, g.point(domain.BucketHour, fmt.Sprintf("%d:00", h)))
		}
	case domain.TimeframeWeek:
		data = make([]domain.HistoricalPoint, 0, len(weekdays))
		for _, day := range weekdays {
			data = append(data, g.point(domain.BucketDay, day))
		}
	default:
		data = make([]domain.HistoricalPoint, 0, weeksPerMonth)
		for w := 1; w <= weeksPerMonth; w++ {
			data = append(data, g.point(domain.BucketWeek, fmt.Sprintf("Week %d", w)))
		}
	}

	return domain.HistoricalSeries{
		Timeframe: timeframe,
		Data:      data,
	}
}

func (g *Generator) point(kind domain.BucketKind, label string) domain.HistoricalPoint {
	return domain.HistoricalPoint{
		Kind:       kind,
		Label:      label,
		Congestion: g.src.IntRange(MinCongestion, MaxCongestion),
	}
}
