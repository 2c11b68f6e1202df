package domain

import "encoding/json"

// Supported historical timeframes. Anything else is bucketed like TimeframeMonth.
const (
	Timeframe24h   = "24h"
	TimeframeWeek  = "week"
	TimeframeMonth = "month"
)

// DefaultTimeframe is used when a request omits the timeframe.
const DefaultTimeframe = TimeframeWeek

// BucketKind names the JSON key a bucket label is published under.
type BucketKind string

const (
	BucketHour BucketKind = "hour"
	BucketDay  BucketKind = "day"
	BucketWeek BucketKind = "week"
)

// HistoricalPoint is a single labelled bucket of a historical series.
type HistoricalPoint struct {
	Kind       BucketKind
	Label      string
	Congestion int
}

// MarshalJSON publishes the label under its bucket key, e.g. {"hour":"3:00","congestion":12}.
func (p HistoricalPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		string(p.Kind): p.Label,
		"congestion":   p.Congestion,
	})
}

// HistoricalSeries is the payload served by /api/historical-data.
type HistoricalSeries struct {
	Timeframe string            `json:"timeframe"`
	Data      []HistoricalPoint `json:"data"`
}
