// Package congestion samples synthetic network congestion and classifies it
// into the status fields served by the network status API.
package congestion

import (
	"fmt"
	"strconv"
	"time"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/sampling"
)

// Sampling ranges (inclusive). Clients threshold on these bounds, so they are
// part of the API contract.
const (
	MinCongestion = 5
	MaxCongestion = 40

	minBlockTimeMs = 380
	maxBlockTimeMs = 420
	minTPS         = 1500
	maxTPS         = 2500
	minFailedTxPct = 1
	maxFailedTxPct = 5
	minValidators  = 1900
	maxValidators  = 2000

	blockTimeChangeSpan      = 5.0
	tpsChangeSpan            = 10.0
	failedTxChangeSpan       = 2.0
	validatorCountChangeSpan = 5.0
)

// Classification break points. The tier partition and the delay threshold are
// independent and must not be merged.
const (
	highThreshold    = 30 // tier is High above this
	mediumThreshold  = 15 // tier is Medium above this
	delayedThreshold = 25 // confirmations are Delayed at or above this
)

// Recommended priority fees per tier, in SOL.
const (
	FeeLow    = "0.000005"
	FeeMedium = "0.000010"
	FeeHigh   = "0.000025"
)

// tier groups the outputs that share the High/Medium/Low partition.
type tier struct {
	status      domain.CongestionStatus
	confirmTime string
	fee         string
	feeStatus   domain.PriorityFeeStatus
}

var (
	tierHigh   = tier{domain.CongestionHigh, domain.ConfirmationSlow, FeeHigh, domain.PriorityFeeRecommended}
	tierMedium = tier{domain.CongestionMedium, domain.ConfirmationMedium, FeeMedium, domain.PriorityFeeMedium}
	tierLow    = tier{domain.CongestionLow, domain.ConfirmationFast, FeeLow, domain.PriorityFeeStandard}
)

// tierFor evaluates thresholds high-to-low; first match wins.
func tierFor(pct int) tier {
	switch {
	case pct > highThreshold:
		return tierHigh
	case pct > mediumThreshold:
		return tierMedium
	default:
		return tierLow
	}
}

// Classifier produces congestion reports.
type Classifier struct {
	src sampling.Source
	now func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock sets the clock used to derive the slot counter.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier creates a Classifier drawing from src.
func NewClassifier(src sampling.Source, opts ...Option) *Classifier {
	c := &Classifier{
		src: src,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify samples a congestion percentage and returns the full report.
func (c *Classifier) Classify() domain.CongestionReport {
	return c.ClassifyPercentage(c.src.IntRange(MinCongestion, MaxCongestion))
}

// ClassifyPercentage builds a report for a fixed congestion percentage.
// Classification fields depend only on pct; telemetry is sampled fresh.
func (c *Classifier) ClassifyPercentage(pct int) domain.CongestionReport {
	t := tierFor(pct)

	confirmation := domain.ConfirmationNormal
	if pct >= delayedThreshold {
		confirmation = domain.ConfirmationDelayed
	}

	blockTimeMs := c.src.IntRange(minBlockTimeMs, maxBlockTimeMs)

	return domain.CongestionReport{
		CongestionPercentage:   pct,
		CongestionStatus:       t.status,
		AvgConfirmationTime:    t.confirmTime,
		ConfirmationStatus:     confirmation,
		RecommendedPriorityFee: t.fee,
		PriorityFeeStatus:      t.feeStatus,

		BlockTime:            fmt.Sprintf("%dms", blockTimeMs),
		BlockTimeMs:          blockTimeMs,
		TPS:                  c.src.IntRange(minTPS, maxTPS),
		FailedTxPercentage:   c.src.IntRange(minFailedTxPct, maxFailedTxPct),
		ValidatorCount:       c.src.IntRange(minValidators, maxValidators),
		BlockTimeChange:      c.src.FloatRange(-blockTimeChangeSpan, blockTimeChangeSpan),
		TPSChange:            c.src.FloatRange(-tpsChangeSpan, tpsChangeSpan),
		FailedTxChange:       c.src.FloatRange(-failedTxChangeSpan, failedTxChangeSpan),
		ValidatorCountChange: c.src.FloatRange(-validatorCountChangeSpan, validatorCountChangeSpan),
		CurrentSlot:          slotAt(c.now()),
	}
}

// slotAt returns wall-clock seconds x10, truncated. Display counter only.
func slotAt(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli()/100, 10)
}
