package congestion

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/sampling"
)

func newTestClassifier() *Classifier {
	return NewClassifier(sampling.NewSeeded(7, 11))
}

func TestClassifyPercentage_Tiers(t *testing.T) {
	c := newTestClassifier()

	for p := 0; p <= 99; p++ {
		r := c.ClassifyPercentage(p)

		var want domain.CongestionStatus
		switch {
		case p > 30:
			want = domain.CongestionHigh
		case p > 15:
			want = domain.CongestionMedium
		default:
			want = domain.CongestionLow
		}
		if r.CongestionStatus != want {
			t.Errorf("p=%d: expected %s, got %s", p, want, r.CongestionStatus)
		}
	}
}

func TestClassifyPercentage_TierOutputs(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		pct         int
		status      domain.CongestionStatus
		confirmTime string
		fee         string
		feeStatus   domain.PriorityFeeStatus
	}{
		{5, domain.CongestionLow, "~0.3s", "0.000005", domain.PriorityFeeStandard},
		{15, domain.CongestionLow, "~0.3s", "0.000005", domain.PriorityFeeStandard},
		{16, domain.CongestionMedium, "~0.6s", "0.000010", domain.PriorityFeeMedium},
		{30, domain.CongestionMedium, "~0.6s", "0.000010", domain.PriorityFeeMedium},
		{31, domain.CongestionHigh, "~1.2s", "0.000025", "High - Recommended"},
		{40, domain.CongestionHigh, "~1.2s", "0.000025", "High - Recommended"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.pct), func(t *testing.T) {
			r := c.ClassifyPercentage(tt.pct)
			assert.Equal(t, tt.pct, r.CongestionPercentage)
			assert.Equal(t, tt.status, r.CongestionStatus)
			assert.Equal(t, tt.confirmTime, r.AvgConfirmationTime)
			assert.Equal(t, tt.fee, r.RecommendedPriorityFee)
			assert.Equal(t, tt.feeStatus, r.PriorityFeeStatus)
		})
	}
}

func TestClassifyPercentage_DelayedIndependentOfTier(t *testing.T) {
	c := newTestClassifier()

	for p := 0; p <= 99; p++ {
		r := c.ClassifyPercentage(p)
		wantDelayed := p >= 25
		if (r.ConfirmationStatus == domain.ConfirmationDelayed) != wantDelayed {
			t.Errorf("p=%d: unexpected confirmation status %s", p, r.ConfirmationStatus)
		}
	}

	// 28 sits in the Medium tier but past the delay threshold
	r := c.ClassifyPercentage(28)
	assert.Equal(t, domain.CongestionMedium, r.CongestionStatus)
	assert.Equal(t, domain.ConfirmationDelayed, r.ConfirmationStatus)

	r = c.ClassifyPercentage(24)
	assert.Equal(t, domain.ConfirmationNormal, r.ConfirmationStatus)
}

func TestClassifyPercentage_Idempotent(t *testing.T) {
	c := newTestClassifier()

	for _, p := range []int{5, 20, 25, 33} {
		a := c.ClassifyPercentage(p)
		b := c.ClassifyPercentage(p)
		assert.Equal(t, a.CongestionStatus, b.CongestionStatus)
		assert.Equal(t, a.AvgConfirmationTime, b.AvgConfirmationTime)
		assert.Equal(t, a.ConfirmationStatus, b.ConfirmationStatus)
		assert.Equal(t, a.RecommendedPriorityFee, b.RecommendedPriorityFee)
		assert.Equal(t, a.PriorityFeeStatus, b.PriorityFeeStatus)
	}
}

func TestClassify_PercentageRange(t *testing.T) {
	c := newTestClassifier()

	for i := 0; i < 2000; i++ {
		r := c.Classify()
		require.GreaterOrEqual(t, r.CongestionPercentage, MinCongestion)
		require.LessOrEqual(t, r.CongestionPercentage, MaxCongestion)
	}
}

func TestClassify_TelemetryRanges(t *testing.T) {
	c := newTestClassifier()

	for i := 0; i < 500; i++ {
		r := c.Classify()

		require.True(t, strings.HasSuffix(r.BlockTime, "ms"), "block time %q", r.BlockTime)
		ms, err := strconv.Atoi(strings.TrimSuffix(r.BlockTime, "ms"))
		require.NoError(t, err)
		assert.Equal(t, r.BlockTimeMs, ms)
		assert.GreaterOrEqual(t, ms, 380)
		assert.LessOrEqual(t, ms, 420)

		assert.GreaterOrEqual(t, r.TPS, 1500)
		assert.LessOrEqual(t, r.TPS, 2500)
		assert.GreaterOrEqual(t, r.FailedTxPercentage, 1)
		assert.LessOrEqual(t, r.FailedTxPercentage, 5)
		assert.GreaterOrEqual(t, r.ValidatorCount, 1900)
		assert.LessOrEqual(t, r.ValidatorCount, 2000)

		assert.True(t, r.BlockTimeChange >= -5 && r.BlockTimeChange <= 5)
		assert.True(t, r.TPSChange >= -10 && r.TPSChange <= 10)
		assert.True(t, r.FailedTxChange >= -2 && r.FailedTxChange <= 2)
		assert.True(t, r.ValidatorCountChange >= -5 && r.ValidatorCountChange <= 5)
	}
}

func TestClassify_SlotFromClock(t *testing.T) {
	fixed := time.Unix(1700000000, 250_000_000) // 1700000000.25s
	c := NewClassifier(sampling.NewSeeded(1, 1), WithClock(func() time.Time { return fixed }))

	r := c.Classify()
	assert.Equal(t, "17000000002", r.CurrentSlot)
}

func TestClassify_SlotMonotonic(t *testing.T) {
	now := time.Unix(1700000000, 0)
	c := NewClassifier(sampling.NewSeeded(1, 1), WithClock(func() time.Time { return now }))

	first, err := strconv.ParseInt(c.Classify().CurrentSlot, 10, 64)
	require.NoError(t, err)

	now = now.Add(time.Second)
	second, err := strconv.ParseInt(c.Classify().CurrentSlot, 10, 64)
	require.NoError(t, err)

	assert.Equal(t, first+10, second)
}
