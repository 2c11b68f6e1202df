// Package fees computes priority fee quotes from a transaction type, an
// urgency level and an optional user override. All arithmetic is decimal.
package fees

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"solana-fee-advisor/internal/domain"
)

// ErrMalformedOverride is reported when a user-supplied priority fee is not a number.
// It never fails a quote; the override is ignored.
var ErrMalformedOverride = errors.New("malformed priority fee override")

// Fee constants in SOL.
var (
	BaseFee            = decimal.RequireFromString("0.000005")
	DefaultPriorityFee = decimal.RequireFromString("0.000005")
	FastPriorityFee    = decimal.RequireFromString("0.000010")
	UrgentPriorityFee  = decimal.RequireFromString("0.000020")

	nftPurchaseMultiplier   = decimal.RequireFromString("1.5")
	smartContractMultiplier = decimal.NewFromInt(2)

	// estimatedTime break points on the final priority fee
	fastConfirmationFee   = decimal.RequireFromString("0.000020")
	mediumConfirmationFee = decimal.RequireFromString("0.000010")
)

// Overrides outside these bounds are treated as malformed. Rescaling a
// decimal to an extreme exponent costs big.Int work proportional to it.
const (
	maxOverrideExponent = 18
	maxOverrideDigits   = 38
)

// minFeePlaces is the minimum number of fractional digits rendered.
// Values needing more digits are rendered exactly.
const minFeePlaces = 6

// Calculator produces fee quotes.
type Calculator struct {
	onMalformed func(raw string, err error)
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMalformedOverrideHook registers a callback invoked when an override is
// ignored because it does not parse.
func WithMalformedOverrideHook(fn func(raw string, err error)) Option {
	return func(c *Calculator) {
		c.onMalformed = fn
	}
}

// NewCalculator creates a Calculator.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote computes the fee quote for req. It never fails.
func (c *Calculator) Quote(req domain.FeeRequest) domain.FeeQuote {
	fee := applyTypeMultiplier(urgencyFee(req.Priority), req.TransactionType)
	feeText := formatFee(fee)
	overridden := false

	raw := strings.TrimSpace(req.PriorityFee)
	if raw != "" {
		override, err := ParseOverride(raw)
		switch {
		case err != nil:
			if c.onMalformed != nil {
				c.onMalformed(raw, err)
			}
		case override.GreaterThan(fee):
			fee = override
			feeText = raw
			overridden = true
		}
	}

	return domain.FeeQuote{
		BaseFee:       formatFee(BaseFee),
		PriorityFee:   feeText,
		TotalFee:      formatFee(BaseFee.Add(fee)),
		EstimatedTime: EstimateConfirmation(fee),
		Overridden:    overridden,
	}
}

// urgencyFee selects the tier fee. urgent beats fast; anything else is the default.
func urgencyFee(priority string) decimal.Decimal {
	switch priority {
	case domain.PriorityUrgent:
		return UrgentPriorityFee
	case domain.PriorityFast:
		return FastPriorityFee
	default:
		return DefaultPriorityFee
	}
}

func applyTypeMultiplier(fee decimal.Decimal, txType string) decimal.Decimal {
	switch txType {
	case domain.TxTypeNFTPurchase:
		return fee.Mul(nftPurchaseMultiplier)
	case domain.TxTypeSmartContract:
		return fee.Mul(smartContractMultiplier)
	default:
		return fee
	}
}

// EstimateConfirmation maps a final priority fee to a confirmation time estimate.
func EstimateConfirmation(fee decimal.Decimal) string {
	switch {
	case fee.GreaterThanOrEqual(fastConfirmationFee):
		return domain.ConfirmationFast
	case fee.GreaterThanOrEqual(mediumConfirmationFee):
		return domain.ConfirmationMedium
	default:
		return domain.ConfirmationSlow
	}
}

// ParseOverride parses a user-supplied fee. Plain and exponent notation are
// accepted as long as the exponent stays within ±18 and the value has at
// most 38 significant digits.
func ParseOverride(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedOverride, raw)
	}
	if exp := d.Exponent(); exp < -maxOverrideExponent || exp > maxOverrideExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: exponent %d out of range", ErrMalformedOverride, exp)
	}
	if d.NumDigits() > maxOverrideDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: too many digits", ErrMalformedOverride)
	}
	return d, nil
}

// formatFee renders d with at least minFeePlaces fractional digits and never rounds.
func formatFee(d decimal.Decimal) string {
	places := int32(minFeePlaces)
	// String trims trailing zeros, so it carries the exact significant scale
	if s := d.String(); strings.Contains(s, ".") {
		if frac := int32(len(s) - strings.IndexByte(s, '.') - 1); frac > places {
			places = frac
		}
	}
	return d.StringFixed(places)
}
