package domain

// CongestionStatus is the congestion tier derived from a congestion percentage.
type CongestionStatus string

const (
	CongestionLow    CongestionStatus = "Low"
	CongestionMedium CongestionStatus = "Medium"
	CongestionHigh   CongestionStatus = "High"
)

// String returns the string representation of CongestionStatus.
func (s CongestionStatus) String() string {
	return string(s)
}

// ConfirmationStatus reports whether confirmations are currently delayed.
type ConfirmationStatus string

const (
	ConfirmationNormal  ConfirmationStatus = "Normal"
	ConfirmationDelayed ConfirmationStatus = "Delayed"
)

// PriorityFeeStatus is the display label attached to a recommended priority fee.
type PriorityFeeStatus string

const (
	PriorityFeeStandard    PriorityFeeStatus = "Standard"
	PriorityFeeMedium      PriorityFeeStatus = "Medium"
	PriorityFeeRecommended PriorityFeeStatus = "High - Recommended"
)

// Confirmation time estimates shared by the classifier and the fee calculator.
const (
	ConfirmationFast   = "~0.3s"
	ConfirmationMedium = "~0.6s"
	ConfirmationSlow   = "~1.2s"
)

// CongestionReport is the network status served by /api/network-status.
// All classification fields are derived from CongestionPercentage; the
// telemetry fields are independent samples.
type CongestionReport struct {
	CongestionPercentage   int                `json:"congestionPercentage"`
	CongestionStatus       CongestionStatus   `json:"congestionStatus"`
	AvgConfirmationTime    string             `json:"avgConfirmationTime"`
	ConfirmationStatus     ConfirmationStatus `json:"confirmationStatus"`
	RecommendedPriorityFee string             `json:"recommendedPriorityFee"`
	PriorityFeeStatus      PriorityFeeStatus  `json:"priorityFeeStatus"`

	BlockTime            string  `json:"blockTime"` // e.g. "402ms"
	BlockTimeMs          int     `json:"-"`
	TPS                  int     `json:"tps"`
	FailedTxPercentage   int     `json:"failedTxPercentage"`
	ValidatorCount       int     `json:"validatorCount"`
	BlockTimeChange      float64 `json:"blockTimeChange"`
	TPSChange            float64 `json:"tpsChange"`
	FailedTxChange       float64 `json:"failedTxChange"`
	ValidatorCountChange float64 `json:"validatorCountChange"`
	CurrentSlot          string  `json:"currentSlot"`
}
