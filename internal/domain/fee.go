package domain

// Transaction types recognised by the fee calculator. Any other value is
// accepted and priced like a token transfer.
const (
	TxTypeTokenTransfer = "token-transfer"
	TxTypeNFTPurchase   = "nft-purchase"
	TxTypeSwap          = "swap"
	TxTypeSmartContract = "smart-contract"
)

// Urgency levels. Unknown values are priced like standard.
const (
	PriorityStandard = "standard"
	PriorityFast     = "fast"
	PriorityUrgent   = "urgent"
)

// DefaultPriorityFeeOverride is the override applied when a request omits priorityFee.
const DefaultPriorityFeeOverride = "0.000"

// FeeRequest describes the transaction a fee quote is requested for.
type FeeRequest struct {
	TransactionType string
	Priority        string
	PriorityFee     string // user override, advisory
}

// FeeQuote is the result of a fee calculation. All amounts are decimal strings in SOL.
type FeeQuote struct {
	BaseFee       string `json:"baseFee"`
	PriorityFee   string `json:"priorityFee"`
	TotalFee      string `json:"totalFee"`
	EstimatedTime string `json:"estimatedTime"`

	// Overridden reports whether the caller's override replaced the computed fee.
	Overridden bool `json:"-"`
}
