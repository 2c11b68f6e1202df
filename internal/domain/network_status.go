package domain

// NetworkStatusRecord is the persisted projection of a CongestionReport.
// Corresponds to network_status table in PostgreSQL and congestion_samples in ClickHouse.
type NetworkStatusRecord struct {
	TimestampMs          int64  // Unix timestamp in milliseconds
	CongestionPercentage int    // sampled congestion, 0-100
	TPS                  int    // transactions per second
	BlockTimeMs          int    // block time in milliseconds
	FailedTxPercentage   int    // failed transaction share, percent
	Slot                 string // display slot counter
}

// NewNetworkStatusRecord projects a report onto its persisted form.
func NewNetworkStatusRecord(r CongestionReport, timestampMs int64) *NetworkStatusRecord {
	return &NetworkStatusRecord{
		TimestampMs:          timestampMs,
		CongestionPercentage: r.CongestionPercentage,
		TPS:                  r.TPS,
		BlockTimeMs:          r.BlockTimeMs,
		FailedTxPercentage:   r.FailedTxPercentage,
		Slot:                 r.CurrentSlot,
	}
}
