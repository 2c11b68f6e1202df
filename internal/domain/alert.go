package domain

import "time"

// AlertType is the severity class of an alert.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// IsValid checks if the alert type is a valid value.
func (t AlertType) IsValid() bool {
	return t == AlertSuccess || t == AlertWarning || t == AlertInfo
}

// Alert is a user notification.
// Corresponds to alerts table in PostgreSQL.
type Alert struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	AlertType AlertType `json:"alertType"`
	Type      string    `json:"type"` // e.g. "high_congestion", "fee_change"
	Threshold *int      `json:"threshold"`
	Active    bool      `json:"active"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
