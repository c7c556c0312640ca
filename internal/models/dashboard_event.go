package models

import "time"

// DashboardEvent is a single entry of the poller control log.
type DashboardEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | RECONFIGURE | REFRESH
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
