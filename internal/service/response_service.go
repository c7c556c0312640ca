package service

import "time"

// PollerParams carries a new cadence. Zero fields keep the current value.
type PollerParams struct {
	FastInterval time.Duration
	SlowInterval time.Duration
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "RECONFIGURE", "REFRESH"
}

// Event types written by the poller service.
const (
	EventStart       = "START"
	EventStop        = "STOP"
	EventReconfigure = "RECONFIGURE"
	EventRefresh     = "REFRESH"
)
