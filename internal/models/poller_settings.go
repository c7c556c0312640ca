package models

import "time"

// PollerSettings is the last cadence applied to the scheduler.
type PollerSettings struct {
	ID             int       `json:"id"`
	FastIntervalMs int64     `json:"fast_interval_ms"`
	SlowIntervalMs int64     `json:"slow_interval_ms"`
	IsRunning      bool      `json:"is_running"`
	UpdatedAt      time.Time `json:"updated_at"`
}
