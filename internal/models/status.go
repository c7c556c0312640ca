package models

// Connection states reported to the dashboard.
const (
	StateConnecting   = "CONNECTING"
	StateConnected    = "CONNECTED"
	StateDegraded     = "DEGRADED"
	StateDisconnected = "DISCONNECTED"
)

// ConnectionStatus is derived on every resolution attempt and never persisted.
type ConnectionStatus struct {
	State               string `json:"state"` // CONNECTING | CONNECTED | DEGRADED | DISCONNECTED
	Label               string `json:"label"`
	Source              string `json:"source,omitempty"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
}
