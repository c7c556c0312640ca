package telemetry

import (
	"encoding/json"

	"sensor_dashboard/internal/models"
)

// UISink receives accepted readings and status changes from the fast trigger.
type UISink interface {
	OnReading(r models.Reading)
	OnStatus(s models.ConnectionStatus)
}

// AnalyticsSink receives slow-trigger payloads as returned by the backend.
type AnalyticsSink interface {
	OnTrends(payload json.RawMessage)
	OnDataQuality(payload json.RawMessage)
	OnSummary(payload json.RawMessage)
	OnPipelineStats(payload json.RawMessage)
}
