package service

import (
	"encoding/json"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/telemetry"
)

const defaultFreshnessWindow = 5 * time.Minute

// AnalyticsSnapshot holds the last slow-trigger payloads, as returned by the backend.
type AnalyticsSnapshot struct {
	Trends        json.RawMessage `json:"trends,omitempty"`
	DataQuality   json.RawMessage `json:"data_quality,omitempty"`
	Summary       json.RawMessage `json:"summary,omitempty"`
	PipelineStats json.RawMessage `json:"pipeline_stats,omitempty"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// DashboardSnapshot is everything a browser needs to paint the dashboard.
type DashboardSnapshot struct {
	Current      *models.Reading         `json:"current"`
	History      []models.Reading        `json:"history"`
	Status       models.ConnectionStatus `json:"status"`
	DeviceOnline bool                    `json:"device_online"`
	Analytics    AnalyticsSnapshot       `json:"analytics"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// DashboardService is the in-memory sink the scheduler publishes into.
type DashboardService struct {
	history   *telemetry.RingBuffer[models.Reading]
	freshness time.Duration
	now       func() time.Time

	mu        sync.RWMutex
	current   *models.Reading
	status    models.ConnectionStatus
	analytics AnalyticsSnapshot
}

var (
	_ telemetry.UISink        = (*DashboardService)(nil)
	_ telemetry.AnalyticsSink = (*DashboardService)(nil)
)

// NewDashboardService keeps at most maxPoints readings of history.
func NewDashboardService(maxPoints int, freshness time.Duration) *DashboardService {
	if freshness <= 0 {
		freshness = defaultFreshnessWindow
	}
	return &DashboardService{
		history:   telemetry.NewRingBuffer[models.Reading](maxPoints),
		freshness: freshness,
		now:       time.Now,
		status: models.ConnectionStatus{
			State: models.StateConnecting,
			Label: "Connecting...",
		},
	}
}

// OnReading records r as current. A reading carrying earlier batch
// samples replaces the chart history with the batch; others are appended.
func (d *DashboardService) OnReading(r models.Reading) {
	if len(r.Earlier) > 0 {
		batch := make([]models.Reading, 0, len(r.Earlier)+1)
		for _, e := range r.Earlier {
			if e.SourceName == "" {
				e.SourceName = r.SourceName
			}
			batch = append(batch, e)
		}
		r.Earlier = nil
		d.history.Replace(append(batch, r))
	} else {
		d.history.Push(r)
	}
	d.mu.Lock()
	d.current = &r
	d.mu.Unlock()
}

func (d *DashboardService) OnStatus(s models.ConnectionStatus) {
	d.mu.Lock()
	d.status = s
	d.mu.Unlock()
}

func (d *DashboardService) OnTrends(p json.RawMessage) {
	d.setAnalytics(func(a *AnalyticsSnapshot) { a.Trends = p })
}

func (d *DashboardService) OnDataQuality(p json.RawMessage) {
	d.setAnalytics(func(a *AnalyticsSnapshot) { a.DataQuality = p })
}

func (d *DashboardService) OnSummary(p json.RawMessage) {
	d.setAnalytics(func(a *AnalyticsSnapshot) { a.Summary = p })
}

func (d *DashboardService) OnPipelineStats(p json.RawMessage) {
	d.setAnalytics(func(a *AnalyticsSnapshot) { a.PipelineStats = p })
}

func (d *DashboardService) setAnalytics(apply func(*AnalyticsSnapshot)) {
	now := d.now().UTC()
	d.mu.Lock()
	defer d.mu.Unlock()
	apply(&d.analytics)
	d.analytics.UpdatedAt = &now
}

// Current returns the latest accepted reading, if any.
func (d *DashboardService) Current() (models.Reading, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return models.Reading{}, false
	}
	return *d.current, true
}

// History returns the chart points, oldest first.
func (d *DashboardService) History() []models.Reading {
	return d.history.Items()
}

func (d *DashboardService) Status() models.ConnectionStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *DashboardService) Analytics() AnalyticsSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.analytics
}

// Snapshot assembles the full dashboard view. The device counts as online
// when the latest reading was captured within the freshness window.
func (d *DashboardService) Snapshot() DashboardSnapshot {
	now := d.now().UTC()
	history := d.history.Items()

	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardSnapshot{
		History:     history,
		Status:      d.status,
		Analytics:   d.analytics,
		GeneratedAt: now,
	}
	if d.current != nil {
		cur := *d.current
		snap.Current = &cur
		snap.DeviceOnline = now.Sub(cur.CapturedAt) <= d.freshness
	}
	return snap
}
