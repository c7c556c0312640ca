package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"
	"sensor_dashboard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpFullName string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, fullName, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpFullName = fullName
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockTelemetry struct {
	mu        sync.Mutex
	current   *models.Reading
	history   []models.Reading
	status    models.ConnectionStatus
	analytics service.AnalyticsSnapshot
	snapshots int
}

func (m *mockTelemetry) Current() (models.Reading, bool) {
	if m.current == nil {
		return models.Reading{}, false
	}
	return *m.current, true
}
func (m *mockTelemetry) History() []models.Reading { return m.history }
func (m *mockTelemetry) Status() models.ConnectionStatus { return m.status }
func (m *mockTelemetry) Analytics() service.AnalyticsSnapshot { return m.analytics }
func (m *mockTelemetry) Snapshot() service.DashboardSnapshot {
	m.mu.Lock()
	m.snapshots++
	m.mu.Unlock()
	return service.DashboardSnapshot{
		Current:     m.current,
		History:     m.history,
		Status:      m.status,
		Analytics:   m.analytics,
		GeneratedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

type mockPoller struct {
	startErr       error
	stopErr        error
	reconfigureErr error
	refreshRes     telemetry.Resolution
	refreshErr     error
	probeRes       []telemetry.ProbeResult
	settings       models.PollerSettings
	settingsErr    error

	startCalled     int
	stopCalled      int
	reconfigureCall int
	lastParams      service.PollerParams
}

func (m *mockPoller) Start(ctx context.Context) error {
	m.startCalled++
	return m.startErr
}
func (m *mockPoller) Stop(ctx context.Context) error {
	m.stopCalled++
	return m.stopErr
}
func (m *mockPoller) Reconfigure(ctx context.Context, p service.PollerParams) error {
	m.reconfigureCall++
	m.lastParams = p
	return m.reconfigureErr
}
func (m *mockPoller) Refresh(ctx context.Context) (telemetry.Resolution, error) {
	return m.refreshRes, m.refreshErr
}
func (m *mockPoller) Probe(ctx context.Context) []telemetry.ProbeResult { return m.probeRes }
func (m *mockPoller) Settings(ctx context.Context) (models.PollerSettings, error) {
	return m.settings, m.settingsErr
}
func (m *mockPoller) Resume(ctx context.Context) error { return nil }

type mockEventLog struct {
	resp     []models.DashboardEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.DashboardEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockSimulator struct {
	sample service.SimulatedSample
}

func (m *mockSimulator) Run(ctx context.Context, tick time.Duration) { <-ctx.Done() }
func (m *mockSimulator) Sample() service.SimulatedSample { return m.sample }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
