package service

import (
	"context"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/telemetry"
)

type Authorization interface {
	SignUp(username, fullName, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Telemetry exposes what the acquisition engine published, read-only.
type Telemetry interface {
	Current() (models.Reading, bool)
	History() []models.Reading
	Status() models.ConnectionStatus
	Analytics() AnalyticsSnapshot
	Snapshot() DashboardSnapshot
}

// Poller controls the acquisition scheduler.
type Poller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Reconfigure(ctx context.Context, p PollerParams) error
	Refresh(ctx context.Context) (telemetry.Resolution, error)
	Probe(ctx context.Context) []telemetry.ProbeResult
	Settings(ctx context.Context) (models.PollerSettings, error)
	Resume(ctx context.Context) error
}

// EventLog exposes the append-only control log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DashboardEvent, error)
}

// Simulator runs the synthetic sensor; nil when simulation is disabled.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
	Sample() SimulatedSample
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Telemetry
	Poller
	EventLog
	Simulator
}

// Engine is the already-built acquisition side the services wrap.
type Engine struct {
	RunCtx    context.Context
	Dashboard *DashboardService
	Scheduler PollerScheduler
	Prober    Prober
	Simulator *SimulatorService // nil disables the simulation route
}

// NewService wires the repository layer and the engine into concrete services.
func NewService(repos *repository.Repository, engine Engine, auth AuthConfig, log *logger.Logger) *Service {
	s := &Service{
		Authorization: NewAuthService(repos.Auth, auth),
		Telemetry:     engine.Dashboard,
		Poller:        NewPollerService(engine.RunCtx, engine.Scheduler, engine.Prober, repos.SettingsRepo, repos.EventRepo, log),
		EventLog:      NewEventLogService(repos.EventRepo),
	}
	if engine.Simulator != nil {
		s.Simulator = engine.Simulator
	}
	return s
}
