package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/telemetry"

	"github.com/google/uuid"
)

// minInterval rejects cadences that would hammer the backend.
const minInterval = time.Second

var (
	ErrInvalidInterval = errors.New("interval must be at least 1s")
	ErrPassInFlight    = telemetry.ErrPassInFlight
)

// PollerScheduler is the part of telemetry.Scheduler the poller drives.
type PollerScheduler interface {
	Start(ctx context.Context)
	Stop()
	Reconfigure(cfg telemetry.SchedulerConfig) error
	Running() bool
	Config() telemetry.SchedulerConfig
	RefreshNow(ctx context.Context) (telemetry.Resolution, error)
}

// Prober runs every catalog entry for diagnostics.
type Prober interface {
	Probe(ctx context.Context) []telemetry.ProbeResult
}

// catalogProber binds a resolver to its catalog.
type catalogProber struct {
	resolver *telemetry.Resolver
	catalog  *telemetry.Catalog
}

func (p catalogProber) Probe(ctx context.Context) []telemetry.ProbeResult {
	return p.resolver.Probe(ctx, p.catalog)
}

// NewCatalogProber returns a prober over the given catalog.
func NewCatalogProber(r *telemetry.Resolver, c *telemetry.Catalog) Prober {
	return catalogProber{resolver: r, catalog: c}
}

// PollerService controls the acquisition scheduler, records control events
// and persists the last applied cadence.
type PollerService struct {
	sched        PollerScheduler
	probe        Prober
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	log          *logger.Logger

	// ctl serializes control actions so the persisted running flag
	// always matches the scheduler state left by the last action.
	ctl sync.Mutex

	// runCtx outlives individual HTTP requests; scheduler runs are bound to it.
	runCtx context.Context
}

func NewPollerService(runCtx context.Context, sched PollerScheduler, probe Prober, settingsRepo repository.SettingsRepo, eventRepo repository.EventRepo, log *logger.Logger) *PollerService {
	if runCtx == nil {
		runCtx = context.Background()
	}
	return &PollerService{
		sched:        sched,
		probe:        probe,
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		log:          log.Named("poller"),
		runCtx:       runCtx,
	}
}

// Start (re)starts acquisition. Starting a running poller restarts it.
func (s *PollerService) Start(ctx context.Context) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	return s.start(ctx)
}

func (s *PollerService) start(ctx context.Context) error {
	wasRunning := s.sched.Running()
	s.sched.Start(s.runCtx)

	cfg := s.sched.Config()
	s.appendEvent(ctx, EventStart, "Acquisition started", map[string]any{
		"restarted":        wasRunning,
		"fast_interval_ms": cfg.FastInterval.Milliseconds(),
		"slow_interval_ms": cfg.SlowInterval.Milliseconds(),
	})
	return s.persist(ctx)
}

// Stop halts acquisition. Stopping a stopped poller is a no-op apart from the log entry.
func (s *PollerService) Stop(ctx context.Context) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	wasRunning := s.sched.Running()
	s.sched.Stop()

	s.appendEvent(ctx, EventStop, "Acquisition stopped", map[string]any{"was_running": wasRunning})
	return s.persist(ctx)
}

// Reconfigure applies a new cadence; zero fields keep the current value.
func (s *PollerService) Reconfigure(ctx context.Context, p PollerParams) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	cur := s.sched.Config()
	next := cur
	if p.FastInterval != 0 {
		next.FastInterval = p.FastInterval
	}
	if p.SlowInterval != 0 {
		next.SlowInterval = p.SlowInterval
	}
	if next.FastInterval < minInterval || next.SlowInterval < minInterval {
		return ErrInvalidInterval
	}
	if err := s.sched.Reconfigure(next); err != nil {
		return fmt.Errorf("reconfigure scheduler: %w", err)
	}

	s.appendEvent(ctx, EventReconfigure, "Polling cadence changed", map[string]any{
		"from_fast_interval_ms": cur.FastInterval.Milliseconds(),
		"from_slow_interval_ms": cur.SlowInterval.Milliseconds(),
		"fast_interval_ms":      next.FastInterval.Milliseconds(),
		"slow_interval_ms":      next.SlowInterval.Milliseconds(),
	})
	return s.persist(ctx)
}

// Refresh runs one resolution pass now, through the scheduler's single-flight guard.
func (s *PollerService) Refresh(ctx context.Context) (telemetry.Resolution, error) {
	res, err := s.sched.RefreshNow(ctx)
	if errors.Is(err, telemetry.ErrPassInFlight) {
		return res, ErrPassInFlight
	}

	meta := map[string]any{"ok": err == nil}
	if err == nil {
		meta["source"] = res.Descriptor
	} else {
		meta["error"] = err.Error()
	}
	s.appendEvent(ctx, EventRefresh, "Manual refresh", meta)
	return res, err
}

// Probe tries every catalog entry and reports each outcome.
func (s *PollerService) Probe(ctx context.Context) []telemetry.ProbeResult {
	return s.probe.Probe(ctx)
}

// Settings reports the live cadence and running flag.
func (s *PollerService) Settings(ctx context.Context) (models.PollerSettings, error) {
	stored, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return models.PollerSettings{}, err
	}
	cfg := s.sched.Config()
	return models.PollerSettings{
		ID:             stored.ID,
		FastIntervalMs: cfg.FastInterval.Milliseconds(),
		SlowIntervalMs: cfg.SlowInterval.Milliseconds(),
		IsRunning:      s.sched.Running(),
		UpdatedAt:      stored.UpdatedAt,
	}, nil
}

// Resume applies persisted settings at process start. With nothing stored
// the poller starts with the configured cadence.
func (s *PollerService) Resume(ctx context.Context) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	stored, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load poller settings: %w", err)
	}
	if stored.ID == 0 {
		s.log.Infow("no_stored_settings_starting_with_defaults")
		return s.start(ctx)
	}

	cfg := s.sched.Config()
	cfg.FastInterval = time.Duration(stored.FastIntervalMs) * time.Millisecond
	cfg.SlowInterval = time.Duration(stored.SlowIntervalMs) * time.Millisecond
	if err := s.sched.Reconfigure(cfg); err != nil {
		return fmt.Errorf("apply stored settings: %w", err)
	}
	s.log.Infow("stored_settings_applied", "fast_interval", cfg.FastInterval, "slow_interval", cfg.SlowInterval, "running", stored.IsRunning)
	if stored.IsRunning {
		s.sched.Start(s.runCtx)
	}
	return nil
}

func (s *PollerService) persist(ctx context.Context) error {
	cfg := s.sched.Config()
	err := s.settingsRepo.Save(ctx, models.PollerSettings{
		FastIntervalMs: cfg.FastInterval.Milliseconds(),
		SlowIntervalMs: cfg.SlowInterval.Milliseconds(),
		IsRunning:      s.sched.Running(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("persist poller settings: %w", err)
	}
	return nil
}

// appendEvent is best-effort; a failed write never undoes the control action.
func (s *PollerService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.eventRepo.Append(ctx, models.DashboardEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}
