package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/telemetry"
)

// ---- Test doubles ----

type fakeScheduler struct {
	mu         sync.Mutex
	running    bool
	cfg        telemetry.SchedulerConfig
	starts     int
	stops      int
	refreshRes telemetry.Resolution
	refreshErr error
}

func (f *fakeScheduler) Start(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.running = true
}

func (f *fakeScheduler) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.running = false
}

func (f *fakeScheduler) Reconfigure(cfg telemetry.SchedulerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
	return nil
}

func (f *fakeScheduler) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeScheduler) Config() telemetry.SchedulerConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeScheduler) RefreshNow(context.Context) (telemetry.Resolution, error) {
	return f.refreshRes, f.refreshErr
}

type fakeSettingsRepo struct {
	mu      sync.Mutex
	stored  models.PollerSettings
	saved   []models.PollerSettings
	loadErr error
	saveErr error
}

func (f *fakeSettingsRepo) Save(_ context.Context, s models.PollerSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	s.ID = 1
	f.stored = s
	return nil
}

func (f *fakeSettingsRepo) Load(context.Context) (models.PollerSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored, f.loadErr
}

type fakeProber struct{ results []telemetry.ProbeResult }

func (f fakeProber) Probe(context.Context) []telemetry.ProbeResult { return f.results }

func defaultSchedCfg() telemetry.SchedulerConfig {
	return telemetry.SchedulerConfig{FastInterval: 20 * time.Second, SlowInterval: time.Minute, SlowInitialDelay: 25 * time.Second}
}

func newTestPoller() (*PollerService, *fakeScheduler, *fakeSettingsRepo, *fakeEventRepo) {
	sched := &fakeScheduler{cfg: defaultSchedCfg()}
	settings := &fakeSettingsRepo{}
	events := &fakeEventRepo{}
	svc := NewPollerService(context.Background(), sched, fakeProber{}, settings, events, logger.Nop())
	return svc, sched, settings, events
}

// ---- Tests ----

func TestPollerService_StartStopPersistAndLog(t *testing.T) {
	svc, sched, settings, events := newTestPoller()
	ctx := context.Background()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sched.Running() {
		t.Fatalf("scheduler should be running")
	}
	if last := settings.saved[len(settings.saved)-1]; !last.IsRunning || last.FastIntervalMs != 20000 || last.SlowIntervalMs != 60000 {
		t.Fatalf("unexpected persisted settings: %+v", last)
	}

	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if sched.Running() {
		t.Fatalf("scheduler should be stopped")
	}
	if last := settings.saved[len(settings.saved)-1]; last.IsRunning {
		t.Fatalf("persisted settings should say stopped: %+v", last)
	}

	want := []string{EventStart, EventStop, EventStop}
	if got := events.appendedTypes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for _, e := range events.appended {
		if e.EventID == "" || e.OccurredAt.IsZero() {
			t.Fatalf("event missing id or timestamp: %+v", e)
		}
	}
}

func TestPollerService_Reconfigure(t *testing.T) {
	tests := []struct {
		name     string
		params   PollerParams
		wantErr  error
		wantFast time.Duration
		wantSlow time.Duration
	}{
		{
			name:     "both intervals",
			params:   PollerParams{FastInterval: 5 * time.Second, SlowInterval: 30 * time.Second},
			wantFast: 5 * time.Second,
			wantSlow: 30 * time.Second,
		},
		{
			name:     "zero keeps current",
			params:   PollerParams{FastInterval: 10 * time.Second},
			wantFast: 10 * time.Second,
			wantSlow: time.Minute,
		},
		{
			name:     "too small",
			params:   PollerParams{FastInterval: 10 * time.Millisecond},
			wantErr:  ErrInvalidInterval,
			wantFast: 20 * time.Second,
			wantSlow: time.Minute,
		},
		{
			name:     "negative",
			params:   PollerParams{SlowInterval: -time.Second},
			wantErr:  ErrInvalidInterval,
			wantFast: 20 * time.Second,
			wantSlow: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sched, settings, events := newTestPoller()

			err := svc.Reconfigure(context.Background(), tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			cfg := sched.Config()
			if cfg.FastInterval != tt.wantFast || cfg.SlowInterval != tt.wantSlow {
				t.Fatalf("cfg = %+v", cfg)
			}
			if tt.wantErr != nil {
				if len(settings.saved) != 0 || len(events.appended) != 0 {
					t.Fatalf("rejected reconfigure must not persist or log")
				}
				return
			}
			if got := events.appendedTypes(); !reflect.DeepEqual(got, []string{EventReconfigure}) {
				t.Fatalf("events = %v", got)
			}
			if settings.stored.FastIntervalMs != tt.wantFast.Milliseconds() {
				t.Fatalf("persisted fast = %d", settings.stored.FastIntervalMs)
			}
		})
	}
}

func TestPollerService_Refresh(t *testing.T) {
	t.Run("success is logged with source", func(t *testing.T) {
		svc, sched, _, events := newTestPoller()
		sched.refreshRes = telemetry.Resolution{Descriptor: "Leituras dos Sensores"}

		res, err := svc.Refresh(context.Background())
		if err != nil || res.Descriptor != "Leituras dos Sensores" {
			t.Fatalf("Refresh = %+v, %v", res, err)
		}
		meta, _ := events.appended[0].Metadata.(map[string]any)
		if meta["source"] != "Leituras dos Sensores" || meta["ok"] != true {
			t.Fatalf("unexpected metadata: %+v", meta)
		}
	})

	t.Run("in flight is reported and not logged", func(t *testing.T) {
		svc, sched, _, events := newTestPoller()
		sched.refreshErr = telemetry.ErrPassInFlight

		if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrPassInFlight) {
			t.Fatalf("expected ErrPassInFlight, got %v", err)
		}
		if len(events.appended) != 0 {
			t.Fatalf("skipped refresh must not be logged")
		}
	})

	t.Run("all sources failed is logged with error", func(t *testing.T) {
		svc, sched, _, events := newTestPoller()
		sched.refreshErr = &telemetry.AllSourcesFailedError{}

		_, err := svc.Refresh(context.Background())
		if !telemetry.IsAllSourcesFailed(err) {
			t.Fatalf("expected AllSourcesFailed, got %v", err)
		}
		meta, _ := events.appended[0].Metadata.(map[string]any)
		if meta["ok"] != false || meta["error"] == nil {
			t.Fatalf("unexpected metadata: %+v", meta)
		}
	})
}

func TestPollerService_EventAppendFailureDoesNotFailAction(t *testing.T) {
	svc, sched, _, events := newTestPoller()
	events.appendErr = errors.New("disk full")

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start should succeed even if the log write fails: %v", err)
	}
	if !sched.Running() {
		t.Fatalf("scheduler should be running")
	}
}

func TestPollerService_PersistFailureIsReturned(t *testing.T) {
	svc, _, settings, _ := newTestPoller()
	settings.saveErr = errors.New("locked")

	if err := svc.Stop(context.Background()); err == nil {
		t.Fatalf("expected persist error")
	}
}

func TestPollerService_Settings(t *testing.T) {
	svc, sched, settings, _ := newTestPoller()
	stamp := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	settings.stored = models.PollerSettings{ID: 1, FastIntervalMs: 1, SlowIntervalMs: 1, UpdatedAt: stamp}
	sched.running = true

	got, err := svc.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	want := models.PollerSettings{ID: 1, FastIntervalMs: 20000, SlowIntervalMs: 60000, IsRunning: true, UpdatedAt: stamp}
	if got != want {
		t.Fatalf("Settings = %+v, want %+v", got, want)
	}

	settings.loadErr = errors.New("db down")
	if _, err := svc.Settings(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestPollerService_Resume(t *testing.T) {
	t.Run("nothing stored starts with defaults", func(t *testing.T) {
		svc, sched, settings, events := newTestPoller()

		if err := svc.Resume(context.Background()); err != nil {
			t.Fatalf("Resume: %v", err)
		}
		if !sched.Running() || len(settings.saved) != 1 {
			t.Fatalf("expected start + persist, running=%v saved=%d", sched.Running(), len(settings.saved))
		}
		if got := events.appendedTypes(); !reflect.DeepEqual(got, []string{EventStart}) {
			t.Fatalf("events = %v", got)
		}
	})

	t.Run("stored running cadence is applied", func(t *testing.T) {
		svc, sched, settings, _ := newTestPoller()
		settings.stored = models.PollerSettings{ID: 1, FastIntervalMs: 5000, SlowIntervalMs: 120000, IsRunning: true}

		if err := svc.Resume(context.Background()); err != nil {
			t.Fatalf("Resume: %v", err)
		}
		cfg := sched.Config()
		if cfg.FastInterval != 5*time.Second || cfg.SlowInterval != 2*time.Minute {
			t.Fatalf("cfg = %+v", cfg)
		}
		if cfg.SlowInitialDelay != 25*time.Second {
			t.Fatalf("initial delay must be kept, got %v", cfg.SlowInitialDelay)
		}
		if !sched.Running() {
			t.Fatalf("scheduler should be running")
		}
	})

	t.Run("stored stopped stays stopped", func(t *testing.T) {
		svc, sched, settings, _ := newTestPoller()
		settings.stored = models.PollerSettings{ID: 1, FastIntervalMs: 5000, SlowIntervalMs: 120000}

		if err := svc.Resume(context.Background()); err != nil {
			t.Fatalf("Resume: %v", err)
		}
		if sched.Running() || sched.starts != 0 {
			t.Fatalf("scheduler should stay stopped")
		}
	})

	t.Run("load error", func(t *testing.T) {
		svc, _, settings, _ := newTestPoller()
		settings.loadErr = errors.New("db down")
		if err := svc.Resume(context.Background()); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestPollerService_ProbeDelegates(t *testing.T) {
	want := []telemetry.ProbeResult{{Endpoint: "a", OK: true}, {Endpoint: "b", Reason: "status 500"}}
	svc := NewPollerService(context.Background(), &fakeScheduler{cfg: defaultSchedCfg()}, fakeProber{results: want}, &fakeSettingsRepo{}, &fakeEventRepo{}, logger.Nop())

	if got := svc.Probe(context.Background()); !reflect.DeepEqual(got, want) {
		t.Fatalf("Probe = %+v", got)
	}
}

func TestPollerService_ConcurrentControlKeepsPersistedStateConsistent(t *testing.T) {
	svc, sched, settings, _ := newTestPoller()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.Start(ctx)
		}()
		go func() {
			defer wg.Done()
			_ = svc.Stop(ctx)
		}()
	}
	wg.Wait()

	stored, err := settings.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored.IsRunning != sched.Running() {
		t.Fatalf("persisted running=%v, scheduler running=%v", stored.IsRunning, sched.Running())
	}
	if len(settings.saved) != 100 {
		t.Fatalf("expected 100 saves, got %d", len(settings.saved))
	}
}
