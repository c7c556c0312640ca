package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"

	"golang.org/x/sync/errgroup"
)

// Default cadences of the browser dashboard.
const (
	DefaultFastInterval     = 20 * time.Second
	DefaultSlowInterval     = 60 * time.Second
	DefaultSlowInitialDelay = 25 * time.Second
)

// ErrPassInFlight is returned by RefreshNow when a pass is already running.
var ErrPassInFlight = errors.New("a resolution pass is already in flight")

// SchedulerConfig holds the two cadences.
type SchedulerConfig struct {
	FastInterval     time.Duration
	SlowInterval     time.Duration
	SlowInitialDelay time.Duration
}

// Validate reports non-positive intervals as *ConfigError.
func (c SchedulerConfig) Validate() error {
	if c.FastInterval <= 0 {
		return &ConfigError{Field: "fast_interval", Reason: "must be positive"}
	}
	if c.SlowInterval <= 0 {
		return &ConfigError{Field: "slow_interval", Reason: "must be positive"}
	}
	if c.SlowInitialDelay < 0 {
		return &ConfigError{Field: "slow_initial_delay", Reason: "must not be negative"}
	}
	return nil
}

// SchedulerDeps are the collaborators driven by the scheduler.
type SchedulerDeps struct {
	Resolver  *Resolver
	Catalog   *Catalog
	Reporter  *StatusReporter
	UI        UISink
	Analytics AnalyticsSink
	Fetchers  []AnalyticsFetcher
	Log       *logger.Logger
	Metrics   *Metrics
}

// Scheduler drives the fast (current reading) and slow (analytics) triggers.
// It is either stopped or running; Start on a running scheduler restarts it.
type Scheduler struct {
	deps SchedulerDeps
	log  *logger.Logger

	mu      sync.Mutex
	cfg     SchedulerConfig
	running bool
	gen     uint64 // bumped on every start/stop; results of older runs are dropped
	base    context.Context
	cancel  context.CancelFunc
	loops   sync.WaitGroup

	passOwner         atomic.Uint64 // gen+1 of the run holding the pass slot, 0 when free
	analyticsInFlight atomic.Bool
	fastTriggers      atomic.Int32
	slowTriggers      atomic.Int32
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(cfg SchedulerConfig, deps SchedulerDeps) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Resolver == nil || deps.Catalog == nil || deps.UI == nil {
		return nil, &ConfigError{Reason: "scheduler needs a resolver, a catalog and a UI sink"}
	}
	if deps.Reporter == nil {
		deps.Reporter = NewStatusReporter(DefaultMaxConsecutiveFailures, deps.Metrics)
	}
	return &Scheduler{
		deps: deps,
		log:  deps.Log.Named("scheduler"),
		cfg:  cfg,
	}, nil
}

// Start begins both triggers and fires one fast pass immediately.
// ctx bounds the lifetime of the whole run, including in-flight passes.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(ctx)
}

// Stop cancels both triggers. A pass in flight may finish but its result is dropped.
// Calling Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Reconfigure applies new cadences, restarting the triggers when running.
func (s *Scheduler) Reconfigure(cfg SchedulerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if s.running {
		s.startLocked(s.base)
	}
	return nil
}

// Running reports whether the triggers are active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Config returns the cadences in use.
func (s *Scheduler) Config() SchedulerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Status returns the current connection status.
func (s *Scheduler) Status() models.ConnectionStatus {
	return s.deps.Reporter.Current()
}

// RefreshNow runs one pass synchronously through the single-flight guard.
// The outcome is published only while the scheduler is running.
func (s *Scheduler) RefreshNow(ctx context.Context) (Resolution, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	if !s.acquirePass(gen) {
		return Resolution{}, ErrPassInFlight
	}
	defer s.releasePass(gen)
	return s.runPass(ctx, gen)
}

func (s *Scheduler) startLocked(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	s.gen++
	s.base = ctx
	s.cancel = cancel
	s.running = true
	gen, cfg := s.gen, s.cfg

	s.loops.Add(2)
	s.fastTriggers.Add(1)
	s.slowTriggers.Add(1)
	go s.fastLoop(runCtx, ctx, gen, cfg.FastInterval)
	go s.slowLoop(runCtx, ctx, gen, cfg)

	s.log.Infow("scheduler_started", "fast_interval", cfg.FastInterval, "slow_interval", cfg.SlowInterval)
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	s.gen++
	// loops never take s.mu, so waiting here cannot deadlock
	s.loops.Wait()
	s.log.Infow("scheduler_stopped")
}

func (s *Scheduler) fastLoop(runCtx, base context.Context, gen uint64, interval time.Duration) {
	defer s.loops.Done()
	defer s.fastTriggers.Add(-1)

	s.tick(base, gen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-runCtx.Done():
			return
		case <-ticker.C:
			s.tick(base, gen)
		}
	}
}

func (s *Scheduler) slowLoop(runCtx, base context.Context, gen uint64, cfg SchedulerConfig) {
	defer s.loops.Done()
	defer s.slowTriggers.Add(-1)

	if len(s.deps.Fetchers) == 0 || s.deps.Analytics == nil {
		<-runCtx.Done()
		return
	}

	delay := time.NewTimer(cfg.SlowInitialDelay)
	defer delay.Stop()
	select {
	case <-runCtx.Done():
		return
	case <-delay.C:
		s.analyticsTick(base, gen)
	}

	ticker := time.NewTicker(cfg.SlowInterval)
	defer ticker.Stop()
	for {
		select {
		case <-runCtx.Done():
			return
		case <-ticker.C:
			s.analyticsTick(base, gen)
		}
	}
}

// tick launches a pass unless one of the same run is still in flight.
func (s *Scheduler) tick(base context.Context, gen uint64) {
	if !s.acquirePass(gen) {
		s.deps.Metrics.skipped()
		s.log.Debugw("pass_skipped_in_flight")
		return
	}
	go func() {
		defer s.releasePass(gen)
		_, _ = s.runPass(base, gen)
	}()
}

// acquirePass takes the single-flight slot for gen. A pass left over from an
// older run never blocks a newer one; its result is dropped anyway.
func (s *Scheduler) acquirePass(gen uint64) bool {
	owner := gen + 1
	for {
		cur := s.passOwner.Load()
		if cur >= owner {
			return false
		}
		if s.passOwner.CompareAndSwap(cur, owner) {
			return true
		}
	}
}

// releasePass frees the slot unless a newer run has taken it over.
func (s *Scheduler) releasePass(gen uint64) {
	s.passOwner.CompareAndSwap(gen+1, 0)
}

// runPass resolves once and publishes the outcome if gen is still current.
// A pass whose own context ended is not a source failure and publishes nothing.
func (s *Scheduler) runPass(ctx context.Context, gen uint64) (Resolution, error) {
	res, err := s.deps.Resolver.Resolve(ctx, s.deps.Catalog)
	if err != nil && ctx.Err() != nil {
		s.deps.Metrics.pass(outcomeDiscarded)
		s.log.Debugw("pass_abandoned", "gen", gen, "err", ctx.Err())
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || gen != s.gen {
		s.deps.Metrics.pass(outcomeDiscarded)
		s.log.Debugw("pass_result_discarded", "gen", gen)
		return res, err
	}

	status := s.deps.Reporter.Observe(res, err)
	if err == nil {
		s.deps.UI.OnReading(res.Reading)
	} else {
		s.log.Warnw("all_sources_failed", "err", err, "consecutive_failures", status.ConsecutiveFailures)
	}
	s.deps.UI.OnStatus(status)
	return res, err
}

func (s *Scheduler) analyticsTick(base context.Context, gen uint64) {
	if !s.analyticsInFlight.CompareAndSwap(false, true) {
		s.log.Debugw("analytics_skipped_in_flight")
		return
	}
	go func() {
		defer s.analyticsInFlight.Store(false)
		s.fetchAnalytics(base, gen)
	}()
}

// fetchAnalytics runs every fetcher concurrently. Failures are logged and
// counted; they never cancel the other fetchers or touch connection status.
func (s *Scheduler) fetchAnalytics(ctx context.Context, gen uint64) {
	var g errgroup.Group
	for _, f := range s.deps.Fetchers {
		g.Go(func() error {
			payload, err := s.deps.Resolver.FetchJSON(ctx, f.Path)
			if err != nil {
				s.deps.Metrics.analyticsFetch(string(f.Kind), "error")
				s.log.Warnw("analytics_fetch_failed", "kind", f.Kind, "err", err)
				return nil
			}
			s.deps.Metrics.analyticsFetch(string(f.Kind), resultOK)

			s.mu.Lock()
			defer s.mu.Unlock()
			if !s.running || gen != s.gen {
				return nil
			}
			deliverAnalytics(s.deps.Analytics, f.Kind, payload)
			return nil
		})
	}
	_ = g.Wait()
}

// activeTriggers reports how many fast and slow trigger loops are alive.
func (s *Scheduler) activeTriggers() (fast, slow int) {
	return int(s.fastTriggers.Load()), int(s.slowTriggers.Load())
}
