package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "sensor_dashboard/docs"
	"sensor_dashboard/internal/config"
	"sensor_dashboard/internal/handlers"
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/server"
	"sensor_dashboard/internal/service"
	"sensor_dashboard/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 10 * time.Second
	simulationName  = "Simulação"
	simulationPath  = "/sim/thingspeak"
)

// @title                       Sensor Dashboard API
// @version                     1.0
// @description                 Adaptive telemetry acquisition for the IoT sensor dashboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	db, err := openDB(cfg.DBPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, sched, err := buildEngine(ctx, cfg, reg, log)
	if err != nil {
		log.Fatalw("failed to build acquisition engine", "err", err)
	}

	repos := repository.NewRepository(db)
	services := service.NewService(repos, engine, service.AuthConfig{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, log)
	apiHandler := handlers.NewHandler(services, log, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	if engine.Simulator != nil {
		go services.Simulator.Run(ctx, cfg.Simulation.Tick)
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	if err := services.Poller.Resume(ctx); err != nil {
		log.Errorw("failed to resume poller", "err", err)
	}

	waitForShutdown(cancel, srv, sched, log)
}

// buildEngine wires transport, resolver, catalog and scheduler from config.
func buildEngine(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log *logger.Logger) (service.Engine, *telemetry.Scheduler, error) {
	transport := telemetry.NewHTTPTransport(cfg.Backend.RequestTimeout)
	baseURL := telemetry.SelectBaseURL(ctx, transport, cfg.Backend.BaseURLs, cfg.Backend.ProbePath, log)

	session := service.NewUpstreamSession(service.SessionConfig{
		BaseURL:  baseURL,
		Token:    cfg.Backend.Token,
		Email:    cfg.Backend.Email,
		Password: cfg.Backend.Password,
	}, transport, log)

	metrics := telemetry.NewMetrics(reg)
	resolver := telemetry.NewResolver(transport, baseURL,
		telemetry.WithTokenSource(session),
		telemetry.WithAttemptTimeout(cfg.Backend.RequestTimeout),
		telemetry.WithLogger(log),
		telemetry.WithMetrics(metrics),
	)

	descriptors := cfg.Poller.Catalog
	var sim *service.SimulatorService
	if cfg.Simulation.Enabled {
		sim = service.NewSimulatorService(log)
		descriptors = append(append([]telemetry.EndpointDescriptor(nil), descriptors...), telemetry.EndpointDescriptor{
			Name:  simulationName,
			Path:  fmt.Sprintf("http://localhost:%s%s", cfg.Port, simulationPath),
			Shape: telemetry.ShapeThingSpeakSingle,
		})
	}
	catalog, err := telemetry.NewCatalog(descriptors)
	if err != nil {
		return service.Engine{}, nil, err
	}

	dashboard := service.NewDashboardService(cfg.Poller.MaxPoints, cfg.Poller.FreshnessWindow)
	sched, err := telemetry.NewScheduler(cfg.Poller.Scheduler(), telemetry.SchedulerDeps{
		Resolver:  resolver,
		Catalog:   catalog,
		Reporter:  telemetry.NewStatusReporter(cfg.Poller.MaxConsecutiveFailures, metrics),
		UI:        dashboard,
		Analytics: dashboard,
		Fetchers:  telemetry.DefaultAnalyticsFetchers(cfg.Analytics.TrendsDays, cfg.Analytics.SummaryTimeframe),
		Log:       log,
		Metrics:   metrics,
	})
	if err != nil {
		return service.Engine{}, nil, err
	}

	log.Infow("engine_ready", "base_url", baseURL, "catalog", catalog.Len(), "simulation", sim != nil)
	return service.Engine{
		RunCtx:    ctx,
		Dashboard: dashboard,
		Scheduler: sched,
		Prober:    service.NewCatalogProber(resolver, catalog),
		Simulator: sim,
	}, sched, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(dbPath string, log *logger.Logger) (*sql.DB, error) {
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, sched *telemetry.Scheduler, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop triggers first so no pass publishes into a closing process
	sched.Stop()
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
