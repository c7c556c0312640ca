package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sensor_dashboard/internal/telemetry"

	"github.com/spf13/viper"
)

const envPrefix = "DASHBOARD"

// Config is the whole application configuration.
type Config struct {
	Port       string
	DBPath     string
	LogLevel   string
	Backend    Backend
	Poller     Poller
	Analytics  Analytics
	Auth       Auth
	Simulation Simulation
}

type Backend struct {
	BaseURLs       []string
	ProbePath      string
	Token          string
	Email          string
	Password       string
	RequestTimeout time.Duration
}

type Poller struct {
	FastInterval           time.Duration
	SlowInterval           time.Duration
	SlowInitialDelay       time.Duration
	MaxPoints              int
	MaxConsecutiveFailures int
	FreshnessWindow        time.Duration
	Catalog                []telemetry.EndpointDescriptor
}

type Analytics struct {
	TrendsDays       int
	SummaryTimeframe string
}

type Auth struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Simulation struct {
	Enabled bool
	Tick    time.Duration
}

// Scheduler returns the cadence part of the poller settings.
func (p Poller) Scheduler() telemetry.SchedulerConfig {
	return telemetry.SchedulerConfig{
		FastInterval:     p.FastInterval,
		SlowInterval:     p.SlowInterval,
		SlowInitialDelay: p.SlowInitialDelay,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")

	v.SetDefault("backend.base_urls", []string{"http://localhost:8000"})
	v.SetDefault("backend.probe_path", "/health")
	v.SetDefault("backend.request_timeout", 10*time.Second)

	v.SetDefault("poller.fast_interval", telemetry.DefaultFastInterval)
	v.SetDefault("poller.slow_interval", telemetry.DefaultSlowInterval)
	v.SetDefault("poller.slow_initial_delay", telemetry.DefaultSlowInitialDelay)
	v.SetDefault("poller.max_points", telemetry.DefaultMaxPoints)
	v.SetDefault("poller.max_consecutive_failures", telemetry.DefaultMaxConsecutiveFailures)
	v.SetDefault("poller.freshness_window", 5*time.Minute)

	v.SetDefault("analytics.trends_days", 1)
	v.SetDefault("analytics.summary_timeframe", "6h")

	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("simulation.enabled", false)
	v.SetDefault("simulation.tick", time.Second)
}

// Load reads configs/config.yml (or the file at path when set), applies
// DASHBOARD_* environment overrides and validates the result.
// A missing config file is not an error; defaults and env still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:     v.GetString("port"),
		DBPath:   v.GetString("db.path"),
		LogLevel: v.GetString("log.level"),
		Backend: Backend{
			BaseURLs:       v.GetStringSlice("backend.base_urls"),
			ProbePath:      v.GetString("backend.probe_path"),
			Token:          v.GetString("backend.token"),
			Email:          v.GetString("backend.email"),
			Password:       v.GetString("backend.password"),
			RequestTimeout: v.GetDuration("backend.request_timeout"),
		},
		Poller: Poller{
			FastInterval:           v.GetDuration("poller.fast_interval"),
			SlowInterval:           v.GetDuration("poller.slow_interval"),
			SlowInitialDelay:       v.GetDuration("poller.slow_initial_delay"),
			MaxPoints:              v.GetInt("poller.max_points"),
			MaxConsecutiveFailures: v.GetInt("poller.max_consecutive_failures"),
			FreshnessWindow:        v.GetDuration("poller.freshness_window"),
		},
		Analytics: Analytics{
			TrendsDays:       v.GetInt("analytics.trends_days"),
			SummaryTimeframe: v.GetString("analytics.summary_timeframe"),
		},
		Auth: Auth{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		Simulation: Simulation{
			Enabled: v.GetBool("simulation.enabled"),
			Tick:    v.GetDuration("simulation.tick"),
		},
	}

	if v.IsSet("poller.catalog") {
		if err := v.UnmarshalKey("poller.catalog", &cfg.Poller.Catalog); err != nil {
			return nil, &telemetry.ConfigError{Field: "poller.catalog", Reason: err.Error()}
		}
	} else {
		cfg.Poller.Catalog = telemetry.DefaultDescriptors()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.Backend.BaseURLs) == 0 {
		return &telemetry.ConfigError{Field: "backend.base_urls", Reason: "at least one base URL is required"}
	}
	for i, u := range c.Backend.BaseURLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return &telemetry.ConfigError{Field: fmt.Sprintf("backend.base_urls[%d]", i), Reason: "must be an http(s) URL"}
		}
	}
	if c.Backend.RequestTimeout <= 0 {
		return &telemetry.ConfigError{Field: "backend.request_timeout", Reason: "must be positive"}
	}
	if err := c.Poller.Scheduler().Validate(); err != nil {
		return err
	}
	if c.Poller.MaxPoints <= 0 {
		return &telemetry.ConfigError{Field: "poller.max_points", Reason: "must be positive"}
	}
	if c.Poller.MaxConsecutiveFailures <= 0 {
		return &telemetry.ConfigError{Field: "poller.max_consecutive_failures", Reason: "must be positive"}
	}
	if c.Poller.FreshnessWindow <= 0 {
		return &telemetry.ConfigError{Field: "poller.freshness_window", Reason: "must be positive"}
	}
	if c.Auth.SigningKey == "" {
		return &telemetry.ConfigError{Field: "auth.signing_key", Reason: "must be set"}
	}
	if c.Auth.TokenTTL <= 0 {
		return &telemetry.ConfigError{Field: "auth.token_ttl", Reason: "must be positive"}
	}
	if c.Simulation.Enabled && c.Simulation.Tick <= 0 {
		return &telemetry.ConfigError{Field: "simulation.tick", Reason: "must be positive"}
	}
	return nil
}
