package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sensor_dashboard/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	pollerSettingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO poller_settings (id, fast_interval_ms, slow_interval_ms, running, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fast_interval_ms=excluded.fast_interval_ms,
			slow_interval_ms=excluded.slow_interval_ms,
			running=excluded.running,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `
		SELECT id, fast_interval_ms, slow_interval_ms, running, updated_at
		FROM poller_settings WHERE id=?
	`
)

// Save upserts the single settings row. A zero UpdatedAt is stamped with now.
func (r *SettingsSQLite) Save(ctx context.Context, s models.PollerSettings) error {
	if s.FastIntervalMs <= 0 || s.SlowIntervalMs <= 0 {
		return fmt.Errorf("save poller settings: intervals must be positive (fast=%d slow=%d)", s.FastIntervalMs, s.SlowIntervalMs)
	}
	ts := s.UpdatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	if _, err := r.db.ExecContext(ctx, upsertSettingsSQL,
		pollerSettingsRowID,
		s.FastIntervalMs,
		s.SlowIntervalMs,
		s.IsRunning,
		ts,
	); err != nil {
		return fmt.Errorf("save poller settings: %w", err)
	}
	return nil
}

// Load returns the stored settings, or the zero value when nothing was saved yet.
func (r *SettingsSQLite) Load(ctx context.Context) (models.PollerSettings, error) {
	var s models.PollerSettings
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, pollerSettingsRowID).Scan(
		&s.ID,
		&s.FastIntervalMs,
		&s.SlowIntervalMs,
		&s.IsRunning,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PollerSettings{}, nil
		}
		return models.PollerSettings{}, fmt.Errorf("load poller settings: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
