package repository

import (
	"context"
	"database/sql"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

type Authorization interface {
	Create(username, fullName, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// SettingsRepo stores the single row of poller settings.
type SettingsRepo interface {
	Save(ctx context.Context, s models.PollerSettings) error
	Load(ctx context.Context) (models.PollerSettings, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.DashboardEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.DashboardEvent, error)
}

type Repository struct {
	SettingsRepo SettingsRepo
	EventRepo    EventRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		SettingsRepo: NewSettingsSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserRepository(db),
	}
}

// InitDB opens the SQLite file at path and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
