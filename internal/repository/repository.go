package repository

import (
	"context"
	"database/sql"

	"brew_control"
	"brew_control/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StatusRepo keeps the latest status snapshot so a restarted process has
// something to report before its first tick.
type StatusRepo interface {
	Save(ctx context.Context, st brew_control.Status) error
	Load(ctx context.Context) (brew_control.Status, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.BrewEvent) error
	List(ctx context.Context, q EventQuery) ([]models.BrewEvent, error)
}

type Repository struct {
	StatusRepo StatusRepo
	EventRepo  EventRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StatusRepo: NewStatusSQLite(db),
		EventRepo:  NewEventSQLite(db),
		Auth:       NewUserRepository(db),
	}
}
