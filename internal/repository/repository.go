package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"power_wizard/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepo stores live wizard sessions. Sessions expire after the store's TTL.
type SessionRepo interface {
	Save(ctx context.Context, s models.Session) error
	// Load returns ErrSessionNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

// EventFilter narrows funnel event queries. Zero values match everything.
type EventFilter struct {
	SessionID string
	From      time.Time
	To        time.Time
	Type      string
}

// StepCount is the number of events of one type recorded for one step.
type StepCount struct {
	Step  string
	Type  string
	Count int
}

type EventRepo interface {
	Append(ctx context.Context, e models.FunnelEvent) error
	List(ctx context.Context, f EventFilter) ([]models.FunnelEvent, error)
	CountByStep(ctx context.Context, from, to time.Time) ([]StepCount, error)
}

type VariantRepo interface {
	// Get returns (nil, nil) when no variant was assigned yet.
	Get(ctx context.Context, visitorID, testID string) (*models.VariantAssignment, error)
	// Save stores an assignment unless one already exists for the pair.
	Save(ctx context.Context, a models.VariantAssignment) error
}

type Repository struct {
	Sessions SessionRepo
	Events   EventRepo
	Variants VariantRepo
}

// NewRepository wires the SQLite-backed repos around the given session store.
func NewRepository(db *sql.DB, sessions SessionRepo) *Repository {
	return &Repository{
		Sessions: sessions,
		Events:   NewEventSQLite(db),
		Variants: NewVariantSQLite(db),
	}
}
