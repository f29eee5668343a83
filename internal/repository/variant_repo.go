package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"power_wizard/internal/models"
)

type VariantSQLite struct {
	db *sql.DB
}

func NewVariantSQLite(db *sql.DB) *VariantSQLite {
	return &VariantSQLite{db: db}
}

// Ensure implementation of VariantRepo interface at compile time.
var _ VariantRepo = (*VariantSQLite)(nil)

const (
	insertVariantSQL = `
		INSERT INTO ab_variants (visitor_id, test_id, variant, assigned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id, test_id) DO NOTHING
	`
	selectVariantSQL = `SELECT visitor_id, test_id, variant, assigned_at FROM ab_variants WHERE visitor_id = ? AND test_id = ?`
)

// Get fetches the stored assignment. Returns (nil, nil) if not found.
func (r *VariantSQLite) Get(ctx context.Context, visitorID, testID string) (*models.VariantAssignment, error) {
	var a models.VariantAssignment
	err := r.db.QueryRowContext(ctx, selectVariantSQL, visitorID, testID).
		Scan(&a.VisitorID, &a.TestID, &a.Variant, &a.AssignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select variant %q/%q: %w", visitorID, testID, err)
	}
	a.AssignedAt = a.AssignedAt.UTC()
	return &a, nil
}

// Save inserts the assignment; an existing row for the pair wins.
func (r *VariantSQLite) Save(ctx context.Context, a models.VariantAssignment) error {
	ts := a.AssignedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertVariantSQL, a.VisitorID, a.TestID, a.Variant, ts); err != nil {
		return fmt.Errorf("insert variant %q/%q: %w", a.VisitorID, a.TestID, err)
	}
	return nil
}
