package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"power_wizard/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const (
	insertEventSQL = `
		INSERT INTO funnel_events (id, session_id, occurred_at, type, step, message, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, session_id, occurred_at, type, step, message, meta FROM funnel_events`
	countByStepSQL  = `SELECT step, type, COUNT(*) FROM funnel_events`
)

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.FunnelEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.SessionID,
		e.OccurredAt.Format("2006-01-02 15:04:05"),
		normalizeType(e.Type),
		e.Step,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert funnel event %s: %w", e.Type, err)
	}
	return nil
}

// List returns events matching f, with [From, To] inclusive, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, f EventFilter) ([]models.FunnelEvent, error) {
	conds, args := timeRange(f.From, f.To)
	if f.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if typ := normalizeType(f.Type); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query funnel events: %w", err)
	}
	defer rows.Close()

	out := make([]models.FunnelEvent, 0, 64)
	for rows.Next() {
		var ev models.FunnelEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.SessionID, &ev.OccurredAt, &ev.Type, &ev.Step, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan funnel event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate funnel events: %w", err)
	}
	return out, nil
}

// CountByStep groups events in [from, to] by step and type. Events without a
// step are skipped.
func (r *EventSQLite) CountByStep(ctx context.Context, from, to time.Time) ([]StepCount, error) {
	conds, args := timeRange(from, to)
	conds = append(conds, "step <> ''")

	q := countByStepSQL + " WHERE " + strings.Join(conds, " AND ") + " GROUP BY step, type ORDER BY step, type"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("count funnel events: %w", err)
	}
	defer rows.Close()

	var out []StepCount
	for rows.Next() {
		var c StepCount
		if err := rows.Scan(&c.Step, &c.Type, &c.Count); err != nil {
			return nil, fmt.Errorf("scan step count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate step counts: %w", err)
	}
	return out, nil
}

func timeRange(from, to time.Time) ([]string, []any) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	return conds, args
}

func normalizeType(typ string) string {
	return strings.ToUpper(strings.TrimSpace(typ))
}
