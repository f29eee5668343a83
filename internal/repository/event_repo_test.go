package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"power_wizard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMockEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewEventSQLite(db), mock
}

var eventColumns = []string{"id", "session_id", "occurred_at", "type", "step", "message", "meta"}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), "s-1", sqlmock.AnyArg(),
			"STEP_COMPLETED", "address", "address completed",
			`{"elapsed_ms":1200}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.FunnelEvent{
		// EventID empty -> repo generates
		// OccurredAt zero -> repo sets UTC now
		SessionID:   "s-1",
		Type:        "  step_completed ",
		Step:        "address",
		Description: "address completed",
		Metadata:    map[string]any{"elapsed_ms": 1200},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)
	mock.ExpectExec("INSERT INTO funnel_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.FunnelEvent{Type: "wizard_reset", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"plan_id": "gexa-saver-supreme-12"})

	rows := sqlmock.NewRows(eventColumns).
		AddRow("1", "s-1", now, "PLAN_SELECTED", "plan-selection", "m1", string(js)).
		AddRow("2", "s-1", now.Add(time.Hour), "STEP_BACK", "address", "m2", nil).
		AddRow("3", "s-2", now.Add(2*time.Hour), "STEP_BACK", "address", "m3", "{broken")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + ` ORDER BY occurred_at ASC`)).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), EventFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	if got[0].SessionID != "s-1" || got[0].Step != "plan-selection" {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{broken" {
		t.Fatalf("expected raw meta kept, got %#v", got[2].Metadata)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	from := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectEventsSQL + ` WHERE occurred_at >= ? AND occurred_at <= ? AND session_id = ? AND type = ? ORDER BY occurred_at ASC`
	rows := sqlmock.NewRows(eventColumns).
		AddRow("2", "s-9", from, "STEP_BLOCKED", "address", "b", nil)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from, to, "s-9", "STEP_BLOCKED").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), EventFilter{SessionID: "s-9", From: from, To: to, Type: " step_blocked "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	rows := sqlmock.NewRows(eventColumns).
		// occurred_at wrong type to force scan error
		AddRow("x", "s", 123, "STEP_BACK", "address", "msg", nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnRows(rows)

	if _, err := repo.List(ctx(t), EventFilter{}); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}

func TestList_QueryError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnError(sql.ErrConnDone)

	_, err := repo.List(ctx(t), EventFilter{})
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected wrapped ErrConnDone, got %v", err)
	}
}

func TestCountByStep(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query := countByStepSQL + ` WHERE occurred_at >= ? AND step <> '' GROUP BY step, type ORDER BY step, type`
	rows := sqlmock.NewRows([]string{"step", "type", "count"}).
		AddRow("address", "STEP_COMPLETED", 4).
		AddRow("address", "STEP_REVISITED", 1).
		AddRow("plan-selection", "STEP_BLOCKED", 2)
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(from).
		WillReturnRows(rows)

	got, err := repo.CountByStep(ctx(t), from, time.Time{})
	if err != nil {
		t.Fatalf("CountByStep: %v", err)
	}
	want := []StepCount{
		{Step: "address", Type: "STEP_COMPLETED", Count: 4},
		{Step: "address", Type: "STEP_REVISITED", Count: 1},
		{Step: "plan-selection", Type: "STEP_BLOCKED", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}
