package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"power_wizard/internal/catalog"
	"power_wizard/internal/logger"
	"power_wizard/internal/models"
	"power_wizard/internal/repository"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeEventRepo records appended events and serves List/CountByStep from
// configured outputs.
type fakeEventRepo struct {
	mu       sync.Mutex
	appended []models.FunnelEvent

	// captured inputs
	gotFilter repository.EventFilter
	gotFrom   time.Time
	gotTo     time.Time

	// configured outputs
	events    []models.FunnelEvent
	counts    []repository.StepCount
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.FunnelEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(_ context.Context, filter repository.EventFilter) ([]models.FunnelEvent, error) {
	f.calls++
	f.gotFilter = filter
	return f.events, f.err
}

func (f *fakeEventRepo) CountByStep(_ context.Context, from, to time.Time) ([]repository.StepCount, error) {
	f.calls++
	f.gotFrom, f.gotTo = from, to
	return f.counts, f.err
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}

// fakeVariantRepo is an in-memory VariantRepo.
type fakeVariantRepo struct {
	rows    map[string]models.VariantAssignment
	getErr  error
	saveErr error
	saves   int
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{rows: map[string]models.VariantAssignment{}}
}

func (f *fakeVariantRepo) Get(_ context.Context, visitorID, testID string) (*models.VariantAssignment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.rows[visitorID+"/"+testID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeVariantRepo) Save(_ context.Context, a models.VariantAssignment) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	key := a.VisitorID + "/" + a.TestID
	if _, ok := f.rows[key]; !ok {
		f.rows[key] = a
	}
	return nil
}

// manualClock is a settable clock.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	return c
}

type wizardFixture struct {
	svc      *WizardService
	sessions *repository.SessionMemory
	events   *fakeEventRepo
	clock    *manualClock
	tokens   *TokenService
	logs     *observer.ObservedLogs
}

// observedLogger records every entry at debug level and above.
func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func newWizardFixture(t *testing.T) *wizardFixture {
	t.Helper()
	clock := newManualClock()
	sessions := repository.NewSessionMemory(time.Hour, clock.Now)
	events := &fakeEventRepo{}
	tokens := NewTokenService("test-secret", time.Hour, clock.Now)
	log, logs := observedLogger()
	return &wizardFixture{
		svc:      NewWizardService(sessions, events, mustCatalog(t), tokens, clock.Now, log),
		sessions: sessions,
		events:   events,
		clock:    clock,
		tokens:   tokens,
		logs:     logs,
	}
}

func ptr[T any](v T) *T { return &v }
