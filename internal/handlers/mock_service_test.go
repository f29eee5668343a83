package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"power_wizard/internal/deploy"
	"power_wizard/internal/models"
	"power_wizard/internal/service"
	"power_wizard/internal/wizard"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockTokens struct {
	issueToken string
	issueExp   time.Time
	issueErr   error
	parseID    string
	parseErr   error

	lastParseToken string
}

func (m *mockTokens) IssueToken(sessionID string) (string, time.Time, error) {
	return m.issueToken, m.issueExp, m.issueErr
}
func (m *mockTokens) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockWizard struct {
	view   service.SessionView
	step   service.StepResult
	start  service.StartResult
	err    error
	lastID string

	lastEntryPoint string
	lastPartial    wizard.Partial
	lastStep       string
	lastPlanID     string
	lastValidated  *bool
	calls          map[string]int
}

func (m *mockWizard) record(name, id string) {
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
	m.lastID = id
}

func (m *mockWizard) Start(ctx context.Context, entryPoint string) (service.StartResult, error) {
	m.record("Start", "")
	m.lastEntryPoint = entryPoint
	return m.start, m.err
}
func (m *mockWizard) Get(ctx context.Context, id string) (service.SessionView, error) {
	m.record("Get", id)
	return m.view, m.err
}
func (m *mockWizard) Update(ctx context.Context, id string, p wizard.Partial) (service.SessionView, error) {
	m.record("Update", id)
	m.lastPartial = p
	return m.view, m.err
}
func (m *mockWizard) Next(ctx context.Context, id string) (service.StepResult, error) {
	m.record("Next", id)
	return m.step, m.err
}
func (m *mockWizard) Back(ctx context.Context, id string) (service.StepResult, error) {
	m.record("Back", id)
	return m.step, m.err
}
func (m *mockWizard) GoTo(ctx context.Context, id string, step string) (service.StepResult, error) {
	m.record("GoTo", id)
	m.lastStep = step
	return m.step, m.err
}
func (m *mockWizard) Reset(ctx context.Context, id string) (service.SessionView, error) {
	m.record("Reset", id)
	return m.view, m.err
}
func (m *mockWizard) SelectPlan(ctx context.Context, id, planID string) (service.SessionView, error) {
	m.record("SelectPlan", id)
	m.lastPlanID = planID
	return m.view, m.err
}
func (m *mockWizard) ClearPlan(ctx context.Context, id string) (service.SessionView, error) {
	m.record("ClearPlan", id)
	return m.view, m.err
}
func (m *mockWizard) ConfirmAddress(ctx context.Context, id string, validated bool) (service.SessionView, error) {
	m.record("ConfirmAddress", id)
	m.lastValidated = &validated
	return m.view, m.err
}

type mockPlans struct {
	cmp      service.Comparison
	quotes   []service.PlanQuote
	estimate service.Estimate
	err      error

	lastSessionID  string
	lastComparison service.ComparisonQuery
	lastCatalog    service.CatalogQuery
	lastIDs        []string
	lastUsage      int
	lastProfile    models.HomeProfile
	lastProperty   models.PropertyType
}

func (m *mockPlans) Compare(ctx context.Context, sessionID string, q service.ComparisonQuery) (service.Comparison, error) {
	m.lastSessionID = sessionID
	m.lastComparison = q
	return m.cmp, m.err
}
func (m *mockPlans) Browse(ctx context.Context, q service.CatalogQuery) (service.Comparison, error) {
	m.lastCatalog = q
	return m.cmp, m.err
}
func (m *mockPlans) SideBySide(ctx context.Context, ids []string, usage int) ([]service.PlanQuote, error) {
	m.lastIDs = ids
	m.lastUsage = usage
	return m.quotes, m.err
}
func (m *mockPlans) Estimate(profile models.HomeProfile, pt models.PropertyType) service.Estimate {
	m.lastProfile = profile
	m.lastProperty = pt
	return m.estimate
}

type mockFunnel struct {
	resp    []models.FunnelEvent
	summary []models.StepSummary
	err     error

	lastFilter service.FunnelFilter
	lastFrom   time.Time
	lastTo     time.Time
	calls      int
}

func (m *mockFunnel) List(ctx context.Context, f service.FunnelFilter) ([]models.FunnelEvent, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}
func (m *mockFunnel) Summary(ctx context.Context, from, to time.Time) ([]models.StepSummary, error) {
	m.calls++
	m.lastFrom, m.lastTo = from, to
	return m.summary, m.err
}

type mockExperiments struct {
	variant string
	err     error

	lastVisitor string
	lastTest    string
}

func (m *mockExperiments) Assign(ctx context.Context, visitorID, testID string) (string, error) {
	m.lastVisitor, m.lastTest = visitorID, testID
	return m.variant, m.err
}

// mockDeployments replays a fixed sequence of statuses on Watch.
type mockDeployments struct {
	status   deploy.Status
	sequence []deploy.Status
	err      error
	watchErr error
}

func (m *mockDeployments) Status(ctx context.Context, id string) (deploy.Status, error) {
	return m.status, m.err
}
func (m *mockDeployments) Watch(ctx context.Context, id string, fn func(deploy.Status)) (deploy.Status, error) {
	if m.watchErr != nil {
		return deploy.Status{}, m.watchErr
	}
	var last deploy.Status
	for _, st := range m.sequence {
		last = st
		fn(st)
	}
	return last, nil
}
func (m *mockDeployments) PollInterval() time.Duration { return time.Millisecond }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func doRequest(r http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body: %v (body=%s)", err, w.Body.String())
	}
	return out.Error
}
