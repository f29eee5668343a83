package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	powerwizard "power_wizard"
	_ "power_wizard/docs"
	"power_wizard/internal/models"
	"power_wizard/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doRequest(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	var out powerwizard.StatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != statusOK {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSwaggerDoc(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := doRequest(r, http.MethodGet, "/swagger/doc.json", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("swagger status=%d", w.Code)
	}
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json: %v", err)
	}
	if _, ok := doc.Paths["/api/v1/wizard/next"]; !ok {
		t.Fatalf("wizard routes missing from swagger doc")
	}
}

func TestStartSession(t *testing.T) {
	exp := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	wiz := &mockWizard{start: service.StartResult{
		SessionView:    service.SessionView{Session: models.Session{ID: "s-1"}},
		Token:          "tok123",
		TokenExpiresAt: exp,
	}}
	r := newTestRouter(&service.Service{Wizard: wiz})

	// no body is fine
	w := doRequest(r, http.MethodPost, "/api/v1/sessions", "", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("start status=%d, body=%s", w.Code, w.Body.String())
	}
	var out service.StartResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Token != "tok123" || out.Session.ID != "s-1" || !out.TokenExpiresAt.Equal(exp) {
		t.Fatalf("unexpected response: %+v", out)
	}

	// entry point is passed through
	w = doRequest(r, http.MethodPost, "/api/v1/sessions", `{"entry_point":"zip-search"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("start status=%d", w.Code)
	}
	if wiz.lastEntryPoint != "zip-search" {
		t.Fatalf("entry point = %q", wiz.lastEntryPoint)
	}

	// bad body → 400
	w = doRequest(r, http.MethodPost, "/api/v1/sessions", `{"entry_point":1}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestStartSession_ServiceError(t *testing.T) {
	wiz := &mockWizard{err: errors.New("redis down")}
	r := newTestRouter(&service.Service{Wizard: wiz})

	w := doRequest(r, http.MethodPost, "/api/v1/sessions", "", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := errorBody(t, w); got != errInternal {
		t.Fatalf("internal errors must not leak: %q", got)
	}
}
