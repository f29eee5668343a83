package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
	"power_wizard/internal/service"
)

func TestBrowsePlans_ParsesQuery(t *testing.T) {
	plans := &mockPlans{cmp: service.Comparison{Usage: 1500, Total: 8}}
	r := newTestRouter(&service.Service{Plans: plans})

	target := "/api/v1/plans?search=gexa&provider=Reliant,TXU%20Energy&provider=Gexa%20Energy" +
		"&show_all=true&sort=price&term=12&renewable=1&guarantee=false&no_deposit=true&max_rate=13.5&usage=1500"
	w := doRequest(r, http.MethodGet, target, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("browse status=%d, body=%s", w.Code, w.Body.String())
	}

	q := plans.lastCatalog
	if q.Search != "gexa" || !q.ShowAll || q.Sort != planfilter.SortPrice || q.Usage != 1500 {
		t.Fatalf("unexpected query: %+v", q)
	}
	if len(q.Providers) != 3 || q.Providers[1] != "TXU Energy" {
		t.Fatalf("providers = %v", q.Providers)
	}
	pref := q.Preferences
	if pref.ContractTerm == nil || *pref.ContractTerm != models.Term12Months {
		t.Fatalf("term = %v", pref.ContractTerm)
	}
	if !pref.IsRenewable || pref.HasSatisfactionGuarantee || !pref.RequiresNoDeposit {
		t.Fatalf("feature flags = %+v", pref)
	}
	if pref.MaxRate == nil || *pref.MaxRate != 13.5 {
		t.Fatalf("max rate = %v", pref.MaxRate)
	}

	var out service.Comparison
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Usage != 1500 || out.Total != 8 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestBrowsePlans_BadQuery(t *testing.T) {
	r := newTestRouter(&service.Service{Plans: &mockPlans{}})
	for _, target := range []string{
		"/api/v1/plans?max_rate=cheap",
		"/api/v1/plans?max_rate=-1",
		"/api/v1/plans?usage=-5",
		"/api/v1/plans?renewable=maybe",
		"/api/v1/plans?show_all=2",
	} {
		if w := doRequest(r, http.MethodGet, target, "", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d, want 400", target, w.Code)
		}
	}
}

func TestComparePlans(t *testing.T) {
	plans := &mockPlans{quotes: []service.PlanQuote{{Plan: models.Plan{ID: "a"}}, {Plan: models.Plan{ID: "b"}}}}
	r := newTestRouter(&service.Service{Plans: plans})

	w := doRequest(r, http.MethodGet, "/api/v1/plans/compare?ids=a,b&usage=2000", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("compare status=%d", w.Code)
	}
	if len(plans.lastIDs) != 2 || plans.lastIDs[0] != "a" || plans.lastUsage != 2000 {
		t.Fatalf("ids=%v usage=%d", plans.lastIDs, plans.lastUsage)
	}

	plans.err = service.ErrValidation
	if w := doRequest(r, http.MethodGet, "/api/v1/plans/compare?ids=a", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEstimate(t *testing.T) {
	plans := &mockPlans{estimate: service.Estimate{Usage: 1425}}
	r := newTestRouter(&service.Service{Plans: plans})

	w := doRequest(r, http.MethodGet, "/api/v1/estimate?sqft=1500&occupants=3&property=Apartment&ev=true", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("estimate status=%d, body=%s", w.Code, w.Body.String())
	}
	if plans.lastProperty != models.PropertyApartment {
		t.Fatalf("property = %q", plans.lastProperty)
	}
	p := plans.lastProfile
	if p.SquareFootage != 1500 || p.Occupants != 3 || !p.HasEV || p.HasPool {
		t.Fatalf("profile = %+v", p)
	}
	var out service.Estimate
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Usage != 1425 {
		t.Fatalf("usage = %d", out.Usage)
	}

	// property defaults to house
	doRequest(r, http.MethodGet, "/api/v1/estimate?sqft=900", "", "")
	if plans.lastProperty != models.PropertyHouse {
		t.Fatalf("default property = %q", plans.lastProperty)
	}

	for _, target := range []string{
		"/api/v1/estimate",
		"/api/v1/estimate?sqft=big",
		"/api/v1/estimate?sqft=1000&property=castle",
		"/api/v1/estimate?sqft=1000&occupants=-1",
	} {
		if w := doRequest(r, http.MethodGet, target, "", ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d, want 400", target, w.Code)
		}
	}
}

func TestSessionPlans(t *testing.T) {
	plans := &mockPlans{cmp: service.Comparison{SelectedPlanID: "gexa-saver-supreme-12"}}
	r := newTestRouter(&service.Service{Plans: plans, SessionTokens: &mockTokens{parseID: "sess-9"}})

	w := doRequest(r, http.MethodGet, "/api/v1/wizard/plans?sort=bill&search=green", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if plans.lastSessionID != "sess-9" || plans.lastComparison.Sort != planfilter.SortBill || plans.lastComparison.Search != "green" {
		t.Fatalf("unexpected call: %q %+v", plans.lastSessionID, plans.lastComparison)
	}

	plans.err = service.ErrSessionNotFound
	if w := doRequest(r, http.MethodGet, "/api/v1/wizard/plans", "", "valid"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{" a , b", "", "c,,"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("splitList = %v", got)
	}
	if splitList(nil) != nil {
		t.Fatalf("expected nil for no values")
	}
}
