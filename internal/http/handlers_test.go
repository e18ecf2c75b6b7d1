package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"mygoal/internal/services"
	"mygoal/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "mygoal.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	srv := NewServer("127.0.0.1:0",
		services.NewLedgerService(repo, nil),
		services.NewGoalService(repo, nil),
		services.NewReportService(repo))
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if rec := doRequest(t, srv, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec := doRequest(t, srv, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}

func TestRecordTransactionAndSummary(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/transactions",
		`{"description":"salary","value":"1000.00","kind":"income","category":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record income status = %d: %s", rec.Code, rec.Body.String())
	}
	id := decodeBody[idResponse](t, rec)
	if id.ID <= 0 {
		t.Fatalf("expected positive id, got %d", id.ID)
	}

	rec = doRequest(t, srv, http.MethodPost, "/transactions",
		`{"description":"groceries","value":"200.00","kind":"expense"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record expense status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	s := decodeBody[summaryResponse](t, rec)
	if s.TotalIncome != "1000.00" || s.TotalExpense != "200.00" {
		t.Fatalf("totals wrong: %+v", s)
	}
	if s.NetPosition != "800.00" || s.FreeBalance != "800.00" {
		t.Fatalf("net/free wrong: %+v", s)
	}
}

func TestRecordTransactionRejections(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		body string
		want int
	}{
		{`{"description":"x","value":"-5","kind":"expense"}`, http.StatusUnprocessableEntity},
		{`{"description":"x","value":"abc","kind":"expense"}`, http.StatusUnprocessableEntity},
		{`{"description":"x","value":"5","kind":"transfer"}`, http.StatusUnprocessableEntity},
		{`{"description":"","value":"5","kind":"expense"}`, http.StatusUnprocessableEntity},
		{`not json`, http.StatusBadRequest},
	}
	for i, tc := range cases {
		rec := doRequest(t, srv, http.MethodPost, "/transactions", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("case %d: status = %d, want %d (%s)", i, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestCurrentMonthIncomeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/transactions",
		`{"description":"salary","value":"1000.00","kind":"income","category":"income"}`)
	// Not primary income: excluded from the listing.
	doRequest(t, srv, http.MethodPost, "/transactions",
		`{"description":"sold couch","value":"50.00","kind":"income","category":"other"}`)

	rec := doRequest(t, srv, http.MethodGet, "/income/current-month", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[incomeResponse](t, rec)
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}
	if resp.Items[0].Description != "salary" || resp.Items[0].Value != "1000.00" {
		t.Fatalf("item wrong: %+v", resp.Items[0])
	}
}

func TestMonthlyCostEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/settings/monthly-cost", `{"value":"1500.00"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("set status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, srv, http.MethodPut, "/settings/monthly-cost", `{"value":"1600.50"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("overwrite status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/summary", "")
	s := decodeBody[summaryResponse](t, rec)
	if s.MonthlyCost != "1600.50" {
		t.Fatalf("monthly cost = %q, want 1600.50", s.MonthlyCost)
	}

	rec = doRequest(t, srv, http.MethodPut, "/settings/monthly-cost", `{"value":"-3"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative cost status = %d", rec.Code)
	}
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/transactions",
		`{"description":"salary","value":"1000.00","kind":"income","category":"income"}`)

	rec := doRequest(t, srv, http.MethodPost, "/goals",
		`{"name":"trip","target":"1200.00","deadline":"2030-06-01","category":"travel"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d: %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[goalResponse](t, rec)
	if goal.ID <= 0 || goal.Current != "0.00" || goal.Icon == "" {
		t.Fatalf("created goal wrong: %+v", goal)
	}
	idPath := "/goals/" + strconv.FormatInt(goal.ID, 10)

	rec = doRequest(t, srv, http.MethodGet, "/goals", "")
	list := decodeBody[goalsResponse](t, rec)
	if len(list.Items) != 1 {
		t.Fatalf("goals listed = %d, want 1", len(list.Items))
	}

	rec = doRequest(t, srv, http.MethodPost, idPath+"/balance", `{"delta":"300.00"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("allocate status = %d: %s", rec.Code, rec.Body.String())
	}

	// Only 700.00 free remains.
	rec = doRequest(t, srv, http.MethodPost, idPath+"/balance", `{"delta":"800.00"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-allocation status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, idPath+"/balance", `{"delta":"-400.00"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("over-withdrawal status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, idPath+"/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d: %s", rec.Code, rec.Body.String())
	}
	m := decodeBody[metricsResponse](t, rec)
	if m.Degraded {
		t.Fatalf("unexpected degraded metrics: %+v", m)
	}
	if m.AvgContribution != "300.00" || m.RemainingAmount != "900.00" {
		t.Fatalf("metrics wrong: %+v", m)
	}

	rec = doRequest(t, srv, http.MethodPut, idPath, `{"name":"big trip","target":"1500.00"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodDelete, idPath, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodDelete, idPath, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, idPath+"/metrics", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics after delete status = %d", rec.Code)
	}

	// The deleted goal's balance is gone; the full net position is free again.
	rec = doRequest(t, srv, http.MethodGet, "/summary", "")
	s := decodeBody[summaryResponse](t, rec)
	if s.TotalAllocated != "0.00" || s.FreeBalance != "1000.00" {
		t.Fatalf("summary after delete wrong: %+v", s)
	}
}

func TestGoalRouteRejectsNonNumericID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/goals/abc/metrics", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want route miss", rec.Code)
	}
}

func TestParseSignedDecimal(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"300.00", 30000, true},
		{"-300.00", -30000, true},
		{" -0.50 ", -50, true},
		{"--1", 0, false},
		{"+1", 0, false},
		{"", 0, false},
	}
	for i, tc := range cases {
		m, err := parseSignedDecimal(tc.in)
		if tc.ok && (err != nil || m.Cents != tc.cents) {
			t.Fatalf("case %d (%q): got %d, %v", i, tc.in, m.Cents, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}
