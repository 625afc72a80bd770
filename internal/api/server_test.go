package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scholarstream/scholarstream/internal/discovery"
	"github.com/scholarstream/scholarstream/internal/jobs"
	"github.com/scholarstream/scholarstream/internal/models"
	"github.com/scholarstream/scholarstream/internal/scrape"
	"github.com/scholarstream/scholarstream/internal/store"
)

type stubSources struct{}

func (stubSources) Aggregate(ctx context.Context) []scrape.RawOpportunity {
	return nil
}

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	logger := zap.NewNop()
	runner := discovery.NewRunner(logger, 1, 4)
	t.Cleanup(runner.Shutdown)
	tracker := jobs.NewTracker(st, logger)
	orchestrator := discovery.NewOrchestrator(st, tracker, runner, stubSources{}, nil, logger, discovery.Config{TopResults: 30, SourceCount: 1})
	return NewServer(orchestrator, st, logger)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestDiscoverRequiresUserID(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	body := strings.NewReader(`{"profile": {"name": "Jordan"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/scholarships/discover", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDiscoverFastPathReturnsResults(t *testing.T) {
	st := store.NewMemoryStore()
	deadline := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	st.SaveOpportunity(context.Background(), models.Opportunity{ID: "a", Name: "Award", Amount: 5000, Deadline: deadline})

	srv := newTestServer(t, st)

	body := strings.NewReader(`{"userId": "user-1", "profile": {"name": "Jordan"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/scholarships/discover", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DiscoveryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != models.JobCompleted {
		t.Errorf("expected completed, got %s", resp.Status)
	}
	if len(resp.ImmediateResults) != 1 || resp.TotalFound != 1 {
		t.Errorf("unexpected results %+v", resp)
	}
}

func TestDiscoverSlowPathReturnsJobHandle(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	body := strings.NewReader(`{"userId": "user-1", "profile": {"name": "Jordan"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/scholarships/discover", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DiscoveryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Status != models.JobProcessing || resp.JobID == "" {
		t.Errorf("expected job handle, got %+v", resp)
	}

	// The handle is immediately pollable.
	statusReq := httptest.NewRequest(http.MethodGet, "/api/scholarships/discovery-status/"+resp.JobID, nil)
	statusRec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(statusRec, statusReq)
	if statusRec.Code != http.StatusOK {
		t.Fatalf("expected 200 polling, got %d", statusRec.Code)
	}
}

func TestDiscoveryStatusUnknownJob(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/api/scholarships/discovery-status/nope", nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSavedLifecycle(t *testing.T) {
	st := store.NewMemoryStore()
	st.SaveOpportunity(context.Background(), models.Opportunity{ID: "opp-1", Name: "Award"})
	srv := newTestServer(t, st)

	// Saving an unknown opportunity is a 404.
	req := httptest.NewRequest(http.MethodPost, "/api/scholarships/saved/user-1/nope", nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown opportunity, got %d", rec.Code)
	}

	// Save twice; the second is a no-op.
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodPost, "/api/scholarships/saved/user-1/opp-1", nil)
		rec = httptest.NewRecorder()
		srv.Echo.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scholarships/saved/user-1", nil)
	rec = httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var listResp struct {
		Scholarships []models.Opportunity `json:"scholarships"`
		Total        int                  `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if listResp.Total != 1 || len(listResp.Scholarships) != 1 {
		t.Fatalf("expected one saved entry, got %+v", listResp)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/scholarships/saved/user-1/opp-1", nil)
	rec = httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scholarships/saved/user-1", nil)
	rec = httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if listResp.Total != 0 {
		t.Errorf("expected empty saved list, got %+v", listResp)
	}
}

func TestMatchedEmptyForNewUser(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/api/scholarships/matched/new-user", nil)
	rec := httptest.NewRecorder()
	srv.Echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("expected no matches, got %d", resp.Total)
	}
}
