package trace

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddlewareCounts(t *testing.T) {
	m := NewMiddleware()
	clock := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(500 * time.Microsecond)
		return clock
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/preferences/{user}/currency", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("POST /api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	h := m.Middleware(mux)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/preferences/alice/currency", nil),
		httptest.NewRequest(http.MethodGet, "/api/preferences/bob/currency", nil),
		httptest.NewRequest(http.MethodPost, "/api/dashboard", nil),
		httptest.NewRequest(http.MethodGet, "/nope", nil),
	} {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := m.GetMetrics()
	if got.TotalRequests != 4 || got.ClientErrors != 1 || got.ServerErrors != 1 {
		t.Errorf("metrics = %+v", got)
	}
	if got.AverageResponseMicros != 500 {
		t.Errorf("AverageResponseMicros = %d, want 500", got.AverageResponseMicros)
	}
	if got.ByRoute["GET /api/preferences/{user}/currency"] != 2 {
		t.Errorf("ByRoute = %v", got.ByRoute)
	}
}
