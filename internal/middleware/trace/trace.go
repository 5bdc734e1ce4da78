// Package trace counts API traffic for the stats endpoint.
package trace

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is a point-in-time view of recorded traffic.
type Metrics struct {
	TotalRequests         int64            `json:"total_requests"`
	ClientErrors          int64            `json:"client_errors"`
	ServerErrors          int64            `json:"server_errors"`
	AverageResponseMicros int64            `json:"average_response_us"`
	ByRoute               map[string]int64 `json:"by_route"`
}

// Middleware records request counts, status classes and response time.
type Middleware struct {
	total        int64
	clientErrors int64
	serverErrors int64
	totalMicros  int64

	mu      sync.Mutex
	byRoute map[string]int64

	now func() time.Time
}

func NewMiddleware() *Middleware {
	return &Middleware{byRoute: make(map[string]int64), now: time.Now}
}

// Middleware wraps next. Routes are keyed by the matched mux pattern when
// there is one so that path parameters do not explode the map.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := m.now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		atomic.AddInt64(&m.total, 1)
		atomic.AddInt64(&m.totalMicros, m.now().Sub(start).Microseconds())
		switch {
		case rw.statusCode >= 500:
			atomic.AddInt64(&m.serverErrors, 1)
		case rw.statusCode >= 400:
			atomic.AddInt64(&m.clientErrors, 1)
		}

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.mu.Lock()
		m.byRoute[route]++
		m.mu.Unlock()
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	total := atomic.LoadInt64(&m.total)
	out := Metrics{
		TotalRequests: total,
		ClientErrors:  atomic.LoadInt64(&m.clientErrors),
		ServerErrors:  atomic.LoadInt64(&m.serverErrors),
		ByRoute:       make(map[string]int64),
	}
	if total > 0 {
		out.AverageResponseMicros = atomic.LoadInt64(&m.totalMicros) / total
	}
	m.mu.Lock()
	for k, v := range m.byRoute {
		out.ByRoute[k] = v
	}
	m.mu.Unlock()
	return out
}
