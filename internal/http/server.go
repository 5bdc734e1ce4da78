package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
	"ledgerdash/internal/middleware/ratelimit"
	"ledgerdash/internal/middleware/security"
	"ledgerdash/internal/middleware/trace"
	"ledgerdash/internal/services"
	"ledgerdash/internal/storage"
)

// Options wires the server's collaborators. Zero values fall back to the
// shipped currency table, in-memory preferences and the local timezone.
type Options struct {
	Addr            string
	Dashboard       *services.Dashboard
	Table           *currency.Table
	Prefs           currency.Preferences
	DefaultCurrency currency.Code
	Location        *time.Location
	Logger          *log.Logger

	RequestsPerMinute int

	// SnapshotStats reports the dashboard cache, when there is one.
	SnapshotStats func() cache.Stats
	// Ready checks dependencies for /readyz.
	Ready func(ctx context.Context) error
}

type Server struct {
	http.Server

	dashboard *services.Dashboard
	table     *currency.Table
	prefs     currency.Preferences
	fallback  currency.Code
	location  *time.Location
	logger    *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	traffic  *trace.Middleware

	snapshotStats func() cache.Stats
	ready         func(ctx context.Context) error
	started       time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.Table == nil {
		opts.Table = currency.Default()
	}
	if opts.Dashboard == nil {
		opts.Dashboard = services.NewDashboard(opts.Table, nil)
	}
	if opts.Prefs == nil {
		opts.Prefs = storage.NewMemoryPreferences(opts.Table)
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = opts.Table.Base()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		dashboard:     opts.Dashboard,
		table:         opts.Table,
		prefs:         opts.Prefs,
		fallback:      opts.DefaultCurrency,
		location:      opts.Location,
		logger:        opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:       ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute}),
		detector:      security.NewDetector(),
		traffic:       trace.NewMiddleware(),
		snapshotStats: opts.SnapshotStats,
		ready:         opts.Ready,
		started:       time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/currencies", s.handleCurrencies)
	mux.HandleFunc("GET /api/preferences/{user}/currency", s.handleGetPreference)
	mux.HandleFunc("PUT /api/preferences/{user}/currency", s.handlePutPreference)
	mux.HandleFunc("POST /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("POST /api/transactions/summary", s.handleSummary)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	limit := s.limiter.Middleware(s.detector.ClientIP, s.handleRateLimited, http.MethodPost, http.MethodPut)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	// Outermost first. trace wraps the mux directly so the matched pattern is
	// visible after routing.
	var h http.Handler = s.traffic.Middleware(mux)
	h = limit(h)
	h = s.detector.Middleware(h)
	h = headers.Middleware(h)
	h = log.AccessLog(h)
	h = log.RequestIDMiddleware(h)
	h = log.Middleware(s.logger)(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	TooManyRequestsError("60").Write(w)
}
