package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/core"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
	"ledgerdash/internal/middleware/ratelimit"
	"ledgerdash/internal/middleware/security"
	"ledgerdash/internal/middleware/trace"
	"ledgerdash/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Readiness check failed", err, log.OpRead, nil)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

type currencyView struct {
	Code      currency.Code `json:"code"`
	Symbol    string        `json:"symbol"`
	Name      string        `json:"name"`
	Rate      string        `json:"rate"`
	Placement string        `json:"placement"`
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	list := s.table.Currencies()
	views := make([]currencyView, 0, len(list))
	for _, c := range list {
		placement := "prefix"
		if c.Placement == currency.Suffix {
			placement = "suffix"
		}
		views = append(views, currencyView{
			Code:      c.Code,
			Symbol:    c.Symbol,
			Name:      c.Name,
			Rate:      c.Rate.String(),
			Placement: placement,
		})
	}
	NewJSONResponse().Body(map[string]any{
		"base":       s.table.Base(),
		"default":    s.fallback,
		"currencies": views,
	}).Write(w)
}

type preferenceResponse struct {
	User     core.UserID   `json:"user"`
	Currency currency.Code `json:"currency"`
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	user, err := PathUser(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	code, err := currency.Resolve(ctx, s.table, s.prefs, user, "", s.fallback)
	if err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to read display currency", err, log.OpRead,
			log.NewFields().WithViewer(string(user), ""))
		InternalServerError("could not read preference").Write(w)
		return
	}
	NewJSONResponse().Body(preferenceResponse{User: user, Currency: code}).Write(w)
}

func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	user, err := PathUser(r)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var req PreferenceRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	code, err := s.table.ParseCode(req.Currency)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	ctx := r.Context()
	if err := s.prefs.SetDisplayCurrency(ctx, user, code); err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Failed to save display currency", err, log.OpUpdate,
			log.NewFields().WithViewer(string(user), string(code)))
		InternalServerError("could not save preference").Write(w)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Display currency updated",
		log.FieldViewer, user,
		log.FieldCurrency, code)
	NewJSONResponse().Body(preferenceResponse{User: user, Currency: code}).Write(w)
}

// displayCurrency resolves ?currency= first, then the body, then the stored
// preference and finally the configured default.
func (s *Server) displayCurrency(r *http.Request, req RecordsRequest) (currency.Code, int, error) {
	requested := r.URL.Query().Get("currency")
	if requested == "" {
		requested = req.Currency
	}
	code, err := currency.Resolve(r.Context(), s.table, s.prefs, req.Viewer, requested, s.fallback)
	switch {
	case errors.Is(err, currency.ErrUnknownCurrency):
		return "", http.StatusUnprocessableEntity, err
	case err != nil:
		return "", http.StatusInternalServerError, err
	}
	return code, http.StatusOK, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req RecordsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := req.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	loc, err := ParseLocation(req.Timezone, s.location)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	code, status, err := s.displayCurrency(r, req)
	if err != nil {
		ErrorResponse(status, err.Error()).Write(w)
		return
	}

	in := services.DashboardInput{
		Viewer:       req.Viewer,
		Transactions: req.Transactions,
		Loans:        req.Loans,
		Goal:         req.Goal,
		Location:     loc,
		Currency:     code,
	}
	if req.Now != nil {
		in.Now = *req.Now
	}

	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentDashboard)
	snap, err := s.dashboard.Build(in)
	if err != nil {
		logger.WarnContext(ctx, "Dashboard input rejected",
			log.FieldViewer, req.Viewer,
			log.FieldError, err)
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	log.NewStructuredLogger(logger).LogUnrecognized(ctx, string(req.Viewer), snap.Unrecognized)

	logger.DebugContext(ctx, "Dashboard built",
		log.FieldViewer, req.Viewer,
		log.FieldCurrency, code,
		log.FieldMonth, snap.Month,
		log.FieldTxCount, len(req.Transactions))
	NewJSONResponse().Body(snap).Write(w)
}

type convertResponse struct {
	Amount    core.Money    `json:"amount"`
	Currency  currency.Code `json:"currency"`
	Direction string        `json:"direction"`
	Result    core.Money    `json:"result"`
	ResultIn  currency.Code `json:"result_currency"`
	Formatted string        `json:"formatted"`
}

// handleConvert converts a decimal amount between the base currency and
// another. from_base treats amount as base units; to_base treats it as units
// of currency.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		UnprocessableEntityError("amount must be a non-negative decimal").Write(w)
		return
	}
	code, err := s.table.ParseCode(req.Currency)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	resp := convertResponse{Amount: amount, Currency: code, Direction: req.Direction}
	switch req.Direction {
	case "", DirectionFromBase:
		resp.Direction = DirectionFromBase
		resp.Result = s.table.Convert(amount, code)
		resp.ResultIn = code
	case DirectionToBase:
		resp.Result = s.table.ToBase(amount, code)
		resp.ResultIn = s.table.Base()
	default:
		UnprocessableEntityError("direction must be from_base or to_base").Write(w)
		return
	}
	resp.Formatted = s.table.FormatConverted(resp.Result, resp.ResultIn)

	ctx := r.Context()
	log.FromContext(ctx).WithComponent(log.ComponentCurrency).DebugContext(ctx, "Amount converted",
		log.FieldOperation, log.OpConvert,
		log.FieldAmountCents, amount.Cents,
		log.FieldCurrency, code)
	NewJSONResponse().Body(resp).Write(w)
}

type summaryResponse struct {
	Summary      services.Summary  `json:"summary"`
	Currency     currency.Code     `json:"currency"`
	Formatted    map[string]string `json:"formatted"`
	Unrecognized []string          `json:"unrecognized_types,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilterParam(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	var req RecordsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if err := req.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	code, status, err := s.displayCurrency(r, req)
	if err != nil {
		ErrorResponse(status, err.Error()).Write(w)
		return
	}

	sum := services.Summarize(req.Transactions, req.Viewer, filter)
	f, err := currency.NewFormatter(s.table, code)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	resp := summaryResponse{
		Summary:  sum,
		Currency: code,
		Formatted: map[string]string{
			"total":    f.Format(sum.Total),
			"income":   f.Format(sum.Income),
			"expenses": f.Format(sum.Expenses),
			"net":      f.Format(sum.Net),
		},
		Unrecognized: services.UnrecognizedTypes(req.Transactions),
	}

	ctx := r.Context()
	log.NewStructuredLogger(log.FromContext(ctx)).LogUnrecognized(ctx, string(req.Viewer), resp.Unrecognized)
	log.FromContext(ctx).DebugContext(ctx, "Transactions summarized",
		log.FieldOperation, log.OpSummary,
		log.FieldViewer, req.Viewer,
		log.FieldFilter, filter,
		log.FieldTxCount, sum.Count)
	NewJSONResponse().Body(resp).Write(w)
}

type statsResponse struct {
	Requests  trace.Metrics             `json:"requests"`
	RateLimit ratelimit.Metrics         `json:"rate_limit"`
	Security  security.DetectionMetrics `json:"security"`
	Snapshots *cache.Stats              `json:"snapshots,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Requests:  s.traffic.GetMetrics(),
		RateLimit: s.limiter.GetMetrics(),
		Security:  s.detector.Metrics(),
	}
	if s.snapshotStats != nil {
		st := s.snapshotStats()
		resp.Snapshots = &st
	}
	NewJSONResponse().Body(resp).Write(w)
}
