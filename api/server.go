// Package api is the thin HTTP layer over the pricing engine. It is only
// responsible for input ingestion, engine orchestration and output
// serialization; it never performs pricing logic itself.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"quote-pricing/core/calc"
	"quote-pricing/core/catalog"
	"quote-pricing/core/selector"
	"quote-pricing/internal/errors"
	"quote-pricing/internal/logging"
)

// Server is the API server. Each request gets its own catalog accessor so
// the catalog snapshot stays consistent within the request and fresh
// across requests.
type Server struct {
	source  catalog.Source
	mux     *http.ServeMux
	version string
}

// NewServer creates an API server over a catalog source.
func NewServer(version string, source catalog.Source) *Server {
	s := &Server{
		source:  source,
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/v1/calculations/complexity-factor", s.handleComplexityFactor)
	s.mux.HandleFunc("POST /api/v1/calculations/discounts", s.handleDiscounts)
	s.mux.HandleFunc("POST /api/v1/calculations/discounts/validate", s.handleValidateDiscounts)
	s.mux.HandleFunc("POST /api/v1/calculations/travel-cost", s.handleTravelCost)
	s.mux.HandleFunc("POST /api/v1/calculations/multi-year", s.handleMultiYear)
	s.mux.HandleFunc("POST /api/v1/calculations/referral-commission", s.handleReferralCommission)
	s.mux.HandleFunc("POST /api/v1/configure", s.handleConfigure)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// calculator builds a request-scoped calculator.
func (s *Server) calculator() *calc.Calculator {
	return calc.New(catalog.NewAccessor(s.source))
}

func (s *Server) handleComplexityFactor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ComplexityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.calculator().ComplexityFactor(req.Parameters)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleDiscounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result := calc.ApplyDiscounts(req.SaaSMonthly, req.SetupTotal, req.Discounts)

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleValidateDiscounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DiscountValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.calculator().ValidateDiscounts(req.Discounts)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleTravelCost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req TravelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.calculator().TravelCost(req.ZoneID, req.Trips)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleMultiYear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Years < 1 {
		s.writeError(w, "VALIDATION_ERROR", "years must be at least 1", http.StatusBadRequest)
		return
	}
	if req.EscalationModel == "" {
		req.EscalationModel = calc.EscalationStandard4Pct
	}

	result, err := s.calculator().MultiYearProjection(
		req.SaaSMonthly, req.SetupTotal, req.Years,
		req.EscalationModel, req.LevelLoading, req.TellerPayments, req.Discounts)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleReferralCommission(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ReferralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result := calc.ReferralCommission(req.SetupTotal, req.ReferralRate)

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	sel := selector.New(catalog.NewAccessor(s.source))
	result, err := sel.Configure(req.Parameters)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.logRequest(r, start)
	s.writeJSON(w, result, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// writeEngineError maps engine errors onto HTTP statuses. A missing current
// pricing version is a conflict the caller can fix by promoting a version;
// input errors are the caller's fault; anything else is internal.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, catalog.ErrNoCurrentVersion):
		s.writeError(w, "NO_CURRENT_VERSION", err.Error(), http.StatusConflict)
	case errors.IsType(err, errors.TypeInput):
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
	default:
		logging.Error("engine error", zap.Error(err))
		s.writeError(w, "ENGINE_ERROR", err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}, status)
}

func (s *Server) logRequest(r *http.Request, start time.Time) {
	logging.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe(addr string) error {
	logging.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}
