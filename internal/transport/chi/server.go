// Package chi exposes the CMS hook boundary, health and metrics over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
	healthuc "github.com/kailas-cloud/searchsync/internal/usecase/health"
	"github.com/kailas-cloud/searchsync/internal/usecase/livesync"
)

// maxHookBody caps a hook request body.
const maxHookBody = 1 << 20

// ErrorCode is a machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeUpstream     ErrorCode = "upstream_unavailable"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HookResponse reports what a hook invocation did to the index.
type HookResponse struct {
	ContentType string `json:"content_type"`
	Action      string `json:"action"`
	Key         string `json:"key,omitempty"`
	Outcome     string `json:"outcome"`
	Documents   int    `json:"documents"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HookHandler applies one mutation event.
type HookHandler interface {
	Handle(ctx context.Context, ct domain.ContentType, action domain.Action, ev domain.Event) (livesync.Result, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// hookTypes are the content types the CMS delivers mutation events for.
// Transcripts are written by the speech-to-text pipeline and reconciled by repair.
var hookTypes = map[domain.ContentType]struct{}{
	domain.TypeEpisode:   {},
	domain.TypeEvent:     {},
	domain.TypePerson:    {},
	domain.TypeDailyPick: {},
}

// Server serves the hook, health and metrics endpoints.
type Server struct {
	hooks         HookHandler
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(hooks HookHandler, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		hooks:  hooks,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownContentType, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUnsupportedAction, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, ErrorCodeUpstream),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusBadGateway, ErrorCodeUpstream),
	}
	return s
}

// Routes registers the endpoints on r. hookMiddlewares wrap the hook routes only;
// health and metrics stay open to probes and scrapers.
func (s *Server) Routes(r chi.Router, hookMiddlewares ...func(http.Handler) http.Handler) {
	r.Route("/hooks", func(r chi.Router) {
		r.Use(hookMiddlewares...)
		r.Post("/{contentType}/{action}", s.HandleHook)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// HandleHook handles POST /hooks/{contentType}/{action}.
func (s *Server) HandleHook(w http.ResponseWriter, r *http.Request) {
	ct, err := domain.ParseContentType(chi.URLParam(r, "contentType"))
	if err == nil {
		if _, ok := hookTypes[ct]; !ok {
			err = domain.ErrUnknownContentType
		}
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var ev domain.Event
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHookBody)).Decode(&ev); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid event body")
		return
	}

	res, err := s.hooks.Handle(r.Context(), ct, action, ev)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == livesync.OutcomeDropped {
		// Accepted so the event source does not retry an event that can never succeed.
		status = http.StatusAccepted
	}
	writeJSON(w, status, HookResponse{
		ContentType: string(res.Type),
		Action:      string(res.Action),
		Key:         res.Key,
		Outcome:     string(res.Outcome),
		Documents:   res.Docs,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownContentType,
		domain.ErrUnsupportedAction,
		domain.ErrIndexUnavailable,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps err to a response. Unclassified failures during a hook are
// downstream failures, so they surface as 502 and the event source may retry.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("hook failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusBadGateway, ErrorCodeUpstream, msg)
}
