// Package server exposes the relay and contact discovery over HTTP for the
// browser UI. Handlers are thin proxies: credential resolution, fallback
// iteration, and response normalization all live in the llm package.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mohiawrai2609/commant-center/llm"
	"github.com/mohiawrai2609/commant-center/model"
	"github.com/mohiawrai2609/commant-center/pipeline"
)

// Relay is the text-generation surface consumed by the /api/ai handler.
type Relay interface {
	Ask(ctx context.Context, capability, system, prompt string, search bool, credential string) (string, error)
}

// Discoverer is the contact search surface consumed by /api/contacts.
type Discoverer interface {
	Discover(ctx context.Context, system, prompt, callerKey string) (*llm.DiscoveryResult, error)
}

// Observer receives per-request HTTP metrics.
type Observer interface {
	ObserveHTTPRequest(route, method string, code int, duration time.Duration)
}

// Server holds the HTTP handler dependencies.
type Server struct {
	relay     Relay
	discovery Discoverer
	observer  Observer
	metricsH  http.Handler
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithObserver wires per-request instrumentation.
func WithObserver(o Observer) Option {
	return func(s *Server) { s.observer = o }
}

// WithMetricsHandler mounts a scrape handler at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsH = h }
}

// WithClock injects the health endpoint clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server.
func New(relay Relay, discovery Discoverer, opts ...Option) *Server {
	s := &Server{
		relay:     relay,
		discovery: discovery,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.instrument)

	r.Post("/api/ai", s.handleAI)
	r.Post("/api/contacts", s.handleContacts)
	r.Get("/api/health", s.handleHealth)
	if s.metricsH != nil {
		r.Handle("/metrics", s.metricsH)
	}
	return r
}

type aiRequest struct {
	System     string `json:"system"`
	Prompt     string `json:"prompt"`
	Search     bool   `json:"search"`
	Capability string `json:"capability,omitempty"`
	Credential string `json:"credential,omitempty"`
}

type aiResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required", "")
		return
	}
	capability := req.Capability
	if capability == "" {
		capability = string(model.CapabilityWriting)
	}

	text, err := s.relay.Ask(r.Context(), capability, req.System, req.Prompt, req.Search, req.Credential)
	if err != nil {
		status, msg, detail := classifyError(err)
		s.logger.Warn("Relay request failed", "capability", capability, "status", status, "error", err)
		writeError(w, status, msg, detail)
		return
	}
	writeJSON(w, http.StatusOK, aiResponse{Text: text})
}

type contactsRequest struct {
	System     string `json:"system,omitempty"`
	Prompt     string `json:"prompt"`
	Credential string `json:"credential,omitempty"`
}

type contactsResponse struct {
	Contacts []llm.Contact `json:"contacts"`
	Texts    []string      `json:"texts"`
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required", "")
		return
	}
	system := req.System
	if system == "" {
		system = pipeline.DiscoverySystemPrompt
	}

	result, err := s.discovery.Discover(r.Context(), system, req.Prompt, req.Credential)
	if err != nil {
		status, msg, detail := classifyError(err)
		s.logger.Warn("Contact discovery failed", "status", status, "error", err)
		writeError(w, status, msg, detail)
		return
	}

	resp := contactsResponse{Contacts: result.Contacts, Texts: result.Texts}
	if resp.Contacts == nil {
		resp.Contacts = []llm.Contact{}
	}
	if resp.Texts == nil {
		resp.Texts = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status      string          `json:"status"`
	Time        string          `json:"time"`
	Credentials map[string]bool `json:"credentials"`
}

// handleHealth reports process liveness and which vendor credentials the
// server holds. Unauthenticated and read-only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Time:   s.now().UTC().Format(time.RFC3339),
		Credentials: map[string]bool{
			"openrouter": os.Getenv("OPENROUTER_API_KEY") != "",
			"anthropic":  os.Getenv("ANTHROPIC_API_KEY") != "",
			"openai":     os.Getenv("OPENAI_API_KEY") != "",
		},
	})
}

// instrument records route-level request metrics when an observer is set.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.observer == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.observer.ObserveHTTPRequest(route, r.Method, ww.Status(), time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}
