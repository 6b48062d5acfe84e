package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/aretw0/sortstep/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

//go:embed openapi.yaml
var rawSpec []byte

// Controller is the subset of sortstep.Controller the HTTP surface drives.
type Controller interface {
	StartRun(tag string) (string, error)
	Cancel()
	SetDelay(d time.Duration)
	Pause() bool
	Resume() bool
	NewArray(values domain.Array) error
	Undo() bool
	Snapshot() domain.Snapshot
	Runs(ctx context.Context) ([]domain.RunSummary, error)
	Run(ctx context.Context, id string) (*domain.RunSummary, error)
	AddRenderer(r ports.Renderer)
}

var _ Controller = (*sortstep.Controller)(nil)

// Server serves the control surface of one Controller.
type Server struct {
	Controller Controller
	Streams    *StreamManager

	spec    *openapi3.T
	router  chi.Router
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics (typically promhttp.HandlerFor).
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewServer validates the API document, builds the routes and attaches the
// SSE stream to the controller as a renderer.
func NewServer(ctrl Controller, opts ...Option) (*Server, error) {
	s := &Server{Controller: ctrl}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.spec = spec
	s.Streams = NewStreamManager(s.logger)
	ctrl.AddRenderer(s.Streams)

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/algorithms", s.ListAlgorithms)
	r.Get("/state", s.GetState)
	r.Post("/array", s.NewArray)
	r.Post("/array/random", s.GenerateArray)
	r.Get("/runs", s.ListRuns)
	r.Post("/runs", s.StartRun)
	r.Get("/runs/{id}", s.GetRun)
	r.Post("/cancel", s.CancelRun)
	r.Post("/pause", s.PauseRun)
	r.Post("/resume", s.ResumeRun)
	r.Put("/delay", s.SetDelay)
	r.Post("/undo", s.Undo)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	s.router = r
	return s, nil
}

// NewHandler creates the HTTP handler for ctrl.
func NewHandler(ctrl Controller, opts ...Option) (http.Handler, error) {
	s, err := NewServer(ctrl, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// Handler returns the routes wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.router)
}

// Routes exposes the router for inspection.
func (s *Server) Routes() chi.Routes {
	return s.router
}

// Spec returns the validated OpenAPI document.
func (s *Server) Spec() *openapi3.T {
	return s.spec
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>sortstep API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// -- Request / response bodies --

type stateResponse struct {
	domain.Snapshot
	DelayMS int64 `json:"delay_ms"`
}

type arrayRequest struct {
	Values domain.Array `json:"values"`
	Input  string       `json:"input"`
}

type randomArrayRequest struct {
	Size *int `json:"size"`
	Min  *int `json:"min"`
	Max  *int `json:"max"`
}

type startRunRequest struct {
	Algorithm string `json:"algorithm"`
}

type runStarted struct {
	RunID     string           `json:"run_id"`
	Algorithm domain.Algorithm `json:"algorithm"`
}

type delayRequest struct {
	DelayMS *int64 `json:"delay_ms"`
}

type applied struct {
	Applied      bool `json:"applied"`
	HistoryDepth int  `json:"history_depth"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// -- Handlers --

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "sortstep-http",
		"version":     strings.TrimSpace(sortstep.Version),
		"api_version": apiVersion,
	})
}

// ListAlgorithms handles GET /algorithms.
func (s *Server) ListAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.Algorithms())
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

// NewArray handles POST /array.
func (s *Server) NewArray(w http.ResponseWriter, r *http.Request) {
	var body arrayRequest
	if !s.decode(w, r, &body) {
		return
	}

	values := body.Values
	if len(values) == 0 && body.Input != "" {
		parsed, err := input.Parse(body.Input)
		if err != nil {
			s.writeError(w, err)
			return
		}
		values = parsed
	}
	if err := s.Controller.NewArray(values); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w)
}

// GenerateArray handles POST /array/random.
func (s *Server) GenerateArray(w http.ResponseWriter, r *http.Request) {
	var body randomArrayRequest
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}

	size, lo, hi := input.DefaultSize, input.DefaultMin, input.DefaultMax
	if body.Size != nil {
		if *body.Size <= 0 {
			s.writeError(w, fmt.Errorf("%w: size must be positive", domain.ErrInvalidInput))
			return
		}
		size = *body.Size
	}
	if body.Min != nil {
		lo = *body.Min
	}
	if body.Max != nil {
		hi = *body.Max
	}

	values, err := input.Generate(nil, size, lo, hi)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Controller.NewArray(values); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeState(w)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Controller.Runs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []domain.RunSummary{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// StartRun handles POST /runs.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	var body startRunRequest
	if !s.decode(w, r, &body) {
		return
	}
	alg, err := domain.ParseAlgorithm(body.Algorithm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id, err := s.Controller.StartRun(body.Algorithm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("run started via HTTP", "run_id", id, "algorithm", alg)
	s.writeJSON(w, http.StatusAccepted, runStarted{RunID: id, Algorithm: alg})
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Controller.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// CancelRun handles POST /cancel.
func (s *Server) CancelRun(w http.ResponseWriter, r *http.Request) {
	running := s.Controller.Snapshot().Status == domain.StatusRunning
	s.Controller.Cancel()
	s.writeApplied(w, running)
}

// PauseRun handles POST /pause.
func (s *Server) PauseRun(w http.ResponseWriter, r *http.Request) {
	s.writeApplied(w, s.Controller.Pause())
}

// ResumeRun handles POST /resume.
func (s *Server) ResumeRun(w http.ResponseWriter, r *http.Request) {
	s.writeApplied(w, s.Controller.Resume())
}

// SetDelay handles PUT /delay.
func (s *Server) SetDelay(w http.ResponseWriter, r *http.Request) {
	var body delayRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.DelayMS == nil {
		s.writeError(w, fmt.Errorf("%w: delay_ms is required", domain.ErrInvalidInput))
		return
	}
	s.Controller.SetDelay(time.Duration(*body.DelayMS) * time.Millisecond)
	s.writeState(w)
}

// Undo handles POST /undo.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.writeApplied(w, s.Controller.Undo())
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	filter := map[domain.EventType]bool{}
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			filter[domain.EventType(strings.TrimSpace(t))] = true
		}
	}
	diffMode, _ := strconv.ParseBool(r.URL.Query().Get("diff"))

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Client subscribed", "diff", diffMode, "types", len(filter))

	var prev domain.Array
	if diffMode {
		prev = s.Controller.Snapshot().Array
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}

			if len(filter) > 0 && !filter[ev.Type] {
				continue
			}
			var payload any = ev
			if diffMode {
				// Diffs are relative to the last event this client received.
				payload = newDiffEvent(ev, domain.Diff(prev, ev.Values))
				prev = ev.Values
			}

			data, err := json.Marshal(payload)
			if err != nil {
				s.logger.Error("SSE: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

// diffEvent is a StepEvent whose array snapshot is replaced by the changes
// since the previous event on the same stream.
type diffEvent struct {
	RunID     string            `json:"run_id,omitempty"`
	Seq       int               `json:"seq"`
	Algorithm domain.Algorithm  `json:"algorithm,omitempty"`
	Type      domain.EventType  `json:"type"`
	Role      domain.Role       `json:"role"`
	Indices   []int             `json:"indices"`
	Diff      *domain.ArrayDiff `json:"diff,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newDiffEvent(ev domain.StepEvent, diff *domain.ArrayDiff) diffEvent {
	return diffEvent{
		RunID:     ev.RunID,
		Seq:       ev.Seq,
		Algorithm: ev.Algorithm,
		Type:      ev.Type,
		Role:      ev.Role,
		Indices:   ev.Indices,
		Diff:      diff,
		Timestamp: ev.Timestamp,
	}
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeState(w http.ResponseWriter) {
	snap := s.Controller.Snapshot()
	s.writeJSON(w, http.StatusOK, stateResponse{Snapshot: snap, DelayMS: snap.Delay.Milliseconds()})
}

func (s *Server) writeApplied(w http.ResponseWriter, ok bool) {
	s.writeJSON(w, http.StatusOK, applied{Applied: ok, HistoryDepth: s.Controller.Snapshot().HistoryDepth})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownAlgorithm), errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
