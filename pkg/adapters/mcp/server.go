package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Controller is the subset of sortstep.Controller exposed as tools.
type Controller interface {
	StartRun(tag string) (string, error)
	Cancel()
	SetDelay(d time.Duration)
	Pause() bool
	Resume() bool
	NewArray(values domain.Array) error
	Undo() bool
	Snapshot() domain.Snapshot
	Wait(ctx context.Context) error
}

var _ Controller = (*sortstep.Controller)(nil)

// State is the structured result of most tools.
type State struct {
	Array        domain.Array       `json:"array" jsonschema_description:"Current array values"`
	Status       domain.RunStatus   `json:"status" jsonschema_description:"idle or running"`
	Algorithm    domain.Algorithm   `json:"algorithm,omitempty" jsonschema_description:"Algorithm of the active run"`
	RunID        string             `json:"run_id,omitempty" jsonschema_description:"ID of the active run"`
	DelayMS      int64              `json:"delay_ms" jsonschema_description:"Pause between steps in milliseconds"`
	Paused       bool               `json:"paused"`
	HistoryDepth int                `json:"history_depth" jsonschema_description:"Number of mutations that can be undone"`
	LastRun      *domain.RunSummary `json:"last_run,omitempty" jsonschema_description:"Summary of the most recently finished run"`
}

// RunStarted is returned by start_run.
type RunStarted struct {
	RunID     string           `json:"run_id"`
	Algorithm domain.Algorithm `json:"algorithm"`
}

// Applied reports whether a control tool had an effect.
type Applied struct {
	Applied bool  `json:"applied"`
	State   State `json:"state"`
}

type newArrayArgs struct {
	Values string `json:"values"`
}

type generateArgs struct {
	Size *int `json:"size"`
	Min  *int `json:"min"`
	Max  *int `json:"max"`
}

type startRunArgs struct {
	Algorithm string `json:"algorithm"`
}

type setDelayArgs struct {
	DelayMS *float64 `json:"delay_ms"`
}

type waitArgs struct {
	TimeoutMS *float64 `json:"timeout_ms"`
}

type noArgs struct{}

// defaultWaitTimeout bounds wait_run when no timeout is given.
const defaultWaitTimeout = 30 * time.Second

// Server exposes a Controller as an MCP server.
type Server struct {
	ctrl      Controller
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Logs must not go to Stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ctrl Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("sortstep-mcp", strings.TrimSpace(sortstep.Version), server.WithRecovery()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for transports other than stdio.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on the given port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_algorithms",
		mcp.WithDescription("List the supported sorting algorithms with their complexity."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(domain.Algorithms())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("new_array",
		mcp.WithDescription("Stop any active run and replace the array. Clears the undo history."),
		mcp.WithString("values", mcp.Required(), mcp.Description("Comma-separated integers, e.g. \"5,3,8,1\"")),
		mcp.WithOutputSchema[State](),
	), mcp.NewStructuredToolHandler(s.handleNewArray))

	s.mcpServer.AddTool(mcp.NewTool("generate_array",
		mcp.WithDescription("Stop any active run and replace the array with random values."),
		mcp.WithNumber("size", mcp.Description("Number of values (default 30)")),
		mcp.WithNumber("min", mcp.Description("Smallest value (default 10)")),
		mcp.WithNumber("max", mcp.Description("Largest value (default 109)")),
		mcp.WithOutputSchema[State](),
	), mcp.NewStructuredToolHandler(s.handleGenerateArray))

	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Start sorting the current array. Any active run is cancelled first."),
		mcp.WithString("algorithm", mcp.Required(), mcp.Description("bubble, selection, insertion, merge, quick or heap")),
		mcp.WithOutputSchema[RunStarted](),
	), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("cancel_run",
		mcp.WithDescription("Cancel the active run and wait for it to stop."),
		mcp.WithOutputSchema[Applied](),
	), mcp.NewStructuredToolHandler(s.handleCancelRun))

	s.mcpServer.AddTool(mcp.NewTool("pause_run",
		mcp.WithDescription("Hold the active run at its next step."),
		mcp.WithOutputSchema[Applied](),
	), mcp.NewStructuredToolHandler(s.handlePauseRun))

	s.mcpServer.AddTool(mcp.NewTool("resume_run",
		mcp.WithDescription("Release a paused run."),
		mcp.WithOutputSchema[Applied](),
	), mcp.NewStructuredToolHandler(s.handleResumeRun))

	s.mcpServer.AddTool(mcp.NewTool("set_delay",
		mcp.WithDescription("Set the pause between steps. Applies from the next step of the active run."),
		mcp.WithNumber("delay_ms", mcp.Required(), mcp.Description("Delay in milliseconds")),
		mcp.WithOutputSchema[State](),
	), mcp.NewStructuredToolHandler(s.handleSetDelay))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Stop any active run and revert the most recent swap or write."),
		mcp.WithOutputSchema[Applied](),
	), mcp.NewStructuredToolHandler(s.handleUndo))

	s.mcpServer.AddTool(mcp.NewTool("wait_run",
		mcp.WithDescription("Block until the active run finishes or the timeout expires."),
		mcp.WithNumber("timeout_ms", mcp.Description("Maximum wait in milliseconds (default 30000)")),
		mcp.WithOutputSchema[State](),
	), mcp.NewStructuredToolHandler(s.handleWaitRun))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the current array, run status and undo depth."),
		mcp.WithOutputSchema[State](),
	), mcp.NewStructuredToolHandler(s.handleGetState))
}

// Handler methods for structured tools

func (s *Server) handleNewArray(ctx context.Context, request mcp.CallToolRequest, args newArrayArgs) (State, error) {
	values, err := input.Parse(args.Values)
	if err != nil {
		s.logger.Warn("MCP new_array: Input rejected", "error", err, "size", len(args.Values))
		return State{}, err
	}
	if err := s.ctrl.NewArray(values); err != nil {
		return State{}, err
	}
	return s.state(), nil
}

func (s *Server) handleGenerateArray(ctx context.Context, request mcp.CallToolRequest, args generateArgs) (State, error) {
	size, lo, hi := input.DefaultSize, input.DefaultMin, input.DefaultMax
	if args.Size != nil {
		if *args.Size <= 0 {
			return State{}, fmt.Errorf("%w: size must be positive", domain.ErrInvalidInput)
		}
		size = *args.Size
	}
	if args.Min != nil {
		lo = *args.Min
	}
	if args.Max != nil {
		hi = *args.Max
	}
	values, err := input.Generate(nil, size, lo, hi)
	if err != nil {
		s.logger.Warn("MCP generate_array: Input rejected", "error", err, "size", size)
		return State{}, err
	}
	if err := s.ctrl.NewArray(values); err != nil {
		return State{}, err
	}
	return s.state(), nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args startRunArgs) (RunStarted, error) {
	alg, err := domain.ParseAlgorithm(args.Algorithm)
	if err != nil {
		return RunStarted{}, err
	}
	id, err := s.ctrl.StartRun(args.Algorithm)
	if err != nil {
		return RunStarted{}, err
	}
	s.logger.Info("run started via MCP", "run_id", id, "algorithm", alg)
	return RunStarted{RunID: id, Algorithm: alg}, nil
}

func (s *Server) handleCancelRun(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (Applied, error) {
	running := s.ctrl.Snapshot().Status == domain.StatusRunning
	s.ctrl.Cancel()
	if err := s.ctrl.Wait(ctx); err != nil {
		return Applied{}, err
	}
	return Applied{Applied: running, State: s.state()}, nil
}

func (s *Server) handlePauseRun(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (Applied, error) {
	ok := s.ctrl.Pause()
	return Applied{Applied: ok, State: s.state()}, nil
}

func (s *Server) handleResumeRun(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (Applied, error) {
	ok := s.ctrl.Resume()
	return Applied{Applied: ok, State: s.state()}, nil
}

func (s *Server) handleSetDelay(ctx context.Context, request mcp.CallToolRequest, args setDelayArgs) (State, error) {
	if args.DelayMS == nil {
		return State{}, fmt.Errorf("%w: delay_ms is required", domain.ErrInvalidInput)
	}
	s.ctrl.SetDelay(time.Duration(*args.DelayMS * float64(time.Millisecond)))
	return s.state(), nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (Applied, error) {
	ok := s.ctrl.Undo()
	return Applied{Applied: ok, State: s.state()}, nil
}

func (s *Server) handleWaitRun(ctx context.Context, request mcp.CallToolRequest, args waitArgs) (State, error) {
	timeout := defaultWaitTimeout
	if args.TimeoutMS != nil {
		timeout = time.Duration(*args.TimeoutMS * float64(time.Millisecond))
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.ctrl.Wait(waitCtx); err != nil {
		return State{}, fmt.Errorf("run still active after %s", timeout)
	}
	return s.state(), nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, _ noArgs) (State, error) {
	return s.state(), nil
}

func (s *Server) state() State {
	snap := s.ctrl.Snapshot()
	return State{
		Array:        snap.Array,
		Status:       snap.Status,
		Algorithm:    snap.Algorithm,
		RunID:        snap.RunID,
		DelayMS:      snap.Delay.Milliseconds(),
		Paused:       snap.Paused,
		HistoryDepth: snap.HistoryDepth,
		LastRun:      snap.LastRun,
	}
}

func (s *Server) registerResources() {
	// EXPOSE: sortstep://state
	s.mcpServer.AddResource(mcp.NewResource("sortstep://state", "Controller State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.state())
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "sortstep://state",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: sortstep://algorithms
	s.mcpServer.AddResource(mcp.NewResource("sortstep://algorithms", "Algorithm Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(domain.Algorithms())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "sortstep://algorithms",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
