package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/config"
	"github.com/aretw0/sortstep/pkg/adapters/mcp"
	"github.com/aretw0/sortstep/pkg/observability"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes a controller as an MCP server over the given transport.
// Runs are not paced over MCP unless the config sets a delay.
func ServeMCP(ctx context.Context, cfg config.Config, logger *slog.Logger, transport string, port int) error {
	values, err := initialArray(cfg.Generate)
	if err != nil {
		return err
	}
	ctrl := sortstep.New(
		sortstep.WithLogger(logger),
		sortstep.WithDelay(cfg.Delay),
		sortstep.WithArray(values),
		sortstep.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	defer ctrl.Close()

	srv := mcp.NewServer(ctrl, mcp.WithLogger(logger))

	switch transport {
	case TransportStdio:
		logger.Info("Starting sortstep MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("Starting sortstep MCP Server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: %s, %s", transport, TransportStdio, TransportSSE)
	}
}
