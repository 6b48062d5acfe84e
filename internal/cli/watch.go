package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/sortstep/internal/config"
	redisAdapter "github.com/aretw0/sortstep/pkg/adapters/redis"
	"github.com/aretw0/sortstep/pkg/ports"
	"github.com/aretw0/sortstep/pkg/runner"
)

// ErrNoRedis is returned by Watch when no redis address is configured.
var ErrNoRedis = errors.New("watch needs a redis address (--redis-addr or redis.addr)")

// Watch renders the step events published on the redis channel by another
// sortstep process until ctx ends.
func Watch(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer, jsonMode bool) error {
	if cfg.Redis.Addr == "" {
		return ErrNoRedis
	}
	if out == nil {
		out = os.Stdout
	}

	client, err := connectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	var renderer ports.Renderer
	if jsonMode {
		renderer = runner.NewJSONHandler(out)
	} else {
		renderer = runner.NewTextHandler(out)
		printSystemMessage(out, "Watching '%s' on %s.", cfg.Redis.Channel, cfg.Redis.Addr)
	}

	sub := redisAdapter.NewSubscriber(client, cfg.Redis.Channel, redisAdapter.WithLogger(logger))
	return handleExecutionError(sub.Listen(ctx, renderer))
}
