package cli

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/aretw0/sortstep/internal/config"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/internal/presentation/tui"
	redisAdapter "github.com/aretw0/sortstep/pkg/adapters/redis"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/aretw0/sortstep/pkg/observability"
	"github.com/aretw0/sortstep/pkg/runner"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config config.Config
	Logger *slog.Logger
	Out    io.Writer

	// Values is a comma-separated array. Empty means a random array.
	Values string
	JSON   bool
	Quiet  bool // no banner or system messages
	Rand   *rand.Rand
}

// Execute handles the run command: it sorts one array and prints the frames
// and the summary. Interruptions are not errors.
func Execute(ctx context.Context, opts RunOptions) (*domain.RunSummary, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	cfg := opts.Config

	values, err := resolveValues(opts)
	if err != nil {
		return nil, err
	}

	var handler runner.Handler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.Out)
	} else {
		handler = runner.NewTextHandler(opts.Out)
		if !opts.Quiet {
			tui.FprintBanner(opts.Out)
			printSystemMessage(opts.Out, "Sorting %d values with %s.", len(values), cfg.Algorithm)
		}
	}

	runnerOpts := []runner.Option{
		runner.WithHandler(handler),
		runner.WithLogger(opts.Logger),
		runner.WithDelay(cfg.Delay),
		runner.WithLifecycleHooks(observability.LoggingHooks(opts.Logger)),
	}

	client, err := connectRedis(ctx, cfg.Redis, opts.Logger)
	if err != nil {
		return nil, err
	}
	if client != nil {
		defer client.Close()
		runnerOpts = append(runnerOpts, runner.WithRenderer(
			redisAdapter.NewPublisher(client, cfg.Redis.Channel, redisAdapter.WithLogger(opts.Logger)),
		))
	}

	summary, err := runner.NewRunner(runnerOpts...).Run(ctx, values, cfg.Algorithm)
	if err != nil && isInterrupted(err) && !opts.JSON && !opts.Quiet {
		printSystemMessage(opts.Out, "Interrupted after %d steps.", summary.Steps)
	}
	return summary, handleExecutionError(err)
}

func resolveValues(opts RunOptions) (domain.Array, error) {
	if opts.Values != "" {
		return input.Parse(opts.Values)
	}
	g := opts.Config.Generate
	return input.Generate(opts.Rand, g.Size, g.Min, g.Max)
}
