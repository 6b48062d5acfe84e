// Package redis carries step events over Redis pub/sub so a controller in one
// process can be watched from another.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is given.
const DefaultChannel = "sortstep:events"

// Option configures a Publisher or Subscriber.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func resolve(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Publisher implements ports.Renderer by publishing every event as JSON.
type Publisher struct {
	client  *backend.Client
	channel string
	logger  *slog.Logger
}

// NewPublisher creates a publisher on channel (DefaultChannel when empty).
func NewPublisher(client *backend.Client, channel string, opts ...Option) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{
		client:  client,
		channel: channel,
		logger:  resolve(opts).logger,
	}
}

// Channel returns the channel events are published on.
func (p *Publisher) Channel() string {
	return p.channel
}

// Render publishes ev. It does not wait for subscribers.
func (p *Publisher) Render(ctx context.Context, ev domain.StepEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	// The run context is cancelled as soon as a run stops; the final events
	// must still go out.
	if err := p.client.Publish(context.WithoutCancel(ctx), p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish error: %w", err)
	}
	return nil
}
