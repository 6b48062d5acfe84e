package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Subscriber replays published events into a local renderer.
type Subscriber struct {
	client  *backend.Client
	channel string
	logger  *slog.Logger
}

// NewSubscriber creates a subscriber on channel (DefaultChannel when empty).
func NewSubscriber(client *backend.Client, channel string, opts ...Option) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{
		client:  client,
		channel: channel,
		logger:  resolve(opts).logger,
	}
}

// Listen renders incoming events until ctx ends. Malformed messages are
// logged and skipped; renderer errors stop the loop.
func (s *Subscriber) Listen(ctx context.Context, renderer ports.Renderer) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// Wait for confirmation that subscription is created before publishing anything.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redis subscribe error: %w", err)
	}
	s.logger.Debug("subscribed", "channel", s.channel)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev domain.StepEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.logger.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
				continue
			}
			if err := renderer.Render(ctx, ev); err != nil {
				return fmt.Errorf("render error: %w", err)
			}
		}
	}
}
