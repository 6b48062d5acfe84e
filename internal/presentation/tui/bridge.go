package tui

import (
	"context"

	"github.com/aretw0/sortstep/pkg/domain"
)

// DefaultBridgeSize is the event buffer used by NewBridge when size <= 0.
const DefaultBridgeSize = 256

// Bridge is a renderer that hands controller events to the bubbletea loop.
// Render never blocks: when the buffer is full the oldest event is dropped,
// since every event carries the full array.
type Bridge struct {
	ch chan domain.StepEvent
}

// NewBridge creates a bridge buffering up to size events.
func NewBridge(size int) *Bridge {
	if size <= 0 {
		size = DefaultBridgeSize
	}
	return &Bridge{ch: make(chan domain.StepEvent, size)}
}

// Render implements ports.Renderer.
func (b *Bridge) Render(_ context.Context, ev domain.StepEvent) error {
	for {
		select {
		case b.ch <- ev:
			return nil
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// Events is the receive side consumed by the model.
func (b *Bridge) Events() <-chan domain.StepEvent {
	return b.ch
}
