package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
)

// JSONHandler writes newline-delimited JSON: one step event per line, then a
// single {"summary": ...} line when the run ends.
type JSONHandler struct {
	Writer io.Writer

	mu      sync.Mutex
	encoder *json.Encoder
}

type summaryLine struct {
	Summary *domain.RunSummary `json:"summary"`
}

// NewJSONHandler creates a handler for NDJSON output.
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Writer:  w,
		encoder: json.NewEncoder(w),
	}
}

// Render emits the event as a single JSON line.
func (h *JSONHandler) Render(ctx context.Context, ev domain.StepEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(ev)
}

// Summary emits the run summary as the final line.
func (h *JSONHandler) Summary(ctx context.Context, summary *domain.RunSummary) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(summaryLine{Summary: summary})
}
