package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 20
	barGlyph      = "█"
)

// Role colors, matching the browser visualizer.
var roleColors = map[domain.Role]string{
	domain.RoleComparing: "#e74c3c",
	domain.RoleSelected:  "#3498db",
	domain.RoleSwapping:  "#f1c40f",
	domain.RoleSorted:    "#2ecc71",
}

const idleColor = "#95a5a6"

// TextHandler draws each step as a frame of vertical bars.
type TextHandler struct {
	Writer io.Writer

	out         *termenv.Output
	width       int
	height      int
	interactive bool // redraw in place instead of appending frames

	mu     sync.Mutex
	sorted map[int]bool // indices marked sorted in the current run
	runID  string
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithSize fixes the drawing area instead of querying the terminal.
func WithSize(width, height int) TextHandlerOption {
	return func(h *TextHandler) {
		h.width, h.height = width, height
	}
}

// WithColorProfile forces a termenv color profile.
func WithColorProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.out = termenv.NewOutput(h.Writer, termenv.WithProfile(p))
	}
}

// WithInteractive forces in-place redraws on or off.
func WithInteractive(interactive bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.interactive = interactive
	}
}

// NewTextHandler creates a bar renderer. When w is a terminal, frames are
// redrawn in place and sized to the window.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer: w,
		out:    termenv.NewOutput(w),
		width:  defaultWidth,
		height: defaultHeight,
		sorted: map[int]bool{},
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		h.interactive = true
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			h.width, h.height = width, max(height-3, 1)
		}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render draws one frame for the event.
func (h *TextHandler) Render(ctx context.Context, ev domain.StepEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ev.RunID != h.runID || ev.Type == domain.EventRestore {
		h.runID = ev.RunID
		h.sorted = map[int]bool{}
	}
	if ev.Type == domain.EventSorted {
		for _, i := range ev.Indices {
			h.sorted[i] = true
		}
	}

	var b strings.Builder
	if h.interactive {
		b.WriteString(termenv.CSI + "H" + termenv.CSI + "2J")
	}
	h.drawBars(&b, ev)
	fmt.Fprintf(&b, "%s\n", h.statusLine(ev))

	_, err := io.WriteString(h.Writer, b.String())
	return err
}

func (h *TextHandler) drawBars(b *strings.Builder, ev domain.StepEvent) {
	n := len(ev.Values)
	if n == 0 {
		return
	}
	top := ev.Values.Max()
	barWidth := max(h.width/n, 1)
	glyphs := barWidth
	if barWidth > 1 {
		glyphs = barWidth - 1
	}

	heights := make([]int, n)
	for i, v := range ev.Values {
		heights[i] = scale(v, top, h.height)
	}

	cells := make([]string, n)
	for i := range ev.Values {
		cells[i] = h.out.String(strings.Repeat(barGlyph, glyphs)).
			Foreground(h.out.Color(h.colorFor(ev, i))).
			String()
	}
	blank := strings.Repeat(" ", glyphs)
	gap := strings.Repeat(" ", barWidth-glyphs)

	for row := h.height; row >= 1; row-- {
		for i := range ev.Values {
			if heights[i] >= row {
				b.WriteString(cells[i])
			} else {
				b.WriteString(blank)
			}
			b.WriteString(gap)
		}
		b.WriteByte('\n')
	}
}

func (h *TextHandler) colorFor(ev domain.StepEvent, i int) string {
	if ev.Highlights(i) {
		if c, ok := roleColors[ev.Role]; ok {
			return c
		}
	}
	if h.sorted[i] {
		return roleColors[domain.RoleSorted]
	}
	return idleColor
}

func (h *TextHandler) statusLine(ev domain.StepEvent) string {
	if ev.Type == domain.EventRestore {
		return fmt.Sprintf("restored %d values", len(ev.Values))
	}
	return fmt.Sprintf("%-9s #%-5d %-8s %v", ev.Algorithm, ev.Seq, ev.Type, ev.Indices)
}

// scale maps v onto [0, rows] relative to top. Positive values always get at
// least one row.
func scale(v, top, rows int) int {
	if v <= 0 || top <= 0 {
		return 0
	}
	h := int(float64(v) / float64(top) * float64(rows))
	return min(max(h, 1), rows)
}

// Summary prints the outcome of the run.
func (h *TextHandler) Summary(ctx context.Context, summary *domain.RunSummary) error {
	if summary == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.out.String(string(summary.Outcome))
	if summary.Outcome == domain.OutcomeCompleted {
		status = status.Foreground(h.out.Color(roleColors[domain.RoleSorted]))
	} else {
		status = status.Foreground(h.out.Color(roleColors[domain.RoleComparing]))
	}
	_, err := fmt.Fprintf(h.Writer, "%s %s: %d values, %d comparisons, %d mutations in %s\n",
		summary.Algorithm, status, summary.Size, summary.Comparisons, summary.Mutations, summary.Duration().Round(1e6))
	return err
}
