package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Overlay contains the highlight state to draw on top of the array.
type Overlay struct {
	Role    domain.Role // Role of Indices in the current step
	Indices []int
	Sorted  []int // Indices already in their final position
}

// roleClasses maps highlight roles to Mermaid class definitions.
// Text is forced black (color:#000) for contrast on both light and dark themes.
var roleClasses = []struct {
	role domain.Role
	def  string
}{
	{domain.RoleSorted, "fill:#2ecc71,stroke:#1e8449,color:#000"},
	{domain.RoleComparing, "fill:#e74c3c,stroke:#922b21,stroke-width:3px,color:#000"},
	{domain.RoleSelected, "fill:#3498db,stroke:#1f618d,stroke-width:3px,color:#000"},
	{domain.RoleSwapping, "fill:#f1c40f,stroke:#b7950b,stroke-width:3px,color:#000"},
}

// GenerateMermaid produces a Mermaid flowchart (graph LR) with one node per
// array cell, labelled with its value, chained left to right. The overlay, if
// given, styles sorted cells and the cells touched by the current step; the
// current step wins over sorted.
func GenerateMermaid(values domain.Array, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, v := range values {
		sb.WriteString(fmt.Sprintf("    %s[\"%d\"]\n", nodeID(i), v))
	}
	if len(values) > 1 {
		ids := make([]string, len(values))
		for i := range values {
			ids[i] = nodeID(i)
		}
		sb.WriteString("    " + strings.Join(ids, " --- ") + "\n")
	}

	if overlay == nil {
		return sb.String()
	}

	classes := make(map[domain.Role][]string)
	for _, i := range dedupe(overlay.Sorted, len(values)) {
		if overlay.Role != domain.RoleSorted && slices.Contains(overlay.Indices, i) {
			continue
		}
		classes[domain.RoleSorted] = append(classes[domain.RoleSorted], nodeID(i))
	}
	if overlay.Role != domain.RoleNone && overlay.Role != "" {
		for _, i := range dedupe(overlay.Indices, len(values)) {
			if overlay.Role == domain.RoleSorted && slices.Contains(overlay.Sorted, i) {
				continue
			}
			classes[overlay.Role] = append(classes[overlay.Role], nodeID(i))
		}
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	for _, rc := range roleClasses {
		sb.WriteString(fmt.Sprintf("    classDef %s %s;\n", rc.role, rc.def))
	}
	for _, rc := range roleClasses {
		if ids := classes[rc.role]; len(ids) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), rc.role))
		}
	}

	return sb.String()
}

// Replay folds events up to and including step into the array and overlay at
// that point. A step of 0 or beyond the last event means the final state.
func Replay(initial domain.Array, events []domain.StepEvent, step int) (domain.Array, *Overlay) {
	values := initial.Clone()
	overlay := &Overlay{Role: domain.RoleNone}
	if step <= 0 || step > len(events) {
		step = len(events)
	}

	for _, ev := range events[:step] {
		values = ev.Values.Clone()
		overlay.Role, overlay.Indices = ev.Role, ev.Indices
		if ev.Role == domain.RoleSorted {
			overlay.Sorted = append(overlay.Sorted, ev.Indices...)
		}
	}
	return values, overlay
}

// dedupe drops repeated and out-of-range indices, keeping order.
func dedupe(indices []int, n int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

func nodeID(i int) string {
	return fmt.Sprintf("i%d", i)
}
