package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/sortstep/internal/presentation/tui"
	"github.com/aretw0/sortstep/pkg/domain"
)

// PrintAlgorithms writes the algorithm catalog as JSON or as rendered markdown.
// style is a glamour style name; empty detects the terminal.
func PrintAlgorithms(w io.Writer, jsonMode bool, style string) error {
	infos := domain.Algorithms()
	if jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	out, err := tui.NewRenderer(style)(tui.AlgorithmMarkdown(infos))
	if err != nil {
		return fmt.Errorf("failed to render algorithms: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
