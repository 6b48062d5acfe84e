package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// An empty style detects the terminal background.
func NewRenderer(style string) func(string) (string, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, err
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// AlgorithmMarkdown describes the given algorithms as a markdown document.
func AlgorithmMarkdown(infos []domain.AlgorithmInfo) string {
	var sb strings.Builder
	sb.WriteString("# Algorithms\n\n")
	sb.WriteString("| Tag | Name | Time | Space |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n",
			info.Algorithm, info.Name, info.TimeComplexity, info.SpaceComplexity)
	}
	for _, info := range infos {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", info.Name, info.Description)
	}
	return sb.String()
}
