package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/config"
	"github.com/aretw0/sortstep/internal/presentation/tui"
	"github.com/aretw0/sortstep/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI starts the interactive visualizer and blocks until the user quits
// or ctx ends.
func RunTUI(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	g := cfg.Generate
	values, err := initialArray(g)
	if err != nil {
		return err
	}
	bridge := tui.NewBridge(0)

	ctrl := sortstep.New(
		sortstep.WithLogger(logger),
		sortstep.WithDelay(cfg.Delay),
		sortstep.WithRenderer(bridge),
		sortstep.WithArray(values),
	)
	defer ctrl.Close()

	model := tui.NewModel(ctrl, bridge.Events(),
		tui.WithAlgorithm(domain.Algorithm(cfg.Algorithm)),
		tui.WithTheme(cfg.Theme),
		tui.WithGenerate(g.Size, g.Min, g.Max),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
