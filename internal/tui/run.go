package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, l Ledger, opts ...Option) error {
	p := tea.NewProgram(
		New(ctx, l, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
