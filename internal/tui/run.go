package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/moti-registry/internal/tui/themes"
)

// RunDashboard runs the interactive dashboard until the user quits or ctx
// is canceled.
func RunDashboard(ctx context.Context, source Source, theme themes.Theme) error {
	program := tea.NewProgram(
		NewDashboard(ctx, source, theme),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
