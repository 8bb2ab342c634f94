package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/internal/tui/panel"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewPanelCmd creates the `panel` subcommand.
func NewPanelCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive side panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunPanel(*svc)
		},
	}
}

// RunPanel starts the panel TUI. Mouse support is on for drag and drop.
func RunPanel(svc *service.Service) error {
	m := panel.New(svc)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}
