package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/cmd"
	"github.com/cmdvault/cmdvault/cmd/config"
	"github.com/cmdvault/cmdvault/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := &cobra.Command{
		Use:   "cmdvault",
		Short: "A side panel for your shell commands",
		Long: `cmdvault organizes shell command snippets in a folder tree with tags,
pins, history, command chains and {{variable}} placeholders, backed up to a
private gist. Run without arguments to open the interactive panel.`,
		SilenceUsage: true,
	}
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		var err error
		svc, err = config.InitService()
		return err
	}
	rootCmd.PersistentPostRun = func(c *cobra.Command, args []string) {
		if svc != nil {
			_ = svc.Close()
		}
	}

	rootCmd.AddCommand(cmd.NewPanelCmd(&svc))
	rootCmd.AddCommand(cmd.NewAddCmd(&svc))
	rootCmd.AddCommand(cmd.NewListCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewShowCmd(&svc))
	rootCmd.AddCommand(cmd.NewCopyCmd(&svc))
	rootCmd.AddCommand(cmd.NewEditCmd(&svc))
	rootCmd.AddCommand(cmd.NewMoveCmd(&svc))
	rootCmd.AddCommand(cmd.NewDuplicateCmd(&svc))
	rootCmd.AddCommand(cmd.NewDeleteCmd(&svc))
	rootCmd.AddCommand(cmd.NewPinCmd(&svc))
	rootCmd.AddCommand(cmd.NewHistoryCmd(&svc))
	rootCmd.AddCommand(cmd.NewExportCmd(&svc))
	rootCmd.AddCommand(cmd.NewImportCmd(&svc))
	rootCmd.AddCommand(cmd.NewSyncCmd(&svc))
	rootCmd.AddCommand(cmd.NewResetCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	// Bare invocation opens the panel.
	rootCmd.RunE = func(c *cobra.Command, args []string) error {
		return cmd.RunPanel(svc)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
