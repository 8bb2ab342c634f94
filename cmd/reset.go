package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewResetCmd creates the `reset` subcommand.
func NewResetCmd(svc **service.Service) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the vault back to its starter folder",
		Long: `Replace the tree with the default starter folder and clear the copy
history. Tokens and the cached gist id are kept; run 'sync token --clear'
to drop those too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if !force && !confirm("Erase all folders and commands?") {
				fmt.Println("Aborted.")
				return nil
			}
			if err := s.FactoryReset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Vault reset.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
