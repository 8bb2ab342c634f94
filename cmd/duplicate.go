package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewDuplicateCmd creates the `duplicate` subcommand.
func NewDuplicateCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicate <id|name>",
		Short:   "Duplicate a folder or command",
		Aliases: []string{"dup"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			n, err := resolveNode(s.Store(), args[0])
			if err != nil {
				return err
			}

			s.Snapshot("Duplicate: " + n.Name)
			dup, err := s.Store().Duplicate(n.ID)
			if err != nil {
				return err
			}
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Created %q (%s)\n", dup.Name, dup.ID)
			return nil
		},
	}
	return cmd
}
