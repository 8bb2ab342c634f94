package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewPinCmd creates the `pin` subcommand.
func NewPinCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id|name>",
		Short: "Toggle a command's quick-access pin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			n, err := resolveNode(s.Store(), args[0])
			if err != nil {
				return err
			}
			if n.IsFolder() {
				return fmt.Errorf("%q is a folder; only commands can be pinned", n.Name)
			}

			s.Snapshot("Pin: " + n.Name)
			if err := s.Store().TogglePin(n.ID); err != nil {
				return err
			}
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			if n.Pinned {
				fmt.Printf("Pinned %q\n", n.Name)
			} else {
				fmt.Printf("Unpinned %q\n", n.Name)
			}
			return nil
		},
	}
	return cmd
}
