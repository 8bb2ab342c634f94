package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewDeleteCmd creates the `delete` subcommand.
func NewDeleteCmd(svc **service.Service) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <id|name>...",
		Short:   "Delete folders or commands",
		Aliases: []string{"rm"},
		Long: `Delete one or more nodes. Deleting a folder takes its whole subtree
with it. Asks for confirmation unless --force is given; the operation can be
undone from the panel within the same session.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			store := s.Store()

			nodes := make([]*models.Node, 0, len(args))
			for _, ref := range args {
				n, err := resolveNode(store, ref)
				if err != nil {
					return err
				}
				nodes = append(nodes, n)
			}

			if !force {
				scopes := make([]string, len(nodes))
				for i, n := range nodes {
					scopes[i] = deleteScope(n)
				}
				if !confirm("Delete " + strings.Join(scopes, ", ") + "?") {
					fmt.Println("Aborted.")
					return nil
				}
			}

			label := "Delete: " + nodes[0].Name
			if len(nodes) > 1 {
				label = fmt.Sprintf("Delete %d items", len(nodes))
			}
			s.Snapshot(label)

			ids := make(map[string]struct{}, len(nodes))
			for _, n := range nodes {
				ids[n.ID] = struct{}{}
			}
			store.DeleteMany(ids)

			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Deleted %d node(s)\n", len(nodes))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
