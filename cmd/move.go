package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// NewMoveCmd creates the `move` subcommand.
func NewMoveCmd(svc **service.Service) *cobra.Command {
	var (
		target   string
		position string
	)

	cmd := &cobra.Command{
		Use:     "move <id|name>...",
		Short:   "Move nodes relative to a target",
		Aliases: []string{"mv"},
		Long: `Move one or more nodes before, after or inside a target. Moving
multiple nodes preserves their document order. A folder can never be moved
into its own subtree.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			store := s.Store()

			pos := tree.Position(position)
			switch pos {
			case tree.Before, tree.After, tree.Inside:
			default:
				return fmt.Errorf("invalid --position %q (want before, after or inside)", position)
			}

			tgt, err := resolveNode(store, target)
			if err != nil {
				return err
			}
			if pos == tree.Inside && !tgt.IsFolder() {
				return fmt.Errorf("cannot move inside %q: not a folder", tgt.Name)
			}

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				n, err := resolveNode(store, ref)
				if err != nil {
					return err
				}
				ids = append(ids, n.ID)
			}

			label := "Move: " + args[0]
			if len(ids) > 1 {
				label = fmt.Sprintf("Move %d items", len(ids))
			}
			s.Snapshot(label)
			if err := store.MoveMany(ids, tgt.ID, pos); err != nil {
				return err
			}
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Moved %d node(s) %s %q\n", len(ids), pos, tgt.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "target folder or command (id or name)")
	cmd.Flags().StringVarP(&position, "position", "p", string(tree.Inside), "before, after or inside the target")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
