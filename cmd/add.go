package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewAddCmd creates the `add` subcommand with its folder/command variants.
func NewAddCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a folder or command to the vault",
	}
	cmd.AddCommand(newAddFolderCmd(svc))
	cmd.AddCommand(newAddCommandCmd(svc))
	return cmd
}

func newAddFolderCmd(svc **service.Service) *cobra.Command {
	var parent string
	var color string

	cmd := &cobra.Command{
		Use:   "folder <name>",
		Short: "Add a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			folder := models.NewFolder(args[0])
			if color != "" {
				folder.Color = color
			}

			parentID := ""
			if parent != "" {
				p, err := resolveFolder(s.Store(), parent)
				if err != nil {
					return err
				}
				parentID = p.ID
			}

			s.Snapshot("Add folder: " + folder.Name)
			if err := s.Store().Add(parentID, folder); err != nil {
				return err
			}
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Added folder %q (%s)\n", folder.Name, folder.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder (id or name; default root)")
	cmd.Flags().StringVar(&color, "color", "", "folder color (hex)")
	return cmd
}

func newAddCommandCmd(svc **service.Service) *cobra.Command {
	var (
		parent      string
		cmdText     string
		description string
		tags        string
		steps       []string
		connector   string
		masked      bool
		pinned      bool
	)

	cmd := &cobra.Command{
		Use:   "command <name>",
		Short: "Add a command",
		Long: `Add a command snippet. The body comes from --cmd, or from repeated
--step flags joined by --connector (a chain). Command text may contain
{{variable}} placeholders filled in at copy time.`,
		Aliases: []string{"cmd"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if cmdText == "" && len(steps) == 0 {
				return fmt.Errorf("provide --cmd or at least one --step")
			}
			if cmdText != "" && len(steps) > 0 {
				return fmt.Errorf("--cmd and --step are mutually exclusive; a chained command derives its body from its steps")
			}

			node := models.NewCommand(args[0], cmdText)
			node.Description = description
			node.Tags = models.ParseTags(tags)
			node.Pinned = pinned
			if masked {
				node.Icon = models.IconMasked
			}
			if len(steps) > 0 {
				chain := &models.Chain{
					Connector: models.Connector(strings.TrimSpace(connector)),
					Steps:     steps,
				}
				if err := node.SetChain(chain); err != nil {
					return err
				}
			}

			parentID := ""
			if parent != "" {
				p, err := resolveFolder(s.Store(), parent)
				if err != nil {
					return err
				}
				parentID = p.ID
			}

			s.Snapshot("Add command: " + node.Name)
			if err := s.Store().Add(parentID, node); err != nil {
				return err
			}
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Added command %q (%s)\n", node.Name, node.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder (id or name; default root)")
	cmd.Flags().StringVarP(&cmdText, "cmd", "c", "", "command body")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "comma-separated tags (max 5, 15 chars each)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "chain step (repeatable)")
	cmd.Flags().StringVar(&connector, "connector", "&&", `chain connector: "&&", ";" or "|"`)
	cmd.Flags().BoolVar(&masked, "masked", false, "hide the command body until revealed")
	cmd.Flags().BoolVar(&pinned, "pin", false, "pin to quick access")
	return cmd
}
