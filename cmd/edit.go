package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewEditCmd creates the `edit` subcommand.
func NewEditCmd(svc **service.Service) *cobra.Command {
	var (
		name        string
		cmdText     string
		description string
		tags        string
		color       string
		steps       []string
		connector   string
		mask        bool
		unmask      bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Edit a folder or command",
		Long: `Change any subset of a node's fields. Only flags you pass are applied;
everything else is left alone. Editing --cmd on a chained command drops the
chain, since the body no longer derives from its steps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			n, err := resolveNode(s.Store(), args[0])
			if err != nil {
				return err
			}
			if mask && unmask {
				return fmt.Errorf("--mask and --unmask are mutually exclusive")
			}
			if n.IsFolder() && (cmdText != "" || len(steps) > 0 || tags != "" || mask || unmask) {
				return fmt.Errorf("%q is a folder; only --name and --color apply", n.Name)
			}
			if cmdText != "" && len(steps) > 0 {
				return fmt.Errorf("--cmd and --step are mutually exclusive")
			}

			s.Snapshot("Edit: " + n.Name)

			if name != "" {
				n.Name = strings.TrimSpace(name)
				if n.Name == "" {
					n.Name = models.DefaultName
				}
			}
			if cmd.Flags().Changed("color") {
				n.Color = color
			}
			if cmd.Flags().Changed("description") {
				n.Description = description
			}
			if tags != "" {
				n.Tags = models.ParseTags(tags)
			}
			if cmdText != "" {
				n.Cmd = cmdText
				n.Chain = nil
			}
			if len(steps) > 0 {
				ch := &models.Chain{Connector: models.Connector(strings.TrimSpace(connector)), Steps: steps}
				if ch.Connector == "" && n.Chain != nil {
					ch.Connector = n.Chain.Connector
				}
				if err := n.SetChain(ch); err != nil {
					return err
				}
			}
			if mask {
				n.Icon = models.IconMasked
			}
			if unmask && n.IsMasked() {
				n.Icon = models.IconDefault
			}

			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Updated %q\n", n.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rename the node")
	cmd.Flags().StringVar(&cmdText, "cmd", "", "replace the command body")
	cmd.Flags().StringVar(&description, "description", "", "replace the description")
	cmd.Flags().StringVar(&tags, "tags", "", "replace tags (comma-separated)")
	cmd.Flags().StringVar(&color, "color", "", "set the color (hex; empty clears it)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "replace the chain steps (repeatable)")
	cmd.Flags().StringVar(&connector, "connector", "", "chain connector: '&&', ';' or '|'")
	cmd.Flags().BoolVar(&mask, "mask", false, "hide the command body in listings")
	cmd.Flags().BoolVar(&unmask, "unmask", false, "stop hiding the command body")
	return cmd
}
