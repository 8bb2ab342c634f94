package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// NewShowCmd creates the `show` subcommand.
func NewShowCmd(svc **service.Service) *cobra.Command {
	var (
		showJSON bool
		reveal   bool
	)

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show a folder or command in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			n, err := resolveNode(s.Store(), args[0])
			if err != nil {
				return err
			}
			if showJSON {
				return printJSON(n)
			}

			if n.IsFolder() {
				fmt.Printf("Folder:   %s\n", n.Name)
				fmt.Printf("ID:       %s\n", n.ID)
				if n.Color != "" {
					fmt.Printf("Color:    %s\n", n.Color)
				}
				fmt.Printf("Contents: %d commands, %d subfolders\n",
					tree.CountCommands(n), tree.CountFolders(n)-1)
				return nil
			}

			fmt.Printf("Command:     %s\n", n.Name)
			fmt.Printf("ID:          %s\n", n.ID)
			body := n.Cmd
			if n.IsMasked() && !reveal {
				body = models.MaskedCmd + " (use --reveal)"
			}
			fmt.Printf("Body:        %s\n", body)
			if n.Description != "" {
				fmt.Printf("Description: %s\n", n.Description)
			}
			if len(n.Tags) > 0 {
				fmt.Printf("Tags:        %s\n", strings.Join(n.Tags, ", "))
			}
			if n.Chain != nil {
				fmt.Printf("Chain:       %d steps joined by %q\n", len(n.Chain.Steps), n.Chain.Connector)
				for i, step := range n.Chain.Steps {
					fmt.Printf("  %d. %s\n", i+1, step)
				}
			}
			if vars := models.ExtractVars(n.Cmd); len(vars) > 0 {
				fmt.Printf("Variables:   %s\n", strings.Join(vars, ", "))
			}
			if n.Pinned {
				fmt.Println("Pinned:      yes")
			}
			if color := s.Store().EffectiveColor(n.ID); color != "" {
				fmt.Printf("Color:       %s\n", color)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the body of masked commands")
	return cmd
}
