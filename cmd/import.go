package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/export"
	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

func countImported(nodes []*models.Node) int {
	total := 0
	for _, n := range nodes {
		total += tree.CountCommands(n)
	}
	return total
}

// NewImportCmd creates the `import` subcommand.
func NewImportCmd(svc **service.Service) *cobra.Command {
	var (
		merge bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a command tree from a JSON or YAML export",
		Long: `Import an export file. By default the current tree is replaced; with
--merge the imported nodes are wrapped in a folder named after the file and
appended at root level with fresh ids, so nothing existing is touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			if merge {
				folder, err := export.ImportMerge(data, args[0])
				if err != nil {
					return err
				}
				s.Snapshot("Import: " + filepath.Base(args[0]))
				if err := s.Store().Add("", folder); err != nil {
					return err
				}
				if err := s.SaveAndMirror(context.Background()); err != nil {
					return err
				}
				fmt.Printf("Merged %d commands into folder %q\n", countImported(folder.Children), folder.Name)
				return nil
			}

			if !force && !confirm("Replace the entire tree with "+args[0]+"?") {
				fmt.Println("Aborted.")
				return nil
			}
			forest, err := export.ImportReplace(data)
			if err != nil {
				return err
			}
			s.Snapshot("Import: " + filepath.Base(args[0]))
			s.Store().SetRoots(forest)
			if err := s.SaveAndMirror(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Imported %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "append under a new folder instead of replacing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation when replacing")
	return cmd
}
