package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// NewListCmd creates the `list` subcommand.
func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		listJSON   bool
		listPinned bool
		folderRef  string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the command tree",
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			store := s.Store()

			if listPinned {
				pinned := store.Pinned()
				if listJSON {
					return printJSON(pinned)
				}
				return writePinned(os.Stdout, pinned)
			}

			roots := store.Roots()
			if folderRef != "" {
				folder, err := resolveFolder(store, folderRef)
				if err != nil {
					return err
				}
				roots = folder.Children
			}

			if listJSON {
				return printJSON(roots)
			}
			printTree(roots, 0)
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&listPinned, "pinned", false, "list only pinned commands")
	cmd.Flags().StringVarP(&folderRef, "folder", "f", "", "list only one folder's subtree")
	return cmd
}

// writePinned prints the quick-access table. Bodies go through DisplayCmd
// so a masked command never leaks from a casual listing.
func writePinned(w io.Writer, pinned []*models.Node) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range pinned {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.Name, n.DisplayCmd())
	}
	return tw.Flush()
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printTree(nodes []*models.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.IsFolder() {
			badge := ""
			if count := tree.CountCommands(n); count > 0 {
				badge = fmt.Sprintf(" (%d)", count)
			}
			fmt.Printf("%s%s/%s\n", indent, n.Name, badge)
			printTree(n.Children, depth+1)
			continue
		}
		pin := ""
		if n.Pinned {
			pin = " *"
		}
		line := fmt.Sprintf("%s%s%s  %s", indent, n.Name, pin, n.DisplayCmd())
		if len(n.Tags) > 0 {
			line += "  [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}
