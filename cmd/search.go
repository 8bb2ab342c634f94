package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewSearchCmd creates the `search` subcommand.
func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		limit      int
		searchJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across commands",
		Long: `Search command names, bodies, descriptions, tags and folder paths.
Uses SQLite FTS5 when available, with a LIKE fallback otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			hits, err := s.Index().Search(args[0], limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if searchJSON {
				return printJSON(hits)
			}
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOMMAND\tFOLDER\tTAGS")
			for _, h := range hits {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Name, h.Cmd, h.Folder, h.Tags)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	cmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	return cmd
}
