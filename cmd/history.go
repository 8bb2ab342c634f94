package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewHistoryCmd creates the `history` subcommand.
func NewHistoryCmd(svc **service.Service) *cobra.Command {
	var (
		histJSON bool
		clear    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently copied commands",
		Long: fmt.Sprintf(`Show the copy history, most recent first. The list holds the last %d
distinct commands; copying a command already present moves it to the top.`,
			models.MaxHistory),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if clear {
				s.State().History = []models.HistoryEntry{}
				if err := s.SaveAndMirror(context.Background()); err != nil {
					return err
				}
				fmt.Println("History cleared.")
				return nil
			}

			entries := s.State().History
			if histJSON {
				return printJSON(entries)
			}
			if len(entries) == 0 {
				fmt.Println("No history yet.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for i, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, e.Name, e.Cmd)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&histJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the history")
	return cmd
}
