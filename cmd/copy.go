package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/service"
)

// NewCopyCmd creates the `copy` subcommand.
func NewCopyCmd(svc **service.Service) *cobra.Command {
	var varFlags []string

	cmd := &cobra.Command{
		Use:     "copy <id|name>",
		Short:   "Print a command's body and record it in history",
		Aliases: []string{"cp"},
		Long: `Resolve a command, substitute any {{variable}} placeholders, print the
final text to stdout and push it onto the copy history. Pipe the output to
your clipboard tool of choice (pbcopy, wl-copy, xclip).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			n, err := resolveNode(s.Store(), args[0])
			if err != nil {
				return err
			}
			if n.IsFolder() {
				return fmt.Errorf("%q is a folder, not a command", n.Name)
			}

			values, err := parseVarFlags(varFlags)
			if err != nil {
				return err
			}
			body := n.Cmd
			if missing := missingVars(body, values); len(missing) > 0 {
				if err := promptVars(missing, values); err != nil {
					return err
				}
			}
			body = models.SubstituteVars(body, values)

			fmt.Println(body)
			return s.RecordCopy(context.Background(), n.Name, body)
		},
	}

	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "fill a {{variable}} placeholder (name=value, repeatable)")
	return cmd
}

func missingVars(cmd string, values map[string]string) []string {
	var missing []string
	for _, name := range models.ExtractVars(cmd) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// promptVars asks for each unfilled placeholder on stderr so the final
// command stays the only thing on stdout.
func promptVars(names []string, values map[string]string) error {
	reader := bufio.NewReader(os.Stdin)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "%s: ", name)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read value for %q: %w", name, err)
		}
		values[name] = strings.TrimRight(line, "\r\n")
	}
	return nil
}
