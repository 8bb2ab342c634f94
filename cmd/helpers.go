package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// resolveNode finds a node by id, falling back to the first case-insensitive
// name match in document order so commands can be addressed the way users
// think of them.
func resolveNode(store *tree.Store, ref string) (*models.Node, error) {
	if n := store.Find(ref); n != nil {
		return n, nil
	}
	lowered := strings.ToLower(ref)
	for _, row := range store.Visible(tree.ParseQuery("")) {
		if strings.ToLower(row.Node.Name) == lowered {
			return row.Node, nil
		}
	}
	return nil, fmt.Errorf("no folder or command matches %q", ref)
}

// resolveFolder is resolveNode restricted to folders.
func resolveFolder(store *tree.Store, ref string) (*models.Node, error) {
	n, err := resolveNode(store, ref)
	if err != nil {
		return nil, err
	}
	if !n.IsFolder() {
		return nil, fmt.Errorf("%q is a command, not a folder", n.Name)
	}
	return n, nil
}

// confirm prompts on stdin. Used before destructive operations so the user
// sees the scope of what is about to happen.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// deleteScope describes what a delete will take with it.
func deleteScope(n *models.Node) string {
	if !n.IsFolder() {
		return fmt.Sprintf("command %q", n.Name)
	}
	return fmt.Sprintf("folder %q (%d commands, %d folders)",
		n.Name, tree.CountCommands(n), tree.CountFolders(n))
}

// parseVarFlags turns repeated --var name=value flags into a map.
func parseVarFlags(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q (want name=value)", pair)
		}
		values[name] = value
	}
	return values, nil
}
