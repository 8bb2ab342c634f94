// Package export moves forests in and out of the vault as files: dated
// backups, folder-scoped exports, and the two import modes (replace and
// merge).
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// Format selects the on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const filePrefix = "cmdvault_backup"

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (json or yaml)", s)
	}
}

// FileName returns the dated default export filename.
func FileName(t time.Time, format Format) string {
	return fmt.Sprintf("%s_%s.%s", filePrefix, t.Format("2006-01-02"), format)
}

// FolderFileName returns the dated default filename for a single-folder
// export, carrying a slug of the folder's name.
func FolderFileName(name string, t time.Time, format Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, strings.TrimSpace(name))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "folder"
	}
	return fmt.Sprintf("%s_%s_%s.%s", filePrefix, slug, t.Format("2006-01-02"), format)
}

// Marshal encodes a forest for export. JSON is pretty-printed.
func Marshal(forest []*models.Node, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(forest)
	default:
		return json.MarshalIndent(forest, "", "  ")
	}
}

// MarshalFolder encodes a single folder's contents for export. The document
// is the children array, so a folder-scoped file imports exactly like a
// full one.
func MarshalFolder(folder *models.Node, format Format) ([]byte, error) {
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%q is not a folder", folder.Name)
	}
	return Marshal(folder.Children, format)
}

// Unmarshal decodes an exported document in either format. The input must
// be an array of nodes.
func Unmarshal(data []byte) ([]*models.Node, error) {
	var forest []*models.Node
	if err := json.Unmarshal(data, &forest); err == nil {
		return forest, nil
	}
	if err := yaml.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("invalid import document (expected a JSON or YAML array of nodes): %w", err)
	}
	return forest, nil
}

// ImportReplace sanitizes an imported document into a forest that replaces
// local state wholesale. Ids present in the file are preserved where unique;
// duplicates and gaps get fresh ones in Sanitize, so the unique-id
// invariant holds even for hand-edited files.
func ImportReplace(data []byte) ([]*models.Node, error) {
	forest, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return models.Sanitize(forest), nil
}

// ImportMerge sanitizes an imported document and wraps it in a new folder
// named after the source file, preserving existing data. Every imported
// node gets a fresh id since the same file may be merged twice.
func ImportMerge(data []byte, sourcePath string) (*models.Node, error) {
	forest, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	forest = models.Sanitize(forest)
	reassignIDs(forest)

	name := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	if name == "" {
		name = "Imported"
	}
	folder := models.NewFolder(name)
	folder.Children = forest
	return folder, nil
}

func reassignIDs(nodes []*models.Node) {
	for _, n := range nodes {
		n.ID = models.NewID()
		reassignIDs(n.Children)
	}
}
