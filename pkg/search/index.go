// Package search maintains a sqlite full-text index over the vault's
// commands for deep search from the CLI. The in-panel filter grammar lives
// in pkg/tree; this index is for ranked full-text lookups across bodies and
// descriptions.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// Index manages the command search index.
type Index struct {
	db     *sql.DB
	useFTS bool
}

// Hit is one search result.
type Hit struct {
	ID          string
	Name        string
	Cmd         string
	Description string
	Folder      string // slash-joined ancestor folder names
	Tags        string
}

// NewIndex opens (or creates) the index database.
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	metaSchema := `
	CREATE TABLE IF NOT EXISTS commands_meta (
		id TEXT PRIMARY KEY,
		name TEXT,
		cmd TEXT,
		description TEXT,
		folder TEXT,
		tags TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_commands_meta_name ON commands_meta(name);
	CREATE INDEX IF NOT EXISTS idx_commands_meta_folder ON commands_meta(folder);
	`
	if _, err := idx.db.Exec(metaSchema); err != nil {
		return err
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS commands_fts USING fts5(
			id UNINDEXED,
			name,
			cmd,
			description,
			folder,
			tags,
			tokenize = 'unicode61'
		);
		`
		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// FTS unavailable in this build; LIKE fallback still works.
			idx.useFTS = false
		}
	}
	return nil
}

func (idx *Index) checkFTS5Support() bool {
	if _, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)"); err != nil {
		return false
	}
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// Rebuild replaces the whole index with the current forest. The vault is
// small enough that a full rebuild after each save is cheaper than diffing.
func (idx *Index) Rebuild(forest []*models.Node) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM commands_meta"); err != nil {
		return err
	}
	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM commands_fts"); err != nil {
			return err
		}
	}

	var walk func(nodes []*models.Node, path []string) error
	walk = func(nodes []*models.Node, path []string) error {
		for _, n := range nodes {
			if n.IsFolder() {
				if err := walk(n.Children, append(path, n.Name)); err != nil {
					return err
				}
				continue
			}
			// Masked commands keep their bodies out of the index.
			cmd := n.Cmd
			if n.IsMasked() {
				cmd = ""
			}
			folder := strings.Join(path, "/")
			tags := strings.Join(n.Tags, " ")
			if _, err := tx.Exec(`
				INSERT INTO commands_meta (id, name, cmd, description, folder, tags)
				VALUES (?, ?, ?, ?, ?, ?)
			`, n.ID, n.Name, cmd, n.Description, folder, tags); err != nil {
				return err
			}
			if idx.useFTS {
				if _, err := tx.Exec(`
					INSERT INTO commands_fts (id, name, cmd, description, folder, tags)
					VALUES (?, ?, ?, ?, ?, ?)
				`, n.ID, n.Name, cmd, n.Description, folder, tags); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(forest, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// Search performs a full-text query, ranked when FTS5 is available.
func (idx *Index) Search(query string, limit int) ([]*Hit, error) {
	if limit <= 0 {
		limit = 50
	}
	if idx.useFTS {
		return idx.searchWithFTS(query, limit)
	}
	return idx.searchWithoutFTS(query, limit)
}

func (idx *Index) searchWithFTS(query string, limit int) ([]*Hit, error) {
	rows, err := idx.db.Query(`
		SELECT id, name, cmd, description, folder, tags
		FROM commands_fts
		WHERE commands_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHits(rows)
}

// ftsQuery turns free-form user input into a safe FTS5 match expression.
// Each whitespace-separated term becomes a quoted phrase, so punctuation
// like the hyphen in "ping-host" never reaches the FTS query parser.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func (idx *Index) searchWithoutFTS(query string, limit int) ([]*Hit, error) {
	pattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	rows, err := idx.db.Query(`
		SELECT id, name, cmd, description, folder, tags
		FROM commands_meta
		WHERE name LIKE ? OR cmd LIKE ? OR description LIKE ? OR tags LIKE ?
		ORDER BY name
		LIMIT ?
	`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHits(rows)
}

func scanHits(rows *sql.Rows) ([]*Hit, error) {
	var hits []*Hit
	for rows.Next() {
		h := &Hit{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Cmd, &h.Description, &h.Folder, &h.Tags); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan search results: %w", err)
	}
	return hits, nil
}

// Close closes the index database.
func (idx *Index) Close() error {
	return idx.db.Close()
}
