// Package storage persists the vault document to disk as a single JSON
// file. Writes go through a temp file plus rename, so a racing save can lose
// but never tear.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cmdvault/cmdvault/pkg/models"
)

const vaultFile = "vault.json"

// Vault is the local key-value document store for the whole app state.
type Vault struct {
	dataDir string
}

// New ensures the data directory exists and returns a vault handle.
func New(dataDir string) (*Vault, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Vault{dataDir: dataDir}, nil
}

// Path returns the vault file location.
func (v *Vault) Path() string {
	return filepath.Join(v.dataDir, vaultFile)
}

// Load reads the state document. A missing file yields the first-run state
// with the seed folder; a present one is sanitized so ids, names and chain
// consistency hold regardless of what wrote it.
func (v *Vault) Load() (*models.VaultState, error) {
	data, err := os.ReadFile(v.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewVaultState(), nil
		}
		return nil, fmt.Errorf("read vault: %w", err)
	}

	var state models.VaultState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse vault: %w", err)
	}
	state.Tree = models.Sanitize(state.Tree)
	if len(state.Tree) == 0 {
		state.Tree = models.DefaultForest()
	}
	if state.History == nil {
		state.History = []models.HistoryEntry{}
	}
	if len(state.History) > models.MaxHistory {
		state.History = state.History[:models.MaxHistory]
	}
	return &state, nil
}

// Save writes the state document atomically.
func (v *Vault) Save(state *models.VaultState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize vault: %w", err)
	}
	tmp, err := os.CreateTemp(v.dataDir, vaultFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}
	if err := os.Rename(tmpName, v.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write vault: %w", err)
	}
	return nil
}
