// Package service is the application state owner: it loads the vault, wires
// the tree store, mutation log, search index and syncer together, and
// exposes the operations the CLI and panel drive. Every destructive
// operation snapshots the forest before touching it and persists after.
package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cmdvault/cmdvault/pkg/history"
	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/search"
	"github.com/cmdvault/cmdvault/pkg/storage"
	"github.com/cmdvault/cmdvault/pkg/sync"
	"github.com/cmdvault/cmdvault/pkg/sync/gist"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// Config holds service configuration resolved from viper.
type Config struct {
	DataDir string
	// GHToken overrides the token stored in the vault when set.
	GHToken string
	Sync    sync.Options
}

// Service owns the vault state for the life of the process.
type Service struct {
	cfg    *Config
	vault  *storage.Vault
	state  *models.VaultState
	store  *tree.Store
	log    *history.Log
	index  *search.Index
	logger *logrus.Logger
}

// New loads the vault and opens the search index.
func New(cfg *Config, logger *logrus.Logger) (*Service, error) {
	if logger == nil {
		logger = logrus.New()
	}
	vault, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	state, err := vault.Load()
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}
	index, err := search.NewIndex(filepath.Join(cfg.DataDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Service{
		cfg:    cfg,
		vault:  vault,
		state:  state,
		store:  tree.New(state.Tree),
		log:    history.NewLog(),
		index:  index,
		logger: logger,
	}, nil
}

// Close releases the search index.
func (s *Service) Close() error {
	return s.index.Close()
}

// Store exposes the node store. Callers mutate through it, then Save.
func (s *Service) Store() *tree.Store { return s.store }

// State exposes the vault document.
func (s *Service) State() *models.VaultState { return s.state }

// Log exposes the undo/redo mutation log.
func (s *Service) Log() *history.Log { return s.log }

// Index exposes the full-text command index.
func (s *Service) Index() *search.Index { return s.index }

// Logger exposes the service logger.
func (s *Service) Logger() *logrus.Logger { return s.logger }

// Token returns the effective sync token: config override, else the one
// stored in the vault.
func (s *Service) Token() string {
	if s.cfg.GHToken != "" {
		return s.cfg.GHToken
	}
	return s.state.GHToken
}

// Syncer builds a syncer for the configured remote, or an error when no
// token is available.
func (s *Service) Syncer() (*sync.Syncer, error) {
	token := s.Token()
	if token == "" {
		return nil, fmt.Errorf("no sync token configured; save one with 'cmdvault sync token'")
	}
	provider := gist.NewProvider(token, s.cfg.Sync.Description)
	return sync.NewSyncer(provider, s.cfg.Sync, s.logger), nil
}

// Save persists the vault and refreshes the search index. Index failures are
// logged, not escalated; the vault write is the one that matters.
func (s *Service) Save() error {
	s.state.Tree = s.store.Roots()
	if err := s.vault.Save(s.state); err != nil {
		return err
	}
	if err := s.index.Rebuild(s.state.Tree); err != nil {
		s.logger.Warnf("rebuild search index: %v", err)
	}
	return nil
}

// MirrorWork prepares a latest-pointer auto-sync as a closure safe to run
// on another goroutine: the forest is serialized and the container id read
// here, on the caller's goroutine, so the background upload never touches
// live state. A nil closure means there is nothing to mirror — the first
// upload has to be explicit so a fresh install never creates a gist by
// accident.
func (s *Service) MirrorWork() (func(ctx context.Context) error, error) {
	if s.Token() == "" || s.state.RemoteContainerID == "" {
		return nil, nil
	}
	syncer, err := s.Syncer()
	if err != nil {
		return nil, nil
	}
	id := s.state.RemoteContainerID
	content, err := sync.MarshalForest(s.store.Roots())
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return syncer.AutoSync(ctx, id, content)
	}, nil
}

// Mirror runs MirrorWork synchronously.
func (s *Service) Mirror(ctx context.Context) error {
	work, err := s.MirrorWork()
	if err != nil {
		return err
	}
	if work == nil {
		return nil
	}
	return work(ctx)
}

// SaveAndMirror persists locally, then best-effort auto-syncs. Remote
// failures are logged only; the local save already succeeded.
func (s *Service) SaveAndMirror(ctx context.Context) error {
	if err := s.Save(); err != nil {
		return err
	}
	if err := s.Mirror(ctx); err != nil {
		s.logger.Warnf("auto-sync: %v", err)
	}
	return nil
}

// Snapshot records the pre-mutation state under a label. Call before any
// destructive operation.
func (s *Service) Snapshot(label string) {
	if err := s.log.PushUndo(label, s.store.Roots()); err != nil {
		s.logger.Warnf("snapshot %q: %v", label, err)
	}
}

// Undo restores the previous snapshot and persists locally. Returns the
// label of the action undone; mirroring is the caller's business so the UI
// can do it off the hot path.
func (s *Service) Undo() (string, error) {
	forest, label, err := s.log.Undo(s.store.Roots())
	if err != nil {
		return "", err
	}
	s.store.SetRoots(forest)
	return label, s.Save()
}

// Redo re-applies the most recently undone action and persists locally.
func (s *Service) Redo() (string, error) {
	forest, label, err := s.log.Redo(s.store.Roots())
	if err != nil {
		return "", err
	}
	s.store.SetRoots(forest)
	return label, s.Save()
}

// RecordCopy pushes a copied command onto the history list and persists.
func (s *Service) RecordCopy(ctx context.Context, name, cmd string) error {
	s.state.History = models.PushHistory(s.state.History, models.HistoryEntry{Cmd: cmd, Name: name})
	return s.SaveAndMirror(ctx)
}

// FactoryReset wipes the forest back to the seed folder and clears history.
func (s *Service) FactoryReset(ctx context.Context) error {
	s.Snapshot("Factory reset")
	s.store.SetRoots(models.DefaultForest())
	s.state.History = []models.HistoryEntry{}
	return s.SaveAndMirror(ctx)
}
