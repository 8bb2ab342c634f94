package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// Syncer drives the backup protocol against a Provider: versioned uploads
// with pruning, best-effort auto-sync, and explicit restore.
type Syncer struct {
	provider Provider
	opts     Options
	log      *logrus.Logger
	now      func() time.Time
	inFlight atomic.Bool
}

// NewSyncer wires a provider and options together.
func NewSyncer(provider Provider, opts Options, log *logrus.Logger) *Syncer {
	if log == nil {
		log = logrus.New()
	}
	return &Syncer{
		provider: provider,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// MarshalForest serializes a forest for upload. Callers serialize before
// handing content to a background upload, so the live tree is only ever
// read on its own goroutine.
func MarshalForest(forest []*models.Node) (string, error) {
	data, err := json.MarshalIndent(forest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize forest: %w", err)
	}
	return string(data), nil
}

// Upload writes pre-serialized content to the remote as both the latest
// pointer and a fresh timestamped version, then prunes old versions. When
// the cached container id turns out to be gone remotely (404), the id is
// dropped and the upload retried once as a creation; a second failure is
// terminal. The returned id must be cached by the caller for future
// uploads.
func (s *Syncer) Upload(ctx context.Context, containerID, content string) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return containerID, ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	files := map[string]string{
		LatestFile:           content,
		VersionName(s.now()): content,
	}

	id, err := s.provider.Upload(ctx, containerID, files)
	if errors.Is(err, ErrNotFound) && containerID != "" {
		s.log.Warnf("cached backup container is gone, creating a new one")
		id, err = s.provider.Upload(ctx, "", files)
	}
	if err != nil {
		return containerID, err
	}

	if pruneErr := s.prune(ctx, id); pruneErr != nil {
		// Stale extra backups are acceptable; pruning never fails an upload.
		s.log.Warnf("prune old backups: %v", pruneErr)
	}
	return id, nil
}

// prune deletes the oldest versioned files beyond MaxVersions. The latest
// pointer is never touched.
func (s *Syncer) prune(ctx context.Context, containerID string) error {
	files, err := s.provider.List(ctx, containerID)
	if err != nil {
		return err
	}
	var versions []string
	for _, f := range files {
		if IsVersionName(f.Name) {
			versions = append(versions, f.Name)
		}
	}
	if len(versions) <= s.opts.MaxVersions {
		return nil
	}
	sort.Strings(versions)
	excess := versions[:len(versions)-s.opts.MaxVersions]
	return s.provider.Delete(ctx, containerID, excess)
}

// AutoSync keeps the cloud copy warm after a local save: it re-uploads only
// the latest pointer, creating no version and pruning nothing. Without a
// cached container id it is a no-op; the first sync must be explicit.
// Content is pre-serialized so AutoSync never reads the live tree.
func (s *Syncer) AutoSync(ctx context.Context, containerID, content string) error {
	if containerID == "" {
		return nil
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	_, err := s.provider.Upload(ctx, containerID, map[string]string{LatestFile: content})
	return err
}

// Versions lists restorable files, newest first, with the latest pointer
// always pinned to the front. When no container id is cached, the remote is
// searched for one first.
func (s *Syncer) Versions(ctx context.Context, containerID string) (string, []BackupFile, error) {
	id := containerID
	if id == "" {
		located, err := s.provider.Locate(ctx)
		if err != nil {
			return "", nil, err
		}
		id = located
	}
	files, err := s.provider.List(ctx, id)
	if err != nil {
		return "", nil, err
	}
	var latest *BackupFile
	var versions []BackupFile
	for _, f := range files {
		switch {
		case f.Name == LatestFile:
			cp := f
			latest = &cp
		case IsVersionName(f.Name):
			versions = append(versions, f)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Name > versions[j].Name })
	var out []BackupFile
	if latest != nil {
		out = append(out, *latest)
	}
	out = append(out, versions...)
	if len(out) == 0 {
		return id, nil, fmt.Errorf("no backups found in remote container")
	}
	return id, out, nil
}

// Restore fetches one backup file and returns the sanitized forest it
// holds. The caller decides when to overwrite local state with it.
func (s *Syncer) Restore(ctx context.Context, containerID, name string) ([]*models.Node, error) {
	data, err := s.provider.Fetch(ctx, containerID, name)
	if err != nil {
		return nil, err
	}
	var forest []*models.Node
	if err := json.Unmarshal(data, &forest); err != nil {
		return nil, fmt.Errorf("malformed remote backup %s: %w", name, err)
	}
	return models.Sanitize(forest), nil
}
