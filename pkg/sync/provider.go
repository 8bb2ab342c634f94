// Package sync mirrors the vault to a remote versioned backup store and
// restores from it. The local forest is the source of truth; a failed remote
// operation never corrupts it.
package sync

import (
	"context"
	"errors"
	"regexp"
	"time"
)

// LatestFile is the fixed well-known filename that always holds the newest
// full forest dump, distinct from the timestamped immutable versions.
const LatestFile = "cmdvault_latest.json"

// versionLayout names timestamped snapshots. Fixed-width zero-padded, so
// lexicographic order equals chronological order.
const versionLayout = "2006-01-02_15-04"

var versionPattern = regexp.MustCompile(`^backup_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}\.json$`)

// VersionName returns the versioned filename for a snapshot taken at t.
func VersionName(t time.Time) string {
	return "backup_" + t.Format(versionLayout) + ".json"
}

// IsVersionName reports whether name matches the versioned backup pattern.
func IsVersionName(name string) bool {
	return versionPattern.MatchString(name)
}

// Sentinel errors the retry policy keys on.
var (
	// ErrNotFound means the cached container id no longer resolves remotely.
	ErrNotFound = errors.New("remote container not found")
	// ErrRateLimited means the remote refused the request for now; the
	// attempt is terminal and never retried in a loop.
	ErrRateLimited = errors.New("remote rate limit reached, try again later")
	// ErrSyncInProgress means another upload holds the single-flight guard.
	ErrSyncInProgress = errors.New("a sync is already in progress")
)

// BackupFile describes one file within the remote container.
type BackupFile struct {
	Name string
	Size int
}

// Provider is a token-authenticated remote container of named files, e.g. a
// Gist. Implementations translate transport failures into the sentinel
// errors above where the retry policy depends on them.
type Provider interface {
	// Name identifies the provider ("gist").
	Name() string
	// Upload writes files into the container, creating it when containerID
	// is empty, and returns the container id.
	Upload(ctx context.Context, containerID string, files map[string]string) (string, error)
	// List enumerates the container's files.
	List(ctx context.Context, containerID string) ([]BackupFile, error)
	// Fetch returns a file's contents.
	Fetch(ctx context.Context, containerID, name string) ([]byte, error)
	// Delete removes named files from the container.
	Delete(ctx context.Context, containerID string, names []string) error
	// Locate searches the remote account for an existing backup container
	// (one holding LatestFile) and returns its id, or ErrNotFound.
	Locate(ctx context.Context) (string, error)
}
