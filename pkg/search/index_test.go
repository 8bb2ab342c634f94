package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// indexFixture builds:
//
//	network/
//	  ping-host      (cmd, tags: net, diag)
//	  ssh-prod       (cmd, masked)
//	misc-note        (cmd)
func indexFixture() []*models.Node {
	ping := models.NewCommand("ping-host", "ping -c 4 example.com")
	ping.Tags = []string{"net", "diag"}
	ping.Description = "quick reachability check"

	ssh := models.NewCommand("ssh-prod", "ssh admin@prod-internal")
	ssh.Icon = models.IconMasked

	network := models.NewFolder("network")
	network.Children = []*models.Node{ping, ssh}

	note := models.NewCommand("misc-note", "cat todo.txt")
	return []*models.Node{network, note}
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestSearchByName(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	hits, err := idx.Search("ping", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ping-host", hits[0].Name)
	assert.Equal(t, "network", hits[0].Folder)
	assert.Equal(t, "net diag", hits[0].Tags)
}

func TestSearchByBodyAndDescription(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	hits, err := idx.Search("example", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ping-host", hits[0].Name)

	hits, err = idx.Search("reachability", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "ping-host", hits[0].Name)
}

func TestSearchByFolderName(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	hits, err := idx.Search("network", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestMaskedBodyNotIndexed(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	// The secret body must not be searchable, but the name still is.
	hits, err := idx.Search("prod-internal", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search("ssh-prod", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "", hits[0].Cmd)
}

func TestRebuildReplacesPriorContents(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	replacement := []*models.Node{models.NewCommand("solo", "uptime")}
	require.NoError(t, idx.Rebuild(replacement))

	hits, err := idx.Search("ping", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search("solo", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)
	forest := []*models.Node{
		models.NewCommand("deploy-web", "make deploy web"),
		models.NewCommand("deploy-api", "make deploy api"),
		models.NewCommand("deploy-db", "make deploy db"),
	}
	require.NoError(t, idx.Rebuild(forest))

	hits, err := idx.Search("deploy", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchNoMatch(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild(indexFixture()))

	hits, err := idx.Search("zzz-nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
