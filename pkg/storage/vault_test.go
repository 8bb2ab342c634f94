package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/pkg/models"
)

func TestLoadFirstRun(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	state, err := v.Load()
	require.NoError(t, err)
	require.Len(t, state.Tree, 1)
	assert.Equal(t, "My Commands", state.Tree[0].Name)
	assert.NotNil(t, state.History)
	assert.Empty(t, state.History)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	v, err := New(t.TempDir())
	require.NoError(t, err)

	state := models.NewVaultState()
	cmd := models.NewCommand("uptime", "uptime -p")
	cmd.Tags = []string{"sys"}
	cmd.Pinned = true
	state.Tree[0].Children = append(state.Tree[0].Children, cmd)
	state.History = models.PushHistory(nil, models.HistoryEntry{Cmd: "uptime -p", Name: "uptime"})
	state.GHToken = "tok"
	state.RemoteContainerID = "gist-1"
	state.Username = "sam"

	require.NoError(t, v.Save(state))

	loaded, err := v.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Tree, 1)
	got := loaded.Tree[0].Children[0]
	assert.Equal(t, cmd.ID, got.ID)
	assert.Equal(t, "uptime -p", got.Cmd)
	assert.True(t, got.Pinned)
	assert.Equal(t, []string{"sys"}, got.Tags)
	assert.Equal(t, "tok", loaded.GHToken)
	assert.Equal(t, "gist-1", loaded.RemoteContainerID)
	assert.Equal(t, "sam", loaded.Username)
	require.Len(t, loaded.History, 1)
}

func TestStorageKeysMatchLegacyLayout(t *testing.T) {
	// The on-disk keys are load-bearing: an exported vault must restore
	// across installs.
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	state := models.NewVaultState()
	state.QACollapsed = true
	state.RemoteContainerID = "g"
	require.NoError(t, v.Save(state))

	raw, err := os.ReadFile(filepath.Join(dir, "vault.json"))
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))

	for _, key := range []string{"tree", "history", "qaCollapsed", "historyCollapsed", "commandsCollapsed", "remoteContainerId"} {
		assert.Contains(t, doc, key)
	}
}

func TestLoadSanitizesForeignDocument(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	// A hand-edited vault: missing ids, missing kinds, oversized history.
	doc := map[string]interface{}{
		"tree": []map[string]interface{}{
			{"name": "stuff", "children": []map[string]interface{}{
				{"cmd": "ls"},
			}},
		},
		"history": make([]map[string]string, 0, 15),
	}
	hist := doc["history"].([]map[string]string)
	for i := 0; i < 15; i++ {
		hist = append(hist, map[string]string{"cmd": "c", "name": "n"})
	}
	doc["history"] = hist
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vault.json"), data, 0o644))

	state, err := v.Load()
	require.NoError(t, err)
	require.Len(t, state.Tree, 1)
	assert.True(t, state.Tree[0].IsFolder())
	assert.NotEmpty(t, state.Tree[0].ID)
	assert.Equal(t, models.KindCommand, state.Tree[0].Children[0].Kind)
	assert.Len(t, state.History, models.MaxHistory)
}

func TestLoadDedupesNodeIDs(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)

	// A hand-edited vault with a copy-pasted node keeping the same id.
	doc := `{"tree": [
		{"id": "dup", "type": "command", "name": "a", "cmd": "ls"},
		{"id": "dup", "type": "command", "name": "b", "cmd": "pwd"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vault.json"), []byte(doc), 0o644))

	state, err := v.Load()
	require.NoError(t, err)
	require.Len(t, state.Tree, 2)
	assert.Equal(t, "dup", state.Tree[0].ID)
	assert.NotEqual(t, state.Tree[0].ID, state.Tree[1].ID)
	assert.NotEmpty(t, state.Tree[1].ID)
}

func TestLoadCorruptVaultErrors(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vault.json"), []byte("{broken"), 0o644))

	_, err = v.Load()
	assert.Error(t, err)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	v, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, v.Save(models.NewVaultState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vault.json", entries[0].Name())
}
