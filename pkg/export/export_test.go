package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/pkg/models"
)

func sampleForest() []*models.Node {
	cmd := models.NewCommand("deploy", "make deploy")
	cmd.Tags = []string{"ci"}
	folder := models.NewFolder("work")
	folder.Children = []*models.Node{cmd}
	return []*models.Node{folder}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json": FormatJSON,
		"":     FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
		"YAML": FormatYAML,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "cmdvault_backup_2026-08-29.json", FileName(ts, FormatJSON))
	assert.Equal(t, "cmdvault_backup_2026-08-29.yaml", FileName(ts, FormatYAML))
}

func TestFolderFileName(t *testing.T) {
	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "cmdvault_backup_My-Commands_2026-08-29.json",
		FolderFileName("My Commands", ts, FormatJSON))
	assert.Equal(t, "cmdvault_backup_folder_2026-08-29.yaml",
		FolderFileName("///", ts, FormatYAML))
}

func TestMarshalFolder(t *testing.T) {
	forest := sampleForest()
	data, err := MarshalFolder(forest[0], FormatJSON)
	require.NoError(t, err)

	// The document is the folder's children, so it re-imports like a full
	// export.
	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "deploy", back[0].Name)

	_, err = MarshalFolder(forest[0].Children[0], FormatJSON)
	assert.Error(t, err, "commands have no folder-scoped export")
}

func TestRoundTripJSON(t *testing.T) {
	forest := sampleForest()
	data, err := Marshal(forest, FormatJSON)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, forest[0].ID, back[0].ID)
	assert.Equal(t, "make deploy", back[0].Children[0].Cmd)
	assert.Equal(t, []string{"ci"}, back[0].Children[0].Tags)
}

func TestRoundTripYAML(t *testing.T) {
	forest := sampleForest()
	data, err := Marshal(forest, FormatYAML)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, models.KindFolder, back[0].Kind)
	assert.Equal(t, "deploy", back[0].Children[0].Name)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("::: not a document :::"))
	assert.Error(t, err)
}

func TestImportReplacePreservesUniqueIDs(t *testing.T) {
	data := []byte(`[
		{"id":"keep-1","name":"a","type":"command","cmd":"a"},
		{"id":"keep-1","name":"b","type":"command","cmd":"b"},
		{"name":"c","type":"command","cmd":"c"}
	]`)
	forest, err := ImportReplace(data)
	require.NoError(t, err)
	require.Len(t, forest, 3)

	assert.Equal(t, "keep-1", forest[0].ID, "unique file ids survive a replace")
	assert.NotEqual(t, "keep-1", forest[1].ID, "duplicate ids get fresh ones")
	assert.NotEmpty(t, forest[2].ID)
}

func TestImportMergeWrapsAndReassigns(t *testing.T) {
	data := []byte(`[{"id":"orig","name":"x","type":"command","cmd":"x"}]`)

	folder, err := ImportMerge(data, "/tmp/team-commands.json")
	require.NoError(t, err)
	assert.Equal(t, "team-commands", folder.Name)
	assert.True(t, folder.IsFolder())
	require.Len(t, folder.Children, 1)
	assert.NotEqual(t, "orig", folder.Children[0].ID,
		"merge must mint fresh ids so the same file can be merged twice")

	// Merging again never collides.
	again, err := ImportMerge(data, "/tmp/team-commands.json")
	require.NoError(t, err)
	assert.NotEqual(t, folder.Children[0].ID, again.Children[0].ID)
}

func TestImportSanitizes(t *testing.T) {
	data := []byte(`[{"name":"f","children":[{"cmd":"ls","tags":[" FS ","fs"]}]}]`)
	forest, err := ImportReplace(data)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.True(t, forest[0].IsFolder())
	assert.Equal(t, []string{"fs"}, forest[0].Children[0].Tags)
}
