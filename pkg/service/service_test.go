package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/pkg/history"
	"github.com/cmdvault/cmdvault/pkg/models"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	s, err := New(&Config{DataDir: dir}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSavePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s := newTestService(t, dir)

	n := models.NewCommand("deploy", "make deploy")
	require.NoError(t, s.Store().Add("", n))
	require.NoError(t, s.Save())
	require.NoError(t, s.Close())

	s2 := newTestService(t, dir)
	got := s2.Store().Find(n.ID)
	require.NotNil(t, got)
	assert.Equal(t, "deploy", got.Name)
	assert.Equal(t, "make deploy", got.Cmd)
}

func TestSnapshotUndoRedo(t *testing.T) {
	s := newTestService(t, t.TempDir())

	n := models.NewCommand("ping", "ping host")
	require.NoError(t, s.Store().Add("", n))
	require.NoError(t, s.Save())

	s.Snapshot("Delete: ping")
	s.Store().Delete(n.ID)
	require.NoError(t, s.Save())
	assert.Nil(t, s.Store().Find(n.ID))

	label, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Delete: ping", label)
	assert.NotNil(t, s.Store().Find(n.ID))

	label, err = s.Redo()
	require.NoError(t, err)
	assert.Equal(t, "Delete: ping", label)
	assert.Nil(t, s.Store().Find(n.ID))
}

func TestUndoEmptyLog(t *testing.T) {
	s := newTestService(t, t.TempDir())

	_, err := s.Undo()
	assert.ErrorIs(t, err, history.ErrNothingToUndo)
	_, err = s.Redo()
	assert.ErrorIs(t, err, history.ErrNothingToRedo)
}

func TestRecordCopy(t *testing.T) {
	s := newTestService(t, t.TempDir())

	require.NoError(t, s.RecordCopy(context.Background(), "ping", "ping host"))
	require.NoError(t, s.RecordCopy(context.Background(), "ls", "ls -la"))

	require.Len(t, s.State().History, 2)
	assert.Equal(t, "ls -la", s.State().History[0].Cmd)
	assert.Equal(t, "ping host", s.State().History[1].Cmd)
}

func TestFactoryReset(t *testing.T) {
	s := newTestService(t, t.TempDir())

	require.NoError(t, s.Store().Add("", models.NewCommand("extra", "true")))
	require.NoError(t, s.RecordCopy(context.Background(), "extra", "true"))

	require.NoError(t, s.FactoryReset(context.Background()))

	assert.Empty(t, s.State().History)
	roots := s.Store().Roots()
	require.Len(t, roots, 1)
	assert.True(t, roots[0].IsFolder())

	// The reset itself is undoable.
	_, err := s.Undo()
	require.NoError(t, err)
	assert.Len(t, s.State().History, 0, "history clear is not part of the forest snapshot")
	assert.Greater(t, len(s.Store().Roots()), 1)
}

func TestTokenPrecedence(t *testing.T) {
	dir := t.TempDir()
	s := newTestService(t, dir)
	assert.Equal(t, "", s.Token())

	s.State().GHToken = "stored"
	assert.Equal(t, "stored", s.Token())

	s.cfg.GHToken = "override"
	assert.Equal(t, "override", s.Token())
}

func TestSyncerRequiresToken(t *testing.T) {
	s := newTestService(t, t.TempDir())

	_, err := s.Syncer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sync token")
}

func TestMirrorWorkSnapshotsBeforeBackground(t *testing.T) {
	s := newTestService(t, t.TempDir())

	work, err := s.MirrorWork()
	require.NoError(t, err)
	assert.Nil(t, work, "nothing to mirror without a token and cached id")

	s.State().GHToken = "tok"
	s.State().RemoteContainerID = "gist-1"
	work, err = s.MirrorWork()
	require.NoError(t, err)
	assert.NotNil(t, work, "a token plus cached id yields runnable mirror work")
}

func TestMirrorNoOpWithoutRemote(t *testing.T) {
	s := newTestService(t, t.TempDir())

	// No token, no cached container id: nothing to do, no error.
	require.NoError(t, s.Mirror(context.Background()))

	s.State().GHToken = "tok"
	s.State().RemoteContainerID = ""
	require.NoError(t, s.Mirror(context.Background()))
}
