package panel

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/sync"
)

type mirrorDoneMsg struct{ err error }

type backupDoneMsg struct {
	id  string
	err error
}

type clearStatusMsg struct{}

// mirrorCmd pushes the latest pointer to the remote off the Update loop.
// MirrorWork serializes the forest here, on the Update goroutine; only the
// network call runs in the background.
func mirrorCmd(svc *service.Service) tea.Cmd {
	work, err := svc.MirrorWork()
	if err != nil {
		return func() tea.Msg { return mirrorDoneMsg{err: err} }
	}
	if work == nil {
		return nil
	}
	return func() tea.Msg {
		return mirrorDoneMsg{err: work(context.Background())}
	}
}

// backupCmd runs a full versioned upload. The forest is serialized before
// the command is handed to the runtime, for the same reason as mirrorCmd.
func backupCmd(svc *service.Service) tea.Cmd {
	syncer, err := svc.Syncer()
	if err != nil {
		return func() tea.Msg { return backupDoneMsg{err: err} }
	}
	id := svc.State().RemoteContainerID
	content, err := sync.MarshalForest(svc.Store().Roots())
	if err != nil {
		return func() tea.Msg { return backupDoneMsg{err: err} }
	}
	return func() tea.Msg {
		newID, err := syncer.Upload(context.Background(), id, content)
		return backupDoneMsg{id: newID, err: err}
	}
}

// clearStatusCmd expires a transient status message.
func clearStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
