package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmdvault/cmdvault/pkg/drag"
	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampScroll()
		return m, nil

	case mirrorDoneMsg:
		if msg.err != nil {
			return m, m.setStatus("Auto-sync failed: "+msg.err.Error(), true)
		}
		return m, nil

	case backupDoneMsg:
		m.syncing = false
		if msg.err != nil {
			return m, m.setStatus("Backup failed: "+msg.err.Error(), true)
		}
		if msg.id != m.svc.State().RemoteContainerID {
			m.svc.State().RemoteContainerID = msg.id
			if err := m.svc.Save(); err != nil {
				return m, m.setStatus(err.Error(), true)
			}
		}
		return m, m.setStatus("Backed up to gist", false)

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeRename, modeNewFolder, modeNewCommandName, modeNewCommandBody, modeVarFill:
			return m.updateField(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// setStatus shows a transient footer message.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusMessage = text
	m.statusIsErr = isErr
	return clearStatusCmd()
}

// persist saves locally and schedules a remote mirror.
func (m *Model) persist() tea.Cmd {
	if err := m.svc.Save(); err != nil {
		return m.setStatus("Save failed: "+err.Error(), true)
	}
	return mirrorCmd(m.svc)
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The 'gg' go-to-top sequence.
	if m.lastKey == "g" {
		m.lastKey = ""
		if msg.String() == "g" {
			m.cursor = 0
			m.selectCursor()
			m.clampScroll()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.selectCursor()
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.selectCursor()
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.RangeUp):
		if m.cursor > 0 {
			m.cursor--
			m.sel.SelectRange(m.rows, m.rows[m.cursor].Node.ID)
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.RangeDown):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.sel.SelectRange(m.rows, m.rows[m.cursor].Node.ID)
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.viewportHeight()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.selectCursor()
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.viewportHeight()
		if m.cursor > len(m.rows)-1 {
			m.cursor = len(m.rows) - 1
		}
		m.selectCursor()
		m.clampScroll()
		return m, nil

	case key.Matches(msg, m.keys.GoToTop):
		m.lastKey = "g"
		return m, nil

	case key.Matches(msg, m.keys.GoToBottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.selectCursor()
			m.clampScroll()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleFold):
		if row := m.currentRow(); row != nil && row.Node.IsFolder() {
			row.Node.Collapsed = !row.Node.Collapsed
			m.refresh()
			return m, m.persist()
		}
		return m, nil

	case key.Matches(msg, m.keys.CollapseAll):
		for _, n := range m.svc.Store().Roots() {
			m.svc.Store().SetCollapsedRecursive(n.ID, true)
		}
		m.refresh()
		return m, m.persist()

	case key.Matches(msg, m.keys.ExpandAll):
		for _, n := range m.svc.Store().Roots() {
			m.svc.Store().SetCollapsedRecursive(n.ID, false)
		}
		m.refresh()
		return m, m.persist()

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Copy):
		return m.copyCurrent()

	case key.Matches(msg, m.keys.NewCommand):
		m.mode = modeNewCommandName
		m.newParentID = m.insertionParent()
		m.fieldInput.SetValue("")
		m.fieldInput.Placeholder = "Command name..."
		return m, m.fieldInput.Focus()

	case key.Matches(msg, m.keys.NewFolder):
		m.mode = modeNewFolder
		m.newParentID = m.insertionParent()
		m.fieldInput.SetValue("")
		m.fieldInput.Placeholder = "Folder name..."
		return m, m.fieldInput.Focus()

	case key.Matches(msg, m.keys.Rename):
		row := m.currentRow()
		if row == nil || m.sel.IsMulti() {
			return m, nil
		}
		m.mode = modeRename
		m.renameID = row.Node.ID
		m.fieldInput.SetValue(row.Node.Name)
		m.fieldInput.Placeholder = "New name..."
		return m, m.fieldInput.Focus()

	case key.Matches(msg, m.keys.Delete):
		return m.beginDelete()

	case key.Matches(msg, m.keys.Duplicate):
		row := m.currentRow()
		if row == nil {
			return m, nil
		}
		m.svc.Snapshot("Duplicate: " + row.Node.Name)
		dup, err := m.svc.Store().Duplicate(row.Node.ID)
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.refresh()
		m.sel.SelectSingle(dup.ID)
		m.cursor = tree.IndexOf(m.rows, dup.ID)
		return m, m.persist()

	case key.Matches(msg, m.keys.Pin):
		row := m.currentRow()
		if row == nil || row.Node.IsFolder() {
			return m, nil
		}
		if err := m.svc.Store().TogglePin(row.Node.ID); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, m.persist()

	case key.Matches(msg, m.keys.ToggleSelect):
		if row := m.currentRow(); row != nil {
			m.sel.Toggle(row.Node.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.sel.SelectAll(m.rows)
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		return m.keyboardMove(tree.Before)

	case key.Matches(msg, m.keys.MoveDown):
		return m.keyboardMove(tree.After)

	case key.Matches(msg, m.keys.MoveInto):
		return m.keyboardMoveInto()

	case key.Matches(msg, m.keys.Cut):
		ids := m.actionSet()
		if len(ids) == 0 {
			return m, nil
		}
		m.clipboard = ids
		m.cutMode = true
		return m, m.setStatus(fmt.Sprintf("Cut %d item(s)", len(ids)), false)

	case key.Matches(msg, m.keys.Paste):
		return m.paste()

	case key.Matches(msg, m.keys.Undo):
		label, err := m.svc.Undo()
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.sel.Clear()
		m.refresh()
		return m, tea.Batch(m.setStatus("Undid: "+label, false), mirrorCmd(m.svc))

	case key.Matches(msg, m.keys.Redo):
		label, err := m.svc.Redo()
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.sel.Clear()
		m.refresh()
		return m, tea.Batch(m.setStatus("Redid: "+label, false), mirrorCmd(m.svc))

	case key.Matches(msg, m.keys.Sync):
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, tea.Batch(m.setStatus("Backing up...", false), backupCmd(m.svc))
	}

	switch msg.String() {
	case "1":
		m.svc.State().QACollapsed = !m.svc.State().QACollapsed
		return m, m.persist()
	case "2":
		m.svc.State().CommandsCollapsed = !m.svc.State().CommandsCollapsed
		return m, m.persist()
	case "3":
		m.svc.State().HistoryCollapsed = !m.svc.State().HistoryCollapsed
		return m, m.persist()
	case "esc":
		if m.engine.Dragging() {
			m.engine.Cancel()
			m.hoverID = ""
			m.pressedID = ""
			return m, nil
		}
		if m.cutMode {
			m.clipboard = nil
			m.cutMode = false
			return m, nil
		}
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.refresh()
			return m, nil
		}
		m.sel.Clear()
		return m, nil
	}
	return m, nil
}

// selectCursor collapses the selection to the row under the cursor, the way
// plain arrow navigation behaves in a file manager.
func (m *Model) selectCursor() {
	if row := m.currentRow(); row != nil {
		m.sel.SelectSingle(row.Node.ID)
	}
}

// actionSet returns the ids an action applies to: the multi-selection when
// there is one, else the cursor row.
func (m *Model) actionSet() []string {
	if m.sel.Count() > 1 {
		ids := make([]string, 0, m.sel.Count())
		for id := range m.sel.IDs() {
			ids = append(ids, id)
		}
		return ids
	}
	if row := m.currentRow(); row != nil {
		return []string{row.Node.ID}
	}
	return nil
}

// insertionParent decides where a new node lands: inside the cursor folder,
// else beside the cursor command, else at root level.
func (m *Model) insertionParent() string {
	row := m.currentRow()
	if row == nil {
		return ""
	}
	if row.Node.IsFolder() {
		return row.Node.ID
	}
	return row.ParentID
}

func (m Model) copyCurrent() (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row == nil {
		return m, nil
	}
	if row.Node.IsFolder() {
		// Enter on a folder folds it instead.
		row.Node.Collapsed = !row.Node.Collapsed
		m.refresh()
		return m, m.persist()
	}
	if names := models.ExtractVars(row.Node.Cmd); len(names) > 0 {
		m.mode = modeVarFill
		m.varName = row.Node.Name
		m.varBody = row.Node.Cmd
		m.varNames = names
		m.varValues = make(map[string]string, len(names))
		m.varIndex = 0
		m.fieldInput.SetValue("")
		m.fieldInput.Placeholder = names[0]
		return m, m.fieldInput.Focus()
	}
	return m.finishCopy(row.Node.Name, row.Node.Cmd)
}

// finishCopy records the command in history and surfaces it in the status
// line so a terminal selection can grab it.
func (m Model) finishCopy(name, body string) (tea.Model, tea.Cmd) {
	m.svc.State().History = models.PushHistory(m.svc.State().History,
		models.HistoryEntry{Cmd: body, Name: name})
	return m, tea.Batch(m.setStatus("Copied: "+body, false), m.persist())
}

func (m Model) beginDelete() (tea.Model, tea.Cmd) {
	ids := m.actionSet()
	if len(ids) == 0 {
		return m, nil
	}
	m.pendingDelete = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m.pendingDelete[id] = struct{}{}
	}
	if len(ids) == 1 {
		if n := m.svc.Store().Find(ids[0]); n != nil {
			m.pendingLabel = "Delete: " + n.Name
		}
	} else {
		m.pendingLabel = fmt.Sprintf("Delete %d items", len(ids))
	}
	m.mode = modeConfirmDelete
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "y", "Y", "enter":
		m.svc.Snapshot(m.pendingLabel)
		m.svc.Store().DeleteMany(m.pendingDelete)
		count := len(m.pendingDelete)
		m.pendingDelete = nil
		m.sel.Clear()
		m.refresh()
		return m, tea.Batch(m.setStatus(fmt.Sprintf("Deleted %d item(s)", count), false), m.persist())
	}
	m.pendingDelete = nil
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.fieldInput.Blur()
		return m, nil
	case "enter":
		return m.commitField()
	}
	var cmd tea.Cmd
	m.fieldInput, cmd = m.fieldInput.Update(msg)
	return m, cmd
}

func (m Model) commitField() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.fieldInput.Value())

	switch m.mode {
	case modeRename:
		m.mode = modeNormal
		m.fieldInput.Blur()
		if value == "" {
			value = models.DefaultName
		}
		old := m.svc.Store().Find(m.renameID)
		if old == nil {
			return m, nil
		}
		m.svc.Snapshot("Rename: " + old.Name)
		old.Name = value
		m.refresh()
		return m, m.persist()

	case modeNewFolder:
		m.mode = modeNormal
		m.fieldInput.Blur()
		if value == "" {
			value = models.DefaultName
		}
		folder := models.NewFolder(value)
		m.svc.Snapshot("Add folder: " + value)
		if err := m.svc.Store().Add(m.newParentID, folder); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.refresh()
		m.sel.SelectSingle(folder.ID)
		if i := tree.IndexOf(m.rows, folder.ID); i >= 0 {
			m.cursor = i
		}
		return m, m.persist()

	case modeNewCommandName:
		if value == "" {
			value = models.DefaultName
		}
		m.newName = value
		m.mode = modeNewCommandBody
		m.fieldInput.SetValue("")
		m.fieldInput.Placeholder = "Command... ({{var}} allowed)"
		return m, nil

	case modeNewCommandBody:
		m.mode = modeNormal
		m.fieldInput.Blur()
		node := models.NewCommand(m.newName, value)
		m.svc.Snapshot("Add command: " + m.newName)
		if err := m.svc.Store().Add(m.newParentID, node); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.refresh()
		m.sel.SelectSingle(node.ID)
		if i := tree.IndexOf(m.rows, node.ID); i >= 0 {
			m.cursor = i
		}
		return m, m.persist()

	case modeVarFill:
		m.varValues[m.varNames[m.varIndex]] = m.fieldInput.Value()
		m.varIndex++
		if m.varIndex < len(m.varNames) {
			m.fieldInput.SetValue("")
			m.fieldInput.Placeholder = m.varNames[m.varIndex]
			return m, nil
		}
		m.mode = modeNormal
		m.fieldInput.Blur()
		return m.finishCopy(m.varName, models.SubstituteVars(m.varBody, m.varValues))
	}

	m.mode = modeNormal
	m.fieldInput.Blur()
	return m, nil
}

// keyboardMove nudges the selection before the previous visible row or
// after the next one.
func (m Model) keyboardMove(pos tree.Position) (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row == nil {
		return m, nil
	}
	var target *tree.Row
	if pos == tree.Before && m.cursor > 0 {
		target = &m.rows[m.cursor-1]
	} else if pos == tree.After && m.cursor < len(m.rows)-1 {
		target = &m.rows[m.cursor+1]
	}
	if target == nil {
		return m, nil
	}
	m.engine.Start(row.Node.ID, m.sel.IDs())
	label, err := m.engine.Drop(target.Node.ID, pos)
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	if label == "" {
		return m, nil
	}
	m.refresh()
	if i := tree.IndexOf(m.rows, row.Node.ID); i >= 0 {
		m.cursor = i
		m.clampScroll()
	}
	return m, m.persist()
}

// keyboardMoveInto drops the selection inside the nearest folder above the
// cursor.
func (m Model) keyboardMoveInto() (tea.Model, tea.Cmd) {
	row := m.currentRow()
	if row == nil {
		return m, nil
	}
	var folder *models.Node
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].Node.IsFolder() {
			folder = m.rows[i].Node
			break
		}
	}
	if folder == nil {
		return m, nil
	}
	m.engine.Start(row.Node.ID, m.sel.IDs())
	label, err := m.engine.Drop(folder.ID, tree.Inside)
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	if label == "" {
		return m, nil
	}
	m.refresh()
	if i := tree.IndexOf(m.rows, row.Node.ID); i >= 0 {
		m.cursor = i
		m.clampScroll()
	}
	return m, m.persist()
}

func (m Model) paste() (tea.Model, tea.Cmd) {
	if len(m.clipboard) == 0 {
		return m, nil
	}
	row := m.currentRow()
	if row == nil {
		return m, nil
	}
	pos := tree.After
	if row.Node.IsFolder() {
		pos = tree.Inside
	}

	if m.cutMode {
		m.svc.Snapshot(fmt.Sprintf("Move %d items", len(m.clipboard)))
		if err := m.svc.Store().MoveMany(m.clipboard, row.Node.ID, pos); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.clipboard = nil
		m.cutMode = false
		m.refresh()
		return m, m.persist()
	}

	// Copy-paste: clone each node at root, then splice it into place so the
	// insertion index logic lives in one place.
	m.svc.Snapshot(fmt.Sprintf("Paste %d items", len(m.clipboard)))
	for _, id := range m.clipboard {
		src := m.svc.Store().Find(id)
		if src == nil {
			continue
		}
		clone := src.Clone()
		if err := m.svc.Store().Add("", clone); err != nil {
			continue
		}
		if err := m.svc.Store().Move(clone.ID, row.Node.ID, pos); err != nil {
			m.svc.Store().Delete(clone.ID)
			return m, m.setStatus(err.Error(), true)
		}
	}
	m.refresh()
	return m, m.persist()
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNormal {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.scrollOffset < len(m.rows)-1 {
			m.scrollOffset++
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.mousePress(msg)
	case tea.MouseActionMotion:
		return m.mouseMotion(msg)
	case tea.MouseActionRelease:
		return m.mouseRelease(msg)
	}
	return m, nil
}

func (m Model) mousePress(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.zones.Get("sec:qa").InBounds(msg) {
		m.svc.State().QACollapsed = !m.svc.State().QACollapsed
		return m, m.persist()
	}
	if m.zones.Get("sec:commands").InBounds(msg) {
		m.svc.State().CommandsCollapsed = !m.svc.State().CommandsCollapsed
		return m, m.persist()
	}
	if m.zones.Get("sec:history").InBounds(msg) {
		m.svc.State().HistoryCollapsed = !m.svc.State().HistoryCollapsed
		return m, m.persist()
	}
	for _, n := range m.svc.Store().Pinned() {
		if m.zones.Get("pin:" + n.ID).InBounds(msg) {
			if names := models.ExtractVars(n.Cmd); len(names) == 0 {
				return m.finishCopy(n.Name, n.Cmd)
			}
			// Variable commands go through the fill flow from the tree.
			m.sel.SelectSingle(n.ID)
			if i := tree.IndexOf(m.rows, n.ID); i >= 0 {
				m.cursor = i
				m.clampScroll()
			}
			return m.copyCurrent()
		}
	}
	for i, e := range m.svc.State().History {
		if m.zones.Get(fmt.Sprintf("hist:%d", i)).InBounds(msg) {
			return m.finishCopy(e.Name, e.Cmd)
		}
	}

	id, ok := m.rowUnderMouse(msg)
	if !ok {
		return m, nil
	}
	m.pressedID = id
	if i := tree.IndexOf(m.rows, id); i >= 0 {
		m.cursor = i
	}
	switch {
	case msg.Ctrl:
		m.sel.Toggle(id)
		m.pressedID = "" // modified clicks never start a drag
	case msg.Shift:
		m.sel.SelectRange(m.rows, id)
		m.pressedID = ""
	case !m.sel.Contains(id):
		m.sel.SelectSingle(id)
	}
	return m, nil
}

func (m Model) mouseMotion(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.pressedID == "" {
		return m, nil
	}
	if !m.engine.Dragging() {
		if id, ok := m.rowUnderMouse(msg); !ok || id != m.pressedID {
			m.engine.Start(m.pressedID, m.sel.IDs())
		}
	}
	if !m.engine.Dragging() {
		return m, nil
	}

	m.hoverID = ""
	if id, ok := m.rowUnderMouse(msg); ok {
		info := m.zones.Get("row:" + id)
		target := m.svc.Store().Find(id)
		if target != nil && !info.IsZero() {
			rowHeight := float64(info.EndY-info.StartY) + 1
			offsetY := float64(msg.Y-info.StartY) + 0.5
			m.hoverPos = drag.Classify(offsetY, rowHeight, target)
			m.hoverID = id
		}
	}
	return m, nil
}

func (m Model) mouseRelease(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pressed := m.pressedID
	m.pressedID = ""

	if m.engine.Dragging() {
		hoverID, hoverPos := m.hoverID, m.hoverPos
		m.hoverID = ""
		if hoverID == "" {
			m.engine.Cancel()
			return m, nil
		}
		label, err := m.engine.Drop(hoverID, hoverPos)
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		if label == "" {
			return m, nil
		}
		m.refresh()
		return m, tea.Batch(m.setStatus(label, false), m.persist())
	}

	// Plain click: collapse any multi-selection onto the clicked row and
	// fold folders.
	if pressed == "" {
		return m, nil
	}
	if id, ok := m.rowUnderMouse(msg); ok && id == pressed {
		m.sel.SelectSingle(id)
		if n := m.svc.Store().Find(id); n != nil && n.IsFolder() {
			n.Collapsed = !n.Collapsed
			m.refresh()
			return m, m.persist()
		}
	}
	return m, nil
}

// rowUnderMouse hit-tests the visible tree rows.
func (m *Model) rowUnderMouse(msg tea.MouseMsg) (string, bool) {
	start := m.scrollOffset
	end := start + m.viewportHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for _, r := range m.rows[start:end] {
		if m.zones.Get("row:" + r.Node.ID).InBounds(msg) {
			return r.Node.ID, true
		}
	}
	return "", false
}
