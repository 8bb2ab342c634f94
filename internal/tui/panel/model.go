// Package panel is the interactive side panel: the folder tree, quick
// access and history sections, search, multi-selection, drag and drop with
// the mouse, and gist backup, all in one bubbletea program.
package panel

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/cmdvault/cmdvault/pkg/drag"
	"github.com/cmdvault/cmdvault/pkg/selection"
	"github.com/cmdvault/cmdvault/pkg/service"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeRename
	modeNewFolder
	modeNewCommandName
	modeNewCommandBody
	modeVarFill
	modeConfirmDelete
)

// Model is the panel's bubbletea model.
type Model struct {
	svc    *service.Service
	engine *drag.Engine
	sel    *selection.Manager
	zones  *zone.Manager

	rows         []tree.Row
	cursor       int
	scrollOffset int
	width        int
	height       int

	keys KeyMap
	help help.Model

	mode        inputMode
	searchInput textinput.Model
	fieldInput  textinput.Model

	// Rename and creation flow state.
	renameID    string
	newName     string
	newParentID string

	// Variable fill state for a pending copy.
	varName   string
	varBody   string
	varNames  []string
	varValues map[string]string
	varIndex  int

	// Clipboard state.
	clipboard []string
	cutMode   bool

	// Pending delete confirmation.
	pendingDelete map[string]struct{}
	pendingLabel  string

	// Mouse drag state.
	pressedID string
	hoverID   string
	hoverPos  tree.Position

	lastKey       string // for the 'gg' sequence
	statusMessage string
	statusIsErr   bool
	syncing       bool
}

// New creates the panel model over a loaded service.
func New(svc *service.Service) Model {
	search := textinput.New()
	search.Placeholder = "Search... (#tag, d:, f:, c:)"
	search.CharLimit = 100
	search.Prompt = "/ "

	field := textinput.New()
	field.CharLimit = 500
	field.Width = 50

	m := Model{
		svc:    svc,
		engine: drag.NewEngine(svc.Store(), svc.Log()),
		sel:    selection.NewManager(),
		zones:  zone.New(),
		keys:   keys,
		help:   help.New(),

		searchInput: search,
		fieldInput:  field,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases the zone manager. Call after the program exits.
func (m Model) Close() {
	m.zones.Close()
}

// refresh rebuilds the visible projection after any mutation or filter
// change, prunes the selection against it and clamps the cursor.
func (m *Model) refresh() {
	m.rows = m.svc.Store().Visible(tree.ParseQuery(m.searchInput.Value()))
	m.sel.Prune(m.rows)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	vh := m.viewportHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+vh {
		m.scrollOffset = m.cursor - vh + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *Model) viewportHeight() int {
	// Header, search line, two section blocks and the footer all take fixed
	// space; whatever is left belongs to the tree.
	h := m.height - 10 - m.pinnedLines() - m.historyLines()
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) pinnedLines() int {
	if m.svc.State().QACollapsed {
		return 0
	}
	return len(m.svc.Store().Pinned())
}

func (m *Model) historyLines() int {
	if m.svc.State().HistoryCollapsed {
		return 0
	}
	return len(m.svc.State().History)
}

// currentRow returns the row under the cursor, or nil when the projection
// is empty.
func (m *Model) currentRow() *tree.Row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}
