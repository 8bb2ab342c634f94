package panel

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the panel TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	GoToTop      key.Binding
	GoToBottom   key.Binding
	ToggleFold   key.Binding
	CollapseAll  key.Binding
	ExpandAll    key.Binding
	Search       key.Binding
	Copy         key.Binding
	NewCommand   key.Binding
	NewFolder    key.Binding
	Rename       key.Binding
	Delete       key.Binding
	Duplicate    key.Binding
	Pin          key.Binding
	ToggleSelect key.Binding
	SelectAll    key.Binding
	RangeUp      key.Binding
	RangeDown    key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	MoveInto     key.Binding
	Cut          key.Binding
	Paste        key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Search, k.NewCommand, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.GoToTop, k.GoToBottom},
		{k.ToggleFold, k.CollapseAll, k.ExpandAll, k.Search, k.Copy},
		{k.NewCommand, k.NewFolder, k.Rename, k.Delete, k.Duplicate, k.Pin},
		{k.ToggleSelect, k.SelectAll, k.RangeUp, k.RangeDown},
		{k.MoveUp, k.MoveDown, k.MoveInto, k.Cut, k.Paste, k.Undo, k.Redo},
		{k.Sync, k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("ctrl+u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("ctrl+d", "page down"),
	),
	GoToTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("gg", "go to top"),
	),
	GoToBottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "go to bottom"),
	),
	ToggleFold: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "fold/unfold folder"),
	),
	CollapseAll: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "collapse all"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("Z"),
		key.WithHelp("Z", "expand all"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search (#tag d: f: c:)"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter/y", "copy command"),
	),
	NewCommand: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new command"),
	),
	NewFolder: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "new folder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	Pin: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pin/unpin"),
	),
	ToggleSelect: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all (visible)"),
	),
	RangeUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("shift+↑", "extend selection up"),
	),
	RangeDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("shift+↓", "extend selection down"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("alt+up"),
		key.WithHelp("alt+↑", "move before previous row"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("alt+down"),
		key.WithHelp("alt+↓", "move after next row"),
	),
	MoveInto: key.NewBinding(
		key.WithKeys("alt+right"),
		key.WithHelp("alt+→", "move into folder above"),
	),
	Cut: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "cut selection"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste at cursor"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "ctrl+z"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r", "ctrl+y"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Sync: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "backup to gist"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
