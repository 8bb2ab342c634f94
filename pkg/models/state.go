package models

// MaxPinned bounds the quick-access section.
const MaxPinned = 10

// VaultState is the full persisted document: the forest plus the settings
// that survive restarts. Key names match the original storage layout so an
// exported vault can be restored across installs.
type VaultState struct {
	Tree              []*Node        `json:"tree" yaml:"tree"`
	History           []HistoryEntry `json:"history" yaml:"history"`
	QACollapsed       bool           `json:"qaCollapsed" yaml:"qaCollapsed"`
	HistoryCollapsed  bool           `json:"historyCollapsed" yaml:"historyCollapsed"`
	CommandsCollapsed bool           `json:"commandsCollapsed" yaml:"commandsCollapsed"`
	GHToken           string         `json:"ghToken,omitempty" yaml:"ghToken,omitempty"`
	SavedTheme        string         `json:"savedTheme,omitempty" yaml:"savedTheme,omitempty"`
	Username          string         `json:"username,omitempty" yaml:"username,omitempty"`
	RemoteContainerID string         `json:"remoteContainerId,omitempty" yaml:"remoteContainerId,omitempty"`
}

// NewVaultState returns the first-run document: one seed folder, no history.
func NewVaultState() *VaultState {
	return &VaultState{
		Tree:    DefaultForest(),
		History: []HistoryEntry{},
	}
}
