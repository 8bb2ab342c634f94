package models

// MaxHistory bounds the copy-history list.
const MaxHistory = 10

// HistoryEntry records one copied command, most recent first.
type HistoryEntry struct {
	Cmd  string `json:"cmd" yaml:"cmd"`
	Name string `json:"name" yaml:"name"`
}

// PushHistory prepends an entry, deduplicating by exact cmd match (re-using
// a command moves it to the front) and capping the list at MaxHistory.
func PushHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	if entry.Cmd == "" {
		return history
	}
	if entry.Name == "" {
		entry.Name = "Command"
	}
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.Cmd == entry.Cmd {
			continue
		}
		out = append(out, h)
	}
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}
	return out
}
