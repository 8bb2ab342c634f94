// Package selection tracks single, multi and range selection over the
// flattened visible projection of the forest. It holds ids only and
// re-resolves them against the projection on every operation, so a stale id
// degrades gracefully instead of dangling.
package selection

import "github.com/cmdvault/cmdvault/pkg/tree"

// Manager mirrors file-manager selection semantics: click, ctrl-click,
// shift-click and select-all.
type Manager struct {
	primary string
	anchor  string
	ids     map[string]struct{}
	// order tracks selection order, so the primary can fall back to the
	// last remaining member instead of an arbitrary map pick.
	order []string
}

// NewManager returns an empty selection.
func NewManager() *Manager {
	return &Manager{ids: make(map[string]struct{})}
}

// Primary returns the last-focused id, or "" when nothing is selected.
func (m *Manager) Primary() string { return m.primary }

// IDs returns the selected id set. Callers must not mutate the map.
func (m *Manager) IDs() map[string]struct{} { return m.ids }

// Contains reports whether id is selected.
func (m *Manager) Contains(id string) bool {
	_, ok := m.ids[id]
	return ok
}

// Count returns the selection size.
func (m *Manager) Count() int { return len(m.ids) }

// IsMulti reports whether more than one node is selected. Several actions
// (rename, single-edit, arrow expand) are disabled under multi-select.
func (m *Manager) IsMulti() bool { return len(m.ids) > 1 }

// SelectSingle replaces the selection with just id and re-anchors there.
func (m *Manager) SelectSingle(id string) {
	m.ids = map[string]struct{}{id: {}}
	m.order = []string{id}
	m.primary = id
	m.anchor = id
}

// Toggle XORs id's membership. Toggling in makes the id primary; toggling
// the primary out hands primary to the last remaining member; toggling the
// last id out clears everything.
func (m *Manager) Toggle(id string) {
	if m.Contains(id) {
		delete(m.ids, id)
		m.dropFromOrder(id)
		if len(m.ids) == 0 {
			m.Clear()
			return
		}
		if m.primary == id {
			m.primary = m.order[len(m.order)-1]
		}
		if m.anchor == id {
			m.anchor = m.primary
		}
		return
	}
	m.ids[id] = struct{}{}
	m.order = append(m.order, id)
	m.primary = id
	if m.anchor == "" {
		m.anchor = id
	}
}

func (m *Manager) dropFromOrder(id string) {
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// SelectRange selects the contiguous span between the anchor and targetID in
// projection order. The anchor stays fixed; primary moves to the target.
// With no resolvable anchor this degrades to SelectSingle.
func (m *Manager) SelectRange(rows []tree.Row, targetID string) {
	anchorIdx := tree.IndexOf(rows, m.anchor)
	targetIdx := tree.IndexOf(rows, targetID)
	if anchorIdx == -1 || targetIdx == -1 {
		m.SelectSingle(targetID)
		return
	}
	lo, hi := anchorIdx, targetIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	m.ids = make(map[string]struct{}, hi-lo+1)
	m.order = make([]string, 0, hi-lo+1)
	for _, r := range rows[lo : hi+1] {
		m.ids[r.Node.ID] = struct{}{}
		m.order = append(m.order, r.Node.ID)
	}
	m.primary = targetID
}

// SelectAll selects every visible node; primary lands on the last row.
func (m *Manager) SelectAll(rows []tree.Row) {
	if len(rows) == 0 {
		m.Clear()
		return
	}
	m.ids = make(map[string]struct{}, len(rows))
	m.order = make([]string, 0, len(rows))
	for _, r := range rows {
		m.ids[r.Node.ID] = struct{}{}
		m.order = append(m.order, r.Node.ID)
	}
	m.primary = rows[len(rows)-1].Node.ID
	m.anchor = rows[0].Node.ID
}

// Clear resets the selection entirely.
func (m *Manager) Clear() {
	m.ids = make(map[string]struct{})
	m.order = nil
	m.primary = ""
	m.anchor = ""
}

// Prune drops ids that no longer resolve in the projection, e.g. after a
// delete or an external restore.
func (m *Manager) Prune(rows []tree.Row) {
	present := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		present[r.Node.ID] = struct{}{}
	}
	for id := range m.ids {
		if _, ok := present[id]; !ok {
			delete(m.ids, id)
		}
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.ids[id]; ok {
			kept = append(kept, id)
		}
	}
	m.order = kept
	if _, ok := present[m.primary]; !ok {
		m.primary = ""
	}
	if _, ok := present[m.anchor]; !ok {
		m.anchor = ""
	}
	if len(m.ids) == 0 {
		m.Clear()
	} else if m.primary == "" {
		m.primary = m.order[len(m.order)-1]
	}
}
