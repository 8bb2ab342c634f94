// Package tree owns the in-memory forest of folder and command nodes. All
// mutations go through the Store; other components hold ids, never node
// pointers, and re-resolve them here on each operation.
package tree

import (
	"fmt"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// Position says where a moved or pasted node lands relative to a target.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// Store is the owner of the node forest.
type Store struct {
	roots []*models.Node
}

// New wraps an existing forest. The store takes ownership of the slice.
func New(roots []*models.Node) *Store {
	return &Store{roots: roots}
}

// Roots returns the current top-level sequence.
func (s *Store) Roots() []*models.Node {
	return s.roots
}

// SetRoots replaces the entire forest, e.g. after a restore or import.
func (s *Store) SetRoots(roots []*models.Node) {
	s.roots = roots
}

// Find resolves an id anywhere in the forest. Returns nil when absent; ids
// can go stale across async boundaries, so callers must check.
func (s *Store) Find(id string) *models.Node {
	return findNode(s.roots, id)
}

func findNode(nodes []*models.Node, id string) *models.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := findNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// container locates the list owning id and the node's index in it. The root
// sequence is represented by &s.roots.
func (s *Store) container(id string) (*[]*models.Node, int) {
	return findContainer(&s.roots, id)
}

func findContainer(list *[]*models.Node, id string) (*[]*models.Node, int) {
	for i, n := range *list {
		if n.ID == id {
			return list, i
		}
		if n.Children != nil {
			if l, idx := findContainer(&n.Children, id); l != nil {
				return l, idx
			}
		}
	}
	return nil, -1
}

// FindParentFolderID returns the id of the folder owning the node, or
// ("", false) when the node sits at root level or does not exist.
func (s *Store) FindParentFolderID(id string) (string, bool) {
	var walk func(nodes []*models.Node, parent *models.Node) (string, bool)
	walk = func(nodes []*models.Node, parent *models.Node) (string, bool) {
		for _, n := range nodes {
			if n.ID == id {
				if parent == nil {
					return "", false
				}
				return parent.ID, true
			}
			if pid, ok := walk(n.Children, n); ok {
				return pid, ok
			}
		}
		return "", false
	}
	return walk(s.roots, nil)
}

// IsDescendant reports whether nodeID sits anywhere inside ancestorID's
// subtree. Used to block cyclic moves before they happen.
func (s *Store) IsDescendant(ancestorID, nodeID string) bool {
	ancestor := s.Find(ancestorID)
	if ancestor == nil || ancestor.Children == nil {
		return false
	}
	return findNode(ancestor.Children, nodeID) != nil
}

// Add appends a node to the folder parentID, or to the root sequence when
// parentID is empty. Adding into a folder reveals it.
func (s *Store) Add(parentID string, n *models.Node) error {
	if parentID == "" {
		s.roots = append(s.roots, n)
		return nil
	}
	parent := s.Find(parentID)
	if parent == nil {
		return fmt.Errorf("parent %s not found", parentID)
	}
	if !parent.IsFolder() {
		return fmt.Errorf("%q is not a folder", parent.Name)
	}
	if parent.Children == nil {
		parent.Children = []*models.Node{}
	}
	parent.Children = append(parent.Children, n)
	parent.Collapsed = false
	return nil
}

// Delete removes the node and its entire subtree. Deleting an unknown id is
// a no-op.
func (s *Store) Delete(id string) {
	list, idx := s.container(id)
	if list == nil {
		return
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
}

// DeleteMany removes every node whose id is in ids, in a single pass. A
// deleted folder takes its whole subtree with it; descendants are not
// matched independently, so a selection containing both a folder and one of
// its children behaves the same as deleting just the folder.
func (s *Store) DeleteMany(ids map[string]struct{}) {
	if len(ids) == 0 {
		return
	}
	s.roots = filterOut(s.roots, ids)
}

func filterOut(nodes []*models.Node, ids map[string]struct{}) []*models.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if _, hit := ids[n.ID]; hit {
			continue
		}
		if n.Children != nil {
			n.Children = filterOut(n.Children, ids)
		}
		out = append(out, n)
	}
	return out
}

// Duplicate deep-clones the node with fresh ids, clears pin state on every
// clone, suffixes the name, and inserts the copy right after the original.
func (s *Store) Duplicate(id string) (*models.Node, error) {
	list, idx := s.container(id)
	if list == nil {
		return nil, fmt.Errorf("node %s not found", id)
	}
	dup := (*list)[idx].Clone()
	dup.Name += " (copy)"
	clearPins(dup)
	*list = append(*list, nil)
	copy((*list)[idx+2:], (*list)[idx+1:])
	(*list)[idx+1] = dup
	return dup, nil
}

func clearPins(n *models.Node) {
	n.Pinned = false
	for _, c := range n.Children {
		clearPins(c)
	}
}

// Update applies a mutation to the resolved node. Returns false when the id
// is stale.
func (s *Store) Update(id string, apply func(*models.Node)) bool {
	n := s.Find(id)
	if n == nil {
		return false
	}
	apply(n)
	return true
}

// CountCommands counts command nodes in the subtree rooted at n.
func CountCommands(n *models.Node) int {
	if !n.IsFolder() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += CountCommands(c)
	}
	return total
}

// CountFolders counts folder nodes in the subtree rooted at n, including n.
func CountFolders(n *models.Node) int {
	if !n.IsFolder() {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += CountFolders(c)
	}
	return total
}

// SetCollapsedRecursive sets the collapse state of the folder id and every
// folder below it.
func (s *Store) SetCollapsedRecursive(id string, collapsed bool) {
	n := s.Find(id)
	if n == nil {
		return
	}
	var walk func(*models.Node)
	walk = func(n *models.Node) {
		if n.IsFolder() {
			n.Collapsed = collapsed
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(n)
}

// Pinned returns every pinned node in document order.
func (s *Store) Pinned() []*models.Node {
	var out []*models.Node
	var walk func(nodes []*models.Node)
	walk = func(nodes []*models.Node) {
		for _, n := range nodes {
			if n.Pinned {
				out = append(out, n)
			}
			walk(n.Children)
		}
	}
	walk(s.roots)
	return out
}

// TogglePin flips a node's pin state, enforcing the quick-access cap.
func (s *Store) TogglePin(id string) error {
	n := s.Find(id)
	if n == nil {
		return fmt.Errorf("node %s not found", id)
	}
	if !n.Pinned && len(s.Pinned()) >= models.MaxPinned {
		return fmt.Errorf("pin limit reached (%d)", models.MaxPinned)
	}
	n.Pinned = !n.Pinned
	return nil
}

// EffectiveColor resolves a node's display color: its own when set, else the
// nearest ancestor folder's. Inheritance is computed here, never stored.
func (s *Store) EffectiveColor(id string) string {
	var walk func(nodes []*models.Node, inherited string) (string, bool)
	walk = func(nodes []*models.Node, inherited string) (string, bool) {
		for _, n := range nodes {
			color := inherited
			if n.Color != "" {
				color = n.Color
			}
			if n.ID == id {
				return color, true
			}
			if c, ok := walk(n.Children, color); ok {
				return c, ok
			}
		}
		return "", false
	}
	color, _ := walk(s.roots, "")
	return color
}
