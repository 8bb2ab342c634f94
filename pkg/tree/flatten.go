package tree

import "github.com/cmdvault/cmdvault/pkg/models"

// Row is one line of the flattened, visibility-filtered projection of the
// forest, in display order.
type Row struct {
	Node     *models.Node
	Depth    int
	ParentID string // empty at root level
}

// Visible flattens the forest into display order under the given query.
// Without a filter, collapsed folders hide their descendants; with one, the
// tree is fully expanded so every hit (and its ancestors) shows. For folder
// queries the matched folder's whole subtree is included, which is how
// commands "match" transitively through an ancestor.
func (s *Store) Visible(q Query) []Row {
	var rows []Row
	var walk func(nodes []*models.Node, depth int, parentID string, ancestorHit bool)
	walk = func(nodes []*models.Node, depth int, parentID string, ancestorHit bool) {
		for _, n := range nodes {
			hit := ancestorHit || q.Matches(n)
			if !hit && !q.subtreeMatches(n) {
				continue
			}
			rows = append(rows, Row{Node: n, Depth: depth, ParentID: parentID})
			if n.IsFolder() {
				if q.Empty() && n.Collapsed {
					continue
				}
				// Only folder queries pull a matched folder's subtree in
				// wholesale; other queries still test each child.
				walk(n.Children, depth+1, n.ID, hit && q.kind == queryFolder)
			}
		}
	}
	walk(s.roots, 0, "", false)
	return rows
}

// IndexOf returns the position of id in the projection, or -1.
func IndexOf(rows []Row, id string) int {
	for i, r := range rows {
		if r.Node.ID == id {
			return i
		}
	}
	return -1
}
