// Package drag implements drag-and-drop reordering and reparenting: pointer
// zone classification over a target row, and drop resolution through the
// tree store. The engine never touches node lists itself; it holds ids and
// asks the store to splice.
package drag

import (
	"fmt"

	"github.com/cmdvault/cmdvault/pkg/history"
	"github.com/cmdvault/cmdvault/pkg/models"
	"github.com/cmdvault/cmdvault/pkg/tree"
)

// Classify maps the pointer's vertical offset within a target row to a drop
// zone. Thresholds depend on the target type: an empty folder is always a
// drop-inside magnet, commands split 50/50 with no inside zone, and
// non-empty folders use 25/50/25.
func Classify(offsetY, rowHeight float64, target *models.Node) tree.Position {
	if target.IsFolder() && len(target.Children) == 0 {
		return tree.Inside
	}
	if !target.IsFolder() {
		if offsetY < rowHeight/2 {
			return tree.Before
		}
		return tree.After
	}
	threshold := rowHeight * 0.25
	switch {
	case offsetY < threshold:
		return tree.Before
	case offsetY > rowHeight-threshold:
		return tree.After
	default:
		return tree.Inside
	}
}

// Engine runs the drag gesture: idle -> dragging -> dropped or cancelled.
type Engine struct {
	store   *tree.Store
	log     *history.Log
	payload []string
	active  bool
}

// NewEngine binds the engine to the store it mutates through and the
// mutation log it snapshots into.
func NewEngine(store *tree.Store, log *history.Log) *Engine {
	return &Engine{store: store, log: log}
}

// Start begins a gesture. When the grabbed row is part of an active
// multi-selection the whole selected set becomes the logical payload;
// otherwise just the grabbed id.
func (e *Engine) Start(sourceID string, selected map[string]struct{}) {
	e.active = true
	if _, inSelection := selected[sourceID]; inSelection && len(selected) > 1 {
		e.payload = e.payload[:0]
		for id := range selected {
			e.payload = append(e.payload, id)
		}
		return
	}
	e.payload = []string{sourceID}
}

// Dragging reports whether a gesture is in flight.
func (e *Engine) Dragging() bool { return e.active }

// Payload returns the ids being dragged.
func (e *Engine) Payload() []string { return e.payload }

// Cancel abandons the gesture without touching the forest.
func (e *Engine) Cancel() {
	e.active = false
	e.payload = nil
}

// Drop resolves the gesture against targetID at the classified zone. A drop
// onto the dragged set is ignored; a drop that would nest a folder inside
// itself is rejected. Successful drops snapshot the forest first and return
// the undo label.
func (e *Engine) Drop(targetID string, pos tree.Position) (string, error) {
	if !e.active {
		return "", nil
	}
	defer e.Cancel()

	for _, id := range e.payload {
		if id == targetID {
			return "", nil
		}
	}
	for _, id := range e.payload {
		if e.store.IsDescendant(id, targetID) {
			return "", fmt.Errorf("cannot move a folder into its own subtree")
		}
	}
	// Resolve the target before snapshotting, so a move that cannot happen
	// never leaves a no-op entry on the undo stack.
	target := e.store.Find(targetID)
	if target == nil {
		return "", fmt.Errorf("drop target no longer exists")
	}
	if pos == tree.Inside && !target.IsFolder() {
		return "", fmt.Errorf("cannot drop inside %q: not a folder", target.Name)
	}

	label := e.dropLabel()
	if err := e.log.PushUndo(label, e.store.Roots()); err != nil {
		return "", err
	}
	if err := e.store.MoveMany(e.payload, targetID, pos); err != nil {
		return "", err
	}
	return label, nil
}

func (e *Engine) dropLabel() string {
	if len(e.payload) == 1 {
		if n := e.store.Find(e.payload[0]); n != nil {
			return "Move: " + n.Name
		}
	}
	return fmt.Sprintf("Move %d items", len(e.payload))
}
