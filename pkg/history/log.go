// Package history implements the undo/redo mutation log: bounded stacks of
// full-forest snapshots taken before each destructive operation.
package history

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// MaxDepth bounds each stack; the oldest snapshot is evicted first.
const MaxDepth = 50

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot pairs a serialized forest with a human label for status messages.
type Snapshot struct {
	State       []byte
	Description string
}

// Log holds the linear undo/redo history. New actions invalidate the redo
// side; there is no branching.
type Log struct {
	undo []Snapshot
	redo []Snapshot
}

// NewLog returns an empty mutation log.
func NewLog() *Log {
	return &Log{}
}

func snapshot(forest []*models.Node, description string) (Snapshot, error) {
	data, err := json.Marshal(forest)
	if err != nil {
		return Snapshot{}, fmt.Errorf("serialize forest: %w", err)
	}
	return Snapshot{State: data, Description: description}, nil
}

func restore(s Snapshot) ([]*models.Node, error) {
	var forest []*models.Node
	if err := json.Unmarshal(s.State, &forest); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	if forest == nil {
		forest = []*models.Node{}
	}
	return forest, nil
}

// PushUndo records the pre-mutation state. Call it before mutating.
func (l *Log) PushUndo(description string, forest []*models.Node) error {
	s, err := snapshot(forest, description)
	if err != nil {
		return err
	}
	l.undo = push(l.undo, s)
	l.redo = nil
	return nil
}

func push(stack []Snapshot, s Snapshot) []Snapshot {
	stack = append(stack, s)
	if len(stack) > MaxDepth {
		stack = stack[len(stack)-MaxDepth:]
	}
	return stack
}

// Undo restores the most recent snapshot, moving the current state onto the
// redo stack. Returns the restored forest and the undone action's label.
func (l *Log) Undo(current []*models.Node) ([]*models.Node, string, error) {
	if len(l.undo) == 0 {
		return nil, "", ErrNothingToUndo
	}
	top := l.undo[len(l.undo)-1]
	cur, err := snapshot(current, top.Description)
	if err != nil {
		return nil, "", err
	}
	forest, err := restore(top)
	if err != nil {
		return nil, "", err
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = push(l.redo, cur)
	return forest, top.Description, nil
}

// Redo is the mirror of Undo.
func (l *Log) Redo(current []*models.Node) ([]*models.Node, string, error) {
	if len(l.redo) == 0 {
		return nil, "", ErrNothingToRedo
	}
	top := l.redo[len(l.redo)-1]
	cur, err := snapshot(current, top.Description)
	if err != nil {
		return nil, "", err
	}
	forest, err := restore(top)
	if err != nil {
		return nil, "", err
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = push(l.undo, cur)
	return forest, top.Description, nil
}

// CanUndo reports whether an undo snapshot is available.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }
