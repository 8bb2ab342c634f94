package history

import (
	"fmt"
	"testing"

	"github.com/cmdvault/cmdvault/pkg/models"
)

func forest(names ...string) []*models.Node {
	var out []*models.Node
	for _, n := range names {
		out = append(out, models.NewCommand(n, n))
	}
	return out
}

func names(forest []*models.Node) []string {
	var out []string
	for _, n := range forest {
		out = append(out, n.Name)
	}
	return out
}

func TestUndoRedoRoundTrip(t *testing.T) {
	l := NewLog()
	before := forest("a", "b")
	after := forest("a")

	if l.CanUndo() || l.CanRedo() {
		t.Fatal("fresh log should be empty")
	}
	if err := l.PushUndo("Delete: b", before); err != nil {
		t.Fatalf("PushUndo: %v", err)
	}
	if !l.CanUndo() {
		t.Fatal("CanUndo should be true after a push")
	}

	restored, label, err := l.Undo(after)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if label != "Delete: b" {
		t.Errorf("label = %q", label)
	}
	if got := names(restored); len(got) != 2 || got[1] != "b" {
		t.Errorf("restored = %v", got)
	}
	if !l.CanRedo() {
		t.Fatal("CanRedo should be true after an undo")
	}

	redone, label, err := l.Redo(restored)
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if label != "Delete: b" {
		t.Errorf("redo label = %q", label)
	}
	if got := names(redone); len(got) != 1 || got[0] != "a" {
		t.Errorf("redone = %v", got)
	}
	if !l.CanUndo() || l.CanRedo() {
		t.Error("stacks out of balance after round trip")
	}
}

func TestUndoEmpty(t *testing.T) {
	l := NewLog()
	if _, _, err := l.Undo(nil); err != ErrNothingToUndo {
		t.Errorf("err = %v", err)
	}
	if _, _, err := l.Redo(nil); err != ErrNothingToRedo {
		t.Errorf("err = %v", err)
	}
}

func TestNewActionClearsRedo(t *testing.T) {
	l := NewLog()
	if err := l.PushUndo("first", forest("a")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := l.Undo(forest("b")); err != nil {
		t.Fatal(err)
	}
	if !l.CanRedo() {
		t.Fatal("expected a redo entry")
	}

	// A fresh mutation forks history; the redo branch is gone.
	if err := l.PushUndo("second", forest("c")); err != nil {
		t.Fatal(err)
	}
	if l.CanRedo() {
		t.Error("redo must be cleared by a new action")
	}
}

func TestUndoDepthBounded(t *testing.T) {
	l := NewLog()
	for i := 0; i < MaxDepth+20; i++ {
		if err := l.PushUndo(fmt.Sprintf("op %d", i), forest("x")); err != nil {
			t.Fatal(err)
		}
	}

	count := 0
	cur := forest("x")
	for l.CanUndo() {
		var err error
		cur, _, err = l.Undo(cur)
		if err != nil {
			t.Fatal(err)
		}
		count++
	}
	if count != MaxDepth {
		t.Errorf("undo depth = %d, want %d", count, MaxDepth)
	}
}

func TestRestoredForestIsDetached(t *testing.T) {
	l := NewLog()
	orig := forest("a")
	if err := l.PushUndo("op", orig); err != nil {
		t.Fatal(err)
	}
	// Mutate the live forest after snapshotting.
	orig[0].Name = "changed"

	restored, _, err := l.Undo(orig)
	if err != nil {
		t.Fatal(err)
	}
	if restored[0].Name != "a" {
		t.Error("snapshot must capture state at push time, not share pointers")
	}
}
