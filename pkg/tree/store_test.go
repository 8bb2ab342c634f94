package tree

import (
	"testing"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// fixture builds:
//
//	work/
//	  deploy      (cmd)
//	  db/
//	    psql      (cmd)
//	notes          (cmd)
func fixture() (*Store, map[string]*models.Node) {
	deploy := models.NewCommand("deploy", "make deploy")
	psql := models.NewCommand("psql", "psql -U admin")
	db := models.NewFolder("db")
	db.Children = []*models.Node{psql}
	work := models.NewFolder("work")
	work.Children = []*models.Node{deploy, db}
	notes := models.NewCommand("notes", "cat notes.txt")

	nodes := map[string]*models.Node{
		"work": work, "deploy": deploy, "db": db, "psql": psql, "notes": notes,
	}
	return New([]*models.Node{work, notes}), nodes
}

func TestFindAndParent(t *testing.T) {
	s, n := fixture()

	if got := s.Find(n["psql"].ID); got != n["psql"] {
		t.Error("Find failed for nested command")
	}
	if s.Find("missing") != nil {
		t.Error("Find returned a node for an unknown id")
	}

	pid, ok := s.FindParentFolderID(n["psql"].ID)
	if !ok || pid != n["db"].ID {
		t.Errorf("parent of psql = %q, want db", pid)
	}
	if _, ok := s.FindParentFolderID(n["work"].ID); ok {
		t.Error("root node reported a parent")
	}
}

func TestIsDescendant(t *testing.T) {
	s, n := fixture()

	if !s.IsDescendant(n["work"].ID, n["psql"].ID) {
		t.Error("psql should be a descendant of work")
	}
	if s.IsDescendant(n["db"].ID, n["deploy"].ID) {
		t.Error("deploy is not inside db")
	}
	if s.IsDescendant(n["psql"].ID, n["psql"].ID) {
		t.Error("a node is not its own descendant")
	}
}

func TestAdd(t *testing.T) {
	s, n := fixture()

	n["db"].Collapsed = true
	cmd := models.NewCommand("redis", "redis-cli")
	if err := s.Add(n["db"].ID, cmd); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Find(cmd.ID) == nil {
		t.Fatal("added node not findable")
	}
	if n["db"].Collapsed {
		t.Error("adding into a folder must reveal it")
	}

	if err := s.Add(n["deploy"].ID, models.NewCommand("x", "x")); err == nil {
		t.Error("expected error adding into a command")
	}
	if err := s.Add("missing", models.NewCommand("x", "x")); err == nil {
		t.Error("expected error for unknown parent")
	}

	root := models.NewFolder("misc")
	if err := s.Add("", root); err != nil {
		t.Fatalf("Add at root: %v", err)
	}
	if s.Roots()[len(s.Roots())-1] != root {
		t.Error("root add did not append")
	}
}

func TestDelete(t *testing.T) {
	s, n := fixture()

	s.Delete(n["db"].ID)
	if s.Find(n["db"].ID) != nil || s.Find(n["psql"].ID) != nil {
		t.Error("delete must take the whole subtree")
	}
	if s.Find(n["deploy"].ID) == nil {
		t.Error("sibling vanished")
	}

	// Unknown id is a no-op.
	s.Delete("missing")
}

func TestDeleteManyFolderWithSelectedChild(t *testing.T) {
	s, n := fixture()

	// Selecting a folder together with one of its own children must behave
	// the same as deleting just the folder.
	s.DeleteMany(map[string]struct{}{
		n["work"].ID: {},
		n["psql"].ID: {},
	})
	if len(s.Roots()) != 1 || s.Roots()[0] != n["notes"] {
		t.Errorf("roots = %v", s.Roots())
	}
}

func TestDuplicate(t *testing.T) {
	s, n := fixture()
	n["psql"].Pinned = true

	dup, err := s.Duplicate(n["work"].ID)
	if err != nil {
		t.Fatalf("Duplicate: %v", err)
	}
	if dup.Name != "work (copy)" {
		t.Errorf("name = %q", dup.Name)
	}
	// Copy lands right after the original.
	if s.Roots()[1] != dup {
		t.Error("duplicate not inserted after the original")
	}
	if dup.ID == n["work"].ID {
		t.Error("duplicate shares the original id")
	}
	// Clones never inherit pins, or the cap could silently overflow.
	if dup.Children[1].Children[0].Pinned {
		t.Error("pin state survived duplication")
	}

	if _, err := s.Duplicate("missing"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestCounts(t *testing.T) {
	_, n := fixture()

	if got := CountCommands(n["work"]); got != 2 {
		t.Errorf("CountCommands(work) = %d, want 2", got)
	}
	if got := CountFolders(n["work"]); got != 2 {
		t.Errorf("CountFolders(work) = %d, want 2", got)
	}
	if got := CountCommands(n["notes"]); got != 1 {
		t.Errorf("CountCommands(cmd) = %d, want 1", got)
	}
}

func TestSetCollapsedRecursive(t *testing.T) {
	s, n := fixture()

	s.SetCollapsedRecursive(n["work"].ID, true)
	if !n["work"].Collapsed || !n["db"].Collapsed {
		t.Error("collapse did not recurse")
	}
	s.SetCollapsedRecursive(n["work"].ID, false)
	if n["work"].Collapsed || n["db"].Collapsed {
		t.Error("expand did not recurse")
	}
}

func TestTogglePinCap(t *testing.T) {
	s, n := fixture()

	if err := s.TogglePin(n["deploy"].ID); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	if !n["deploy"].Pinned {
		t.Error("pin not set")
	}

	// Fill the quick-access section to the cap.
	for i := 1; i < models.MaxPinned; i++ {
		c := models.NewCommand("c", "c")
		c.Pinned = true
		if err := s.Add("", c); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.TogglePin(n["psql"].ID); err == nil {
		t.Error("expected pin cap error")
	}
	// Unpinning still works at the cap.
	if err := s.TogglePin(n["deploy"].ID); err != nil {
		t.Errorf("unpin at cap: %v", err)
	}
}

func TestEffectiveColor(t *testing.T) {
	s, n := fixture()
	n["work"].Color = "#FF5252"
	n["db"].Color = ""

	if got := s.EffectiveColor(n["psql"].ID); got != "#FF5252" {
		t.Errorf("inherited color = %q", got)
	}
	n["db"].Color = "#7DCFFF"
	if got := s.EffectiveColor(n["psql"].ID); got != "#7DCFFF" {
		t.Errorf("nearest ancestor color = %q", got)
	}
	if got := s.EffectiveColor(n["notes"].ID); got != "" {
		t.Errorf("root command color = %q, want none", got)
	}
}

func TestUpdate(t *testing.T) {
	s, n := fixture()

	ok := s.Update(n["deploy"].ID, func(node *models.Node) {
		node.Description = "ship it"
	})
	if !ok || n["deploy"].Description != "ship it" {
		t.Error("update did not apply")
	}
	if s.Update("missing", func(*models.Node) {}) {
		t.Error("update reported success for an unknown id")
	}
}
