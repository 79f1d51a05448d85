package domain

import "testing"

func TestTree(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat:tabby", "plant")
	mustAssign(t, db, "h2", "animal:dog")

	root := db.Tree()
	if !root.IsExpanded || root.Type != TagTypeRoot {
		t.Fatalf("unexpected root %+v", root)
	}

	visible := root.Flatten()
	if len(visible) != 3 {
		t.Fatalf("collapsed tree shows %d nodes, want root + 2", len(visible))
	}

	animal := root.Find("animal")
	if animal == nil {
		t.Fatal("animal not found")
	}
	if animal.ImageCount != 2 {
		t.Errorf("animal image count = %d, want 2", animal.ImageCount)
	}
	if animal.IsLeaf() {
		t.Error("animal reported as leaf")
	}

	tabby := root.Find("animal:cat:tabby")
	if tabby == nil {
		t.Fatal("tabby not found")
	}
	if tabby.Depth() != 3 {
		t.Errorf("tabby depth = %d, want 3", tabby.Depth())
	}
	tabby.ExpandTo()
	if got := len(root.Flatten()); got != 6 {
		t.Errorf("after ExpandTo %d nodes visible, want 6", got)
	}

	animal.Toggle()
	if got := len(root.Flatten()); got != 3 {
		t.Errorf("after collapsing animal %d nodes visible, want 3", got)
	}

	count := 0
	root.Walk(func(*TreeNode) { count++ })
	if count != 6 {
		t.Errorf("Walk visited %d nodes, want 6", count)
	}
}
