package review

import "testing"

func TestSelectionToggle(t *testing.T) {
	var sel Selection
	sel.Toggle("a")
	sel.Toggle("b")
	sel.Toggle("a")

	if sel.Len() != 1 || !sel.Has("b") || sel.Has("a") {
		t.Fatalf("selection = %v, want only b", sel.IDs())
	}
}

func TestSelectAllSelectsLoadedOnly(t *testing.T) {
	// total=100 but only three items loaded; select-all covers the loaded
	// page, never the server-side total.
	snap := NewSnapshot([]Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}, 100)

	var sel Selection
	sel.SelectAll(snap.Items())
	if sel.Len() != 3 {
		t.Fatalf("Len = %d, want 3", sel.Len())
	}
}

func TestSelectionPruneDropsDepartedIDs(t *testing.T) {
	snap := snapshotOf("a", "b", "c")
	var sel Selection
	sel.SelectAll(snap.Items())

	snap.RemoveByID("b")
	sel.Prune(&snap)

	if sel.Len() != 2 || sel.Has("b") {
		t.Fatalf("selection after prune = %v, want a and c", sel.IDs())
	}
}

func TestSelectionIDsStableOrder(t *testing.T) {
	var sel Selection
	sel.Toggle("c")
	sel.Toggle("a")
	sel.Toggle("b")

	ids := sel.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("IDs = %v, want sorted", ids)
	}
}
