package sprite

import "testing"

func TestOrderedSortsByZThenSlot(t *testing.T) {
	tbl := NewTable()
	tbl.Set(Entry{No: 1, Visible: true, ZOrder: 5, ScaleX: 1, ScaleY: 1})
	tbl.Set(Entry{No: 2, Visible: true, ZOrder: 1, ScaleX: 1, ScaleY: 1})
	tbl.Set(Entry{No: 3, Visible: true, ZOrder: 1, ScaleX: 1, ScaleY: 1})

	ordered := tbl.Ordered()
	if len(ordered) != 3 {
		t.Fatalf("len = %d, want 3", len(ordered))
	}
	if ordered[0].No != 2 || ordered[1].No != 3 || ordered[2].No != 1 {
		t.Errorf("order = %v, want slots [2 3 1]", []int{ordered[0].No, ordered[1].No, ordered[2].No})
	}
}

func TestHiddenSpritesExcludedFromOrdered(t *testing.T) {
	tbl := NewTable()
	tbl.Set(Entry{No: 1, Visible: false, ScaleX: 1, ScaleY: 1})
	if len(tbl.Ordered()) != 0 {
		t.Error("hidden sprite should not appear in Ordered()")
	}
}

func TestDirtyRectAccumulatesAcrossSets(t *testing.T) {
	tbl := NewTable()
	tbl.Set(Entry{No: 1, Visible: true, X: 0, Y: 0, ScaleX: 10, ScaleY: 10})
	tbl.Set(Entry{No: 2, Visible: true, X: 20, Y: 20, ScaleX: 5, ScaleY: 5})

	r, ok := tbl.TakeDirty()
	if !ok {
		t.Fatal("expected a dirty rect after two Set calls")
	}
	if r.MinX != 0 || r.MinY != 0 || r.MaxX != 25 || r.MaxY != 25 {
		t.Errorf("dirty rect = %+v, want bounding box [0,0,25,25]", r)
	}

	if _, ok := tbl.TakeDirty(); ok {
		t.Error("TakeDirty should report nothing dirty immediately after a take")
	}
}

func TestRemoveMarksLastBoundsDirty(t *testing.T) {
	tbl := NewTable()
	tbl.Set(Entry{No: 1, Visible: true, X: 5, Y: 5, ScaleX: 2, ScaleY: 2})
	tbl.TakeDirty()
	tbl.Remove(1)
	r, ok := tbl.TakeDirty()
	if !ok {
		t.Fatal("expected Remove to mark the sprite's last bounds dirty")
	}
	if r.MinX != 5 || r.MaxX != 7 {
		t.Errorf("dirty rect = %+v, want x in [5,7]", r)
	}
}
