package logstate

import "testing"

func TestStringTreeDedupesRepeatedText(t *testing.T) {
	tree := NewStringTree()
	a := tree.Intern("Hello, world.")
	b := tree.Intern("Hello, world.")
	c := tree.Intern("Something else.")
	if a != b {
		t.Errorf("interning the same string twice gave different ids: %d vs %d", a, b)
	}
	if a == c {
		t.Error("interning distinct strings gave the same id")
	}
	if tree.String(a) != "Hello, world." {
		t.Errorf("String(%d) = %q", a, tree.String(a))
	}
}

func TestBacklogRingBufferCaps(t *testing.T) {
	log := NewLog(2)
	log.Append("one", "start", 0)
	log.Append("two", "start", 1)
	log.Append("three", "start", 2)
	bl := log.Backlog()
	if len(bl) != 2 {
		t.Fatalf("len(backlog) = %d, want 2", len(bl))
	}
	if bl[0].Text != "two" || bl[1].Text != "three" {
		t.Errorf("backlog = %v, want [two three]", bl)
	}
}

func TestIsReadTracksLabels(t *testing.T) {
	log := NewLog(0)
	if log.IsRead("start") {
		t.Fatal("label should not be read before anything is logged")
	}
	log.Append("hi", "start", 0)
	if !log.IsRead("start") {
		t.Error("label should be read after logging dialogue under it")
	}
}

func TestAcceptChoiceConsumesVectorInOrder(t *testing.T) {
	log := NewLog(0)
	if err := log.MakeChoice(1); err != nil {
		t.Fatalf("MakeChoice(1): %v", err)
	}
	if err := log.MakeChoice(0); err != nil {
		t.Fatalf("MakeChoice(0): %v", err)
	}
	sel, err := log.AcceptChoice()
	if err != nil || sel != 1 {
		t.Fatalf("AcceptChoice = (%d, %v), want (1, nil)", sel, err)
	}
	if log.Exhausted() {
		t.Error("vector should not be exhausted after one of two accepts")
	}
	sel, err = log.AcceptChoice()
	if err != nil || sel != 0 {
		t.Fatalf("AcceptChoice = (%d, %v), want (0, nil)", sel, err)
	}
	if !log.Exhausted() {
		t.Error("vector should be exhausted after both values are accepted")
	}
	if _, err := log.AcceptChoice(); err == nil {
		t.Error("expected an error once the choice vector is exhausted")
	}
}

// TestSetChoiceVectorSizeOverridesLength checks that a declared vector
// size is tracked separately from how many choices have actually been
// recorded, so Exhausted can report true or false independently of
// len(choices).
func TestSetChoiceVectorSizeOverridesLength(t *testing.T) {
	log := NewLog(0)
	log.MakeChoice(1)
	if got := log.ChoiceVectorSize(); got != 1 {
		t.Fatalf("ChoiceVectorSize = %d, want 1 (falls back to len(choices) before any declaration)", got)
	}
	if err := log.SetChoiceVectorSize(3); err != nil {
		t.Fatalf("SetChoiceVectorSize(3): %v", err)
	}
	if got := log.ChoiceVectorSize(); got != 3 {
		t.Errorf("ChoiceVectorSize = %d, want 3 (declared size, not len(choices)=1)", got)
	}
	if log.Exhausted() {
		t.Error("vector should not be exhausted: accept cursor is 0, declared size is 3")
	}
	log.AcceptChoice()
	if log.Exhausted() {
		t.Error("vector should not be exhausted after one accept against a declared size of 3")
	}
	if err := log.SetChoiceVectorSize(-1); err == nil {
		t.Error("expected an error declaring a negative vector size")
	}
}
