package engine

import "testing"

// TestEndHaltsAfterForLoop runs a for/next loop followed by a literal
// `end` line and checks both that the loop accumulates correctly and
// that `end` halts the run rather than fataling on an unknown command.
func TestEndHaltsAfterForLoop(t *testing.T) {
	src := "*start\n" +
		"mov %0, 3\n" +
		"for %1 = 0 to 4\n" +
		"add %0, %1\n" +
		"next\n" +
		"end\n"
	e := newTestEngine(t, src)
	if err := e.RunScript(1000); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(0); got != 13 {
		t.Errorf("%%0 = %d, want 13", got)
	}
}

// TestArrayDimAndEndCommand checks array declaration, element assignment,
// and readback through an aliased bound, ending on a literal `end` line.
func TestArrayDimAndEndCommand(t *testing.T) {
	src := "*start\n" +
		"numalias max, 5\n" +
		"dim ?0[max]\n" +
		"mov ?0[2], 42\n" +
		"mov %9, ?0[2]\n" +
		"end\n"
	e := newTestEngine(t, src)
	if err := e.RunScript(1000); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(9); got != 42 {
		t.Errorf("%%9 = %d, want 42", got)
	}
}

// TestSuperSkipWithDeclaredChoiceVectorSize runs a self-referential sskip
// that declares its vector size via accept_choice_vector_size before
// jumping, replays both recorded choices under super-skip, and halts on
// a literal `end` line at the destination label.
func TestSuperSkipWithDeclaredChoiceVectorSize(t *testing.T) {
	src := "*start\n" +
		"makechoice 1\n" +
		"makechoice 0\n" +
		"accept_choice_vector_size 2\n" +
		"sskip *start, *dest, 0\n" +
		"*dest\n" +
		"acceptchoice %5\n" +
		"acceptchoice %6\n" +
		"end\n"
	e := newTestEngine(t, src)
	if err := e.RunScript(1000); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(5); got != 1 {
		t.Errorf("%%5 = %d, want 1", got)
	}
	if got := e.Vars.Int(6); got != 0 {
		t.Errorf("%%6 = %d, want 0", got)
	}
	if e.Skip.IsSkipping() {
		t.Error("skip mode should be cleared once the destination label is reached")
	}
	if e.Eval.CurrentLabel != "dest" {
		t.Errorf("CurrentLabel = %q, want %q", e.Eval.CurrentLabel, "dest")
	}
}

// TestD2EmitsRawUnquotedTextAcrossBarrier checks that d2 reads its
// argument as raw line text (no surrounding quotes, unlike every other
// string-valued command) and that the barrier it crosses still gates
// waitondialogue the same way d's does.
func TestD2EmitsRawUnquotedTextAcrossBarrier(t *testing.T) {
	src := "d2 Hello|World\n" +
		"waitondialogue 0\n" +
		"mov %0, 1\n"
	e := newTestEngine(t, src)
	if err := e.RunScript(1000); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(0); got != 1 {
		t.Errorf("%%0 = %d, want 1 (waitondialogue should resolve once the '|' was crossed)", got)
	}
}

// TestSkipAndSkipgosubMirrorGotoAndGosub checks that skip/skipgosub are
// registered and behave exactly like goto/gosub, including leaving a
// return frame behind in skipgosub's case.
func TestSkipAndSkipgosubMirrorGotoAndGosub(t *testing.T) {
	src := "skip *start\n" +
		"mov %0, 99\n" + // unreachable
		"*start\n" +
		"skipgosub *sub\n" +
		"mov %1, 1\n" +
		"end\n" +
		"*sub\n" +
		"mov %2, 1\n" +
		"return\n"
	e := newTestEngine(t, src)
	if err := e.RunScript(1000); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(0); got != 0 {
		t.Errorf("%%0 = %d, want 0 (skip *start should jump clean over it)", got)
	}
	if got := e.Vars.Int(1); got != 1 {
		t.Errorf("%%1 = %d, want 1", got)
	}
	if got := e.Vars.Int(2); got != 1 {
		t.Errorf("%%2 = %d, want 1", got)
	}
}
