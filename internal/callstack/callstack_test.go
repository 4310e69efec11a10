package callstack

import "testing"

func TestForLoopAccumulation(t *testing.T) {
	// %0 = 3 + sum(0..4) == 13, driven purely through the stack's for/next
	// bookkeeping with an external accumulator.
	s := New()
	acc := int32(3)
	induction := int32(0)
	to := int32(4)
	step := int32(1)

	if _, err := s.PushFor(0, 1, induction, to, step); err != nil {
		t.Fatalf("PushFor: %v", err)
	}

	for {
		acc += induction
		cont, _, err := s.Next(induction)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !cont {
			break
		}
		induction += step
	}

	if acc != 13 {
		t.Fatalf("expected acc=13, got %d", acc)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty stack after loop, got depth %d", s.Len())
	}
}

func TestStepZeroRejected(t *testing.T) {
	s := New()
	if _, err := s.PushFor(0, 1, 0, 10, 0); err == nil {
		t.Fatalf("expected step=0 to be rejected")
	}
}

func TestBreakPopsToEnclosingFor(t *testing.T) {
	s := New()
	if _, err := s.PushFor(100, 1, 0, 10, 1); err != nil {
		t.Fatalf("PushFor: %v", err)
	}
	s.PushLabel(5, "l", 1, 5)
	s.PushLabel(6, "l2", 1, 6)

	ff, err := s.Break()
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if ff.NextScriptAddress != 100 {
		t.Fatalf("expected next addr 100, got %d", ff.NextScriptAddress)
	}
	if s.Len() != 0 {
		t.Fatalf("expected stack fully unwound, got depth %d", s.Len())
	}
}

func TestBreakOutsideForIsError(t *testing.T) {
	s := New()
	s.PushLabel(1, "l", 1, 1)
	if _, err := s.Break(); err == nil {
		t.Fatalf("expected error for break outside for")
	}
}

func TestReturnRequiresLabelFrame(t *testing.T) {
	s := New()
	if _, err := s.PushFor(0, 1, 0, 1, 1); err != nil {
		t.Fatalf("PushFor: %v", err)
	}
	if _, err := s.Return(); err == nil {
		t.Fatalf("expected error returning through a FOR frame")
	}
}

func TestUninterruptibleDerivedFlag(t *testing.T) {
	s := New()
	s.MarkUninterruptible(42)
	if s.HasUninterruptible() {
		t.Fatalf("should start interruptible")
	}
	s.PushLabel(0, "safe", 1, 42)
	if !s.HasUninterruptible() {
		t.Fatalf("expected hasUninterruptible after entering marked label")
	}
	if _, err := s.Return(); err != nil {
		t.Fatalf("Return: %v", err)
	}
	if s.HasUninterruptible() {
		t.Fatalf("expected flag to clear after returning from the frame")
	}
}
