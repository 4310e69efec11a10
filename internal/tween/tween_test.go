package tween

import (
	"testing"
	"time"
)

func TestLinearTweenReachesEndValue(t *testing.T) {
	tw := New("x", 0, 100, 100*time.Millisecond, nil)
	v := tw.Advance(50 * time.Millisecond)
	if v < 49 || v > 51 {
		t.Errorf("midpoint value = %f, want ~50", v)
	}
	if tw.Done {
		t.Error("tween reported done at the midpoint")
	}
	v = tw.Advance(60 * time.Millisecond)
	if v != 100 {
		t.Errorf("final value = %f, want 100", v)
	}
	if !tw.Done {
		t.Error("tween should be done after exceeding its duration")
	}
}

func TestZeroDurationResolvesImmediately(t *testing.T) {
	tw := New("opacity", 0, 1, 0, nil)
	if v := tw.Advance(0); v != 1 {
		t.Errorf("zero-duration tween = %f, want 1", v)
	}
	if !tw.Done {
		t.Error("zero-duration tween should be immediately done")
	}
}

func TestSetReplacementStartsFromCurrentValue(t *testing.T) {
	s := NewSet()
	s.Start("x", 100, 100*time.Millisecond, nil)
	s.Advance(50 * time.Millisecond)
	v1, _ := s.Value("x")

	// Replace mid-flight with a new target; the new tween's From should
	// equal the old tween's interpolated value at replacement time, so
	// there's no visible jump.
	tw2 := s.Start("x", 0, 100*time.Millisecond, nil)
	if tw2.From != v1 {
		t.Errorf("replacement From = %f, want %f (no visible jump)", tw2.From, v1)
	}
}

func TestAnyPendingReflectsInFlightTweens(t *testing.T) {
	s := NewSet()
	if s.AnyPending() {
		t.Fatal("empty set should report no pending tweens")
	}
	s.Start("y", 10, 10*time.Millisecond, nil)
	if !s.AnyPending() {
		t.Error("expected a pending tween right after Start")
	}
	s.Advance(20 * time.Millisecond)
	if s.AnyPending() {
		t.Error("expected no pending tweens after the duration elapsed")
	}
}
