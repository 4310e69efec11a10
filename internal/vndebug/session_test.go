package vndebug

import (
	"testing"

	"scenario-vn-core/internal/engine"
)

func newTestSession(t *testing.T, src string) *Session {
	t.Helper()
	e, err := engine.New([]byte(src), engine.Options{})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewSession(e)
}

func TestSetAndRemoveBreakpoint(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	key := s.SetBreakpoint("start", 0)
	if key != "start:0" {
		t.Errorf("key = %q, want %q", key, "start:0")
	}
	bps := s.Breakpoints()
	if len(bps) != 1 {
		t.Fatalf("len(Breakpoints()) = %d, want 1", len(bps))
	}
	if !bps[key].Enabled {
		t.Errorf("breakpoint not enabled by default")
	}

	if !s.RemoveBreakpoint(key) {
		t.Errorf("RemoveBreakpoint returned false for existing key")
	}
	if s.RemoveBreakpoint(key) {
		t.Errorf("RemoveBreakpoint returned true for already-removed key")
	}
	if len(s.Breakpoints()) != 0 {
		t.Errorf("breakpoint still present after removal")
	}
}

func TestSetBreakpointEnabled(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	key := s.SetBreakpoint("start", 0)

	if !s.SetBreakpointEnabled(key, false) {
		t.Fatalf("SetBreakpointEnabled(false) returned false")
	}
	if s.Breakpoints()[key].Enabled {
		t.Errorf("breakpoint still enabled after disabling")
	}
	if s.SetBreakpointEnabled("missing:0", true) {
		t.Errorf("SetBreakpointEnabled on unknown key returned true")
	}
}

func TestClearBreakpoints(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	s.SetBreakpoint("a", 0)
	s.SetBreakpoint("b", 1)
	s.ClearBreakpoints()
	if len(s.Breakpoints()) != 0 {
		t.Errorf("breakpoints remain after ClearBreakpoints")
	}
}

func TestWatchIntSlot(t *testing.T) {
	s := newTestSession(t, "mov %5,42\n")
	if err := s.Engine.Eval.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s.AddWatch("%5")
	vals := s.Watches()
	if len(vals) != 1 {
		t.Fatalf("len(Watches()) = %d, want 1", len(vals))
	}
	if vals[0].Err != nil {
		t.Fatalf("watch error: %v", vals[0].Err)
	}
	if vals[0].Value != "42" {
		t.Errorf("watch value = %q, want %q", vals[0].Value, "42")
	}
}

func TestWatchStrSlot(t *testing.T) {
	s := newTestSession(t, `mov $2,"hello"` + "\n")
	if err := s.Engine.Eval.Run(10); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s.AddWatch("$2")
	vals := s.Watches()
	if vals[0].Value != "hello" {
		t.Errorf("watch value = %q, want %q", vals[0].Value, "hello")
	}
}

func TestWatchUnknownAlias(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	s.AddWatch("nosuchalias")
	vals := s.Watches()
	if vals[0].Err == nil {
		t.Errorf("expected error for unknown alias, got none")
	}
}

func TestRemoveWatch(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	s.AddWatch("%0")
	s.AddWatch("%1")
	if !s.RemoveWatch(0) {
		t.Fatalf("RemoveWatch(0) returned false")
	}
	vals := s.Watches()
	if len(vals) != 1 || vals[0].Expr != "%1" {
		t.Errorf("watches after removal = %+v, want [%%1]", vals)
	}
	if s.RemoveWatch(5) {
		t.Errorf("RemoveWatch(5) returned true for out-of-range index")
	}
}

func TestPauseResumeStep(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	if !s.IsPaused() {
		t.Errorf("new session should start paused")
	}
	s.Resume()
	if s.IsPaused() {
		t.Errorf("session paused after Resume")
	}
	s.Pause()
	if !s.IsPaused() {
		t.Errorf("session not paused after Pause")
	}
}

func TestShouldBreakOnBreakpoint(t *testing.T) {
	s := newTestSession(t, "*start\nmov %0,1\nmov %0,2\n")
	s.SetBreakpoint("start", 1)

	res, err := s.RunUntilBreak()
	if err != nil {
		t.Fatalf("RunUntilBreak: %v", err)
	}
	if res.Halted {
		t.Fatalf("script halted before hitting breakpoint")
	}
	if s.Engine.Eval.CurrentLine != 1 {
		t.Errorf("CurrentLine = %d, want 1 (stopped at breakpoint)", s.Engine.Eval.CurrentLine)
	}
	bps := s.Breakpoints()
	if bps["start:1"].HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", bps["start:1"].HitCount)
	}
}

func TestShouldBreakStepBudget(t *testing.T) {
	s := newTestSession(t, "mov %0,1\nmov %0,2\nmov %0,3\n")
	s.StepN(2)
	res, err := s.RunUntilBreak()
	if err != nil {
		t.Fatalf("RunUntilBreak: %v", err)
	}
	if res.Halted {
		t.Fatalf("script halted before step budget ran out")
	}
	if !s.IsPaused() {
		t.Errorf("session should be paused after step budget exhausted")
	}
}

func TestRunUntilBreakHalts(t *testing.T) {
	s := newTestSession(t, "mov %0,1\n")
	s.Resume()
	res, err := s.RunUntilBreak()
	if err != nil {
		t.Fatalf("RunUntilBreak: %v", err)
	}
	if !res.Halted {
		t.Errorf("expected script to halt with no breakpoints set")
	}
	if !s.IsPaused() {
		t.Errorf("session should pause once the script halts")
	}
}
