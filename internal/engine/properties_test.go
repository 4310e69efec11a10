package engine

import (
	"testing"
	"time"

	"scenario-vn-core/internal/sprite"
)

// runConcurrently starts RunScript on its own goroutine (mirroring
// cmd/vnengine's split between the script goroutine and the ticking
// goroutine) and ticks e in small steps from the caller until RunScript
// returns or the deadline passes.
func runConcurrently(t *testing.T, e *Engine, maxSteps int, deadline time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- e.RunScript(maxSteps) }()

	timeout := time.After(deadline)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			e.Tick(5 * time.Millisecond)
		case <-timeout:
			t.Fatal("timed out waiting for RunScript to finish")
			return nil
		}
	}
}

// TestSpritePropertyTweenCompletesAndBlocksWait drives aspt/waitonsprite-
// property through the real engine across the script/tick goroutine
// split: the tween only advances via Tick, so the script goroutine must
// genuinely block on the wait until enough ticks land.
func TestSpritePropertyTweenCompletesAndBlocksWait(t *testing.T) {
	src := "aspt 1,opacity,80,40\n" +
		"waitonspriteproperty 1,opacity\n" +
		"mov %0,1\n"
	e := newTestEngine(t, src)
	e.Sprites.Set(sprite.Entry{No: 1, Visible: true, ScaleX: 1, ScaleY: 1})

	if err := runConcurrently(t, e, 1000, 2*time.Second); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(0); got != 1 {
		t.Errorf("%%0 = %d, want 1 (wait should have unblocked once the tween finished)", got)
	}
	entry, ok := e.Sprites.Get(1)
	if !ok {
		t.Fatal("sprite 1 missing after tween")
	}
	if entry.Opacity != 80 {
		t.Errorf("Opacity = %v, want 80 (final tween value folded back into the sprite entry)", entry.Opacity)
	}
}

// TestSpritePropertyRelativeTween checks spt computes its target off the
// sprite's pre-tween baseline value.
func TestSpritePropertyRelativeTween(t *testing.T) {
	src := "spt 1,x,15,20\n" +
		"waitonspriteproperty 1,x\n" +
		"mov %0,1\n"
	e := newTestEngine(t, src)
	e.Sprites.Set(sprite.Entry{No: 1, Visible: true, X: 10, ScaleX: 1, ScaleY: 1})

	if err := runConcurrently(t, e, 1000, 2*time.Second); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	entry, ok := e.Sprites.Get(1)
	if !ok {
		t.Fatal("sprite 1 missing after tween")
	}
	if entry.X != 25 {
		t.Errorf("X = %v, want 25 (10 baseline + 15 delta)", entry.X)
	}
}

// TestQueuedPropertyTweenWaitsForInFlightOne checks the "queued unless
// override" rule: a second aspt on the same property without override
// does not preempt the first, but runs after it completes.
func TestQueuedPropertyTweenWaitsForInFlightOne(t *testing.T) {
	src := "aspt 1,opacity,50,30\n" +
		"aspt 1,opacity,90,10\n" +
		"waitonspriteproperty 1,opacity\n" +
		"mov %0,1\n"
	e := newTestEngine(t, src)
	e.Sprites.Set(sprite.Entry{No: 1, Visible: true, ScaleX: 1, ScaleY: 1})

	if err := runConcurrently(t, e, 1000, 2*time.Second); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	entry, ok := e.Sprites.Get(1)
	if !ok {
		t.Fatal("sprite 1 missing after tween")
	}
	if entry.Opacity != 90 {
		t.Errorf("Opacity = %v, want 90 (queued tween should run after the first completes)", entry.Opacity)
	}
}

// TestOverridePropertyTweenPreemptsQueue checks override=1 replaces the
// in-flight tween immediately instead of queuing behind it.
func TestOverridePropertyTweenPreemptsQueue(t *testing.T) {
	src := "aspt 1,opacity,50,500\n" +
		"aspt 1,opacity,90,10,0,1\n" +
		"waitonspriteproperty 1,opacity\n" +
		"mov %0,1\n"
	e := newTestEngine(t, src)
	e.Sprites.Set(sprite.Entry{No: 1, Visible: true, ScaleX: 1, ScaleY: 1})

	if err := runConcurrently(t, e, 1000, 2*time.Second); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	entry, ok := e.Sprites.Get(1)
	if !ok {
		t.Fatal("sprite 1 missing after tween")
	}
	if entry.Opacity != 90 {
		t.Errorf("Opacity = %v, want 90 (override should have preempted the 500ms tween)", entry.Opacity)
	}
}

// TestGlobalPropertyTweenCompletes exercises agpt/waitonglobalproperty,
// the no-sprite-attached half of the dynamic property system.
func TestGlobalPropertyTweenCompletes(t *testing.T) {
	src := "agpt volume,0,80,30\n" +
		"waitonglobalproperty volume,0\n" +
		"mov %0,1\n"
	e := newTestEngine(t, src)

	if err := runConcurrently(t, e, 1000, 2*time.Second); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if got := e.Vars.Int(0); got != 1 {
		t.Errorf("%%0 = %d, want 1", got)
	}
}
