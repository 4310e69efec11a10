// Package effect implements the transition engine: a named effect
// (cross-fade, mask-fade, or an externally-named
// DLL-style effect) runs over a duration, reporting progress in [0,1] to
// the render adapter each tick. It reuses internal/tween's progress
// accumulator rather than duplicating one, since a transition is itself
// just a single eased property (blend amount) animating from 0 to 1.
package effect

import (
	"fmt"
	"time"

	"scenario-vn-core/internal/tween"
)

// Kind distinguishes the builtin transition families from a
// caller-supplied named effect (whirl, breakup, glass-smash, and
// similar), kept here as an opaque string key resolved by the render
// adapter rather than a loaded plugin — there is no dynamic-library
// loading in Go, and this engine's external collaborator is
// internal/ports, not an OS loader.
type Kind int

const (
	KindCrossFade Kind = iota
	KindMaskFade
	KindNamed
)

// Effect is one in-flight transition.
type Effect struct {
	Kind     Kind
	Name     string // mask asset path (MaskFade) or effect name (Named)
	progress *tween.Tween
}

// New starts a transition over duration. MaskFade effects name the mask
// asset via name; Named effects name the effect identifier.
func New(kind Kind, name string, duration time.Duration) *Effect {
	return &Effect{
		Kind:     kind,
		Name:     name,
		progress: tween.New("blend", 0, 1, duration, tween.EaseInOutQuad),
	}
}

// Advance steps the transition forward by dt and returns its current
// blend progress in [0,1].
func (e *Effect) Advance(dt time.Duration) float64 {
	return e.progress.Advance(dt)
}

// Done reports whether the transition has finished.
func (e *Effect) Done() bool { return e.progress.Done }

// Describe renders a short description for logging/debugging.
func (e *Effect) Describe() string {
	switch e.Kind {
	case KindCrossFade:
		return "cross-fade"
	case KindMaskFade:
		return fmt.Sprintf("mask-fade(%s)", e.Name)
	case KindNamed:
		return fmt.Sprintf("effect(%s)", e.Name)
	default:
		return "effect"
	}
}

// Engine serializes transitions: effects are exclusive — only one runs
// at a time, and a new effect request while one is active
// either queues or replaces depending on the command, decided here by
// simply replacing (matching NScripter's own "the last effect command
// wins" behavior for unbarriered effect requests).
type Engine struct {
	current *Effect
}

// NewEngine creates an empty effect engine.
func NewEngine() *Engine { return &Engine{} }

// Start begins a new transition, replacing any in-flight one.
func (eng *Engine) Start(kind Kind, name string, duration time.Duration) *Effect {
	eng.current = New(kind, name, duration)
	return eng.current
}

// Advance steps the current transition, if any, and clears it once done.
// Returns the current blend progress and whether a transition is active.
func (eng *Engine) Advance(dt time.Duration) (float64, bool) {
	if eng.current == nil {
		return 0, false
	}
	p := eng.current.Advance(dt)
	if eng.current.Done() {
		eng.current = nil
		return 1, true
	}
	return p, true
}

// Active reports whether a transition is currently running.
func (eng *Engine) Active() bool { return eng.current != nil }
