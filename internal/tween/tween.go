// Package tween implements a dynamic property system: named numeric
// properties (position, scale, opacity, color channels...) that
// interpolate from a start to an end value over a duration with a
// chosen easing curve, advanced once per frame tick. It plays the same
// role a fixed-point phase accumulator plays for audio waveforms — a
// per-tick fractional-progress accumulator driving a value generator —
// generalized from a wrapping audio phase to a clamped [0,1] animation
// progress.
package tween

import "time"

// Easing is a progress-remapping curve: given linear progress t in
// [0,1], it returns the eased progress in [0,1].
type Easing func(t float64) float64

// LinearEasing applies no remapping.
func LinearEasing(t float64) float64 { return t }

// EaseInQuad accelerates from zero velocity.
func EaseInQuad(t float64) float64 { return t * t }

// EaseOutQuad decelerates to zero velocity.
func EaseOutQuad(t float64) float64 { return t * (2 - t) }

// EaseInOutQuad accelerates then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Tween is one in-flight property animation. Name is opaque to this
// package (the sprite/effect layers interpret it), so a single Tween
// type serves position, scale, opacity, and color-channel tweens alike.
type Tween struct {
	Name     string
	From, To float64
	Duration time.Duration
	Elapsed  time.Duration
	Easing   Easing
	Done     bool
}

// New creates a Tween from 'from' to 'to' over duration, using easing
// (LinearEasing if nil).
func New(name string, from, to float64, duration time.Duration, easing Easing) *Tween {
	if easing == nil {
		easing = LinearEasing
	}
	return &Tween{Name: name, From: from, To: to, Duration: duration, Easing: easing}
}

// Advance steps the tween forward by dt and returns its current value.
// A zero-duration tween resolves to its end value immediately.
func (tw *Tween) Advance(dt time.Duration) float64 {
	if tw.Done {
		return tw.To
	}
	if tw.Duration <= 0 {
		tw.Done = true
		return tw.To
	}
	tw.Elapsed += dt
	if tw.Elapsed >= tw.Duration {
		tw.Done = true
		return tw.To
	}
	progress := float64(tw.Elapsed) / float64(tw.Duration)
	return tw.From + (tw.To-tw.From)*tw.Easing(progress)
}

// Value returns the tween's current value without advancing time.
func (tw *Tween) Value() float64 {
	if tw.Duration <= 0 {
		return tw.To
	}
	progress := float64(tw.Elapsed) / float64(tw.Duration)
	if progress > 1 {
		progress = 1
	}
	return tw.From + (tw.To-tw.From)*tw.Easing(progress)
}

// Set holds every active tween for one sprite/entity, keyed by property
// name; setting a new tween for a name already animating supersedes the
// old one mid-flight, starting from its last interpolated value.
type Set struct {
	byName map[string]*Tween
}

// NewSet creates an empty tween set.
func NewSet() *Set { return &Set{byName: make(map[string]*Tween)} }

// Start begins a new tween for name, starting from its current
// interpolated value if one was already in flight (so replacing a tween
// mid-animation doesn't visibly jump).
func (s *Set) Start(name string, to float64, duration time.Duration, easing Easing) *Tween {
	from := to
	if existing, ok := s.byName[name]; ok && !existing.Done {
		from = existing.Value()
	}
	tw := New(name, from, to, duration, easing)
	s.byName[name] = tw
	return tw
}

// Advance steps every in-flight tween by dt and returns the names that
// completed on this tick.
func (s *Set) Advance(dt time.Duration) []string {
	var completed []string
	for name, tw := range s.byName {
		if tw.Done {
			continue
		}
		tw.Advance(dt)
		if tw.Done {
			completed = append(completed, name)
		}
	}
	return completed
}

// Value returns the current value of a named property, and whether a
// tween for it exists.
func (s *Set) Value(name string) (float64, bool) {
	tw, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return tw.Value(), true
}

// Pending reports whether name is still animating.
func (s *Set) Pending(name string) bool {
	tw, ok := s.byName[name]
	return ok && !tw.Done
}

// AnyPending reports whether any property in the set is still animating.
func (s *Set) AnyPending() bool {
	for _, tw := range s.byName {
		if !tw.Done {
			return true
		}
	}
	return false
}
