package eval

import "time"

// Hosts bundles the small consumer-defined interfaces that let eval
// dispatch dialogue, choice, skip, and save/load commands without
// importing those packages directly — the same host-interface pattern a
// CPU package uses for its MemoryInterface/LoggerInterface. Each
// package that implements one of these is built and wired in by
// internal/engine; a bare Evaluator used for control-flow/arithmetic
// tests leaves Hosts zeroed and never dispatches these commands.
type Hosts struct {
	Dialogue DialogueHost
	Choice   ChoiceHost
	Skip     SkipHost
	Save     SaveHost
	Property PropertyHost
}

// DialogueHost is implemented by internal/dialogue. Emit clears the page
// and starts a dialogue segment; EmitContinue (the `d2` command) appends
// one instead, without clearing what's already on screen.
// OnInlineCommandReturn fires when a `return` pops a frame flagged
// DialogueReturnEvent.
type DialogueHost interface {
	Emit(text string) error
	EmitContinue(text string) error
	WaitOnDialogue(barrierIndex int) error
	OnInlineCommandReturn()
}

// ChoiceHost is implemented by internal/logstate. MakeChoice appends a
// resolved branch index to the running choice vector; AcceptChoice pops
// the next recorded value off it — the mechanism super-skip's replay
// uses instead of blocking on input. SetChoiceVectorSize declares the
// vector's expected size (accept_choice_vector_size), a quantity kept
// distinct from how many values MakeChoice has actually appended.
type ChoiceHost interface {
	MakeChoice(n int) error
	AcceptChoice() (int, error)
	SetChoiceVectorSize(n int) error
}

// SkipHost is implemented by internal/skip.
type SkipHost interface {
	EnterSkip() error
	EnterSuperSkip() error
	EndSuperSkip()
	IsSkipping() bool
	SuppressesIO() bool
	ShrinkWait(n int) int
	ShrinkDelay(n int) int
}

// SaveHost is implemented by internal/save.
type SaveHost interface {
	SaveGame(slot int) error
	LoadGame(slot int) error
}

// PropertyHost dispatches the dynamic property system: tweened sprite
// and global-channel properties, plus the two commands that block the
// calling goroutine until a named tween finishes. no identifies a
// sprite for the Sprite* methods; prop is the bare property name as
// written in script source ("x", "opacity", "rotation", ...); channel
// selects among parallel global slots sharing a property name (0 when
// the property has no channel concept).
type PropertyHost interface {
	SetSpriteProperty(no int, prop string, value float64, duration time.Duration, equation int, override bool) error
	SetGlobalProperty(prop string, channel int, value float64, duration time.Duration, equation int, override bool) error
	SpritePropertyValue(no int, prop string) (float64, error)
	GlobalPropertyValue(prop string, channel int) (float64, error)
	WaitOnSpriteProperty(no int, prop string) error
	WaitOnGlobalProperty(prop string, channel int) error
}
