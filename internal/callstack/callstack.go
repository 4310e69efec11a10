// Package callstack implements the ordered nest-frame stack: LABEL frames
// (pushed by gosub, popped by return) and FOR frames (pushed by for, popped
// by next/break).
package callstack

import "fmt"

// Kind tags which variant a Frame holds: a tagged sum of Label and For.
type Kind int

const (
	KindLabel Kind = iota
	KindFor
)

// LabelFrame is pushed on gosub/textgosub/pretextgosub and popped by return.
type LabelFrame struct {
	ReturnAddress int
	ReturnLabel   string
	ReturnLine    int

	// PushedStringBufferOffset is set for textgosub-style frames that
	// save/restore the dialogue string buffer offset across the call.
	PushedStringBufferOffset int
	HasPushedStringBuffer    bool

	// DialogueReturnEvent marks a frame entered from the dialogue
	// controller's inline-command gosub; return from it emits
	// dialogueInlineCommandEnd instead of auto-reading the next token.
	DialogueReturnEvent bool

	// Uninterruptible is set true when this frame's entry label is a
	// member of the engine's uninterruptibleLabels set.
	Uninterruptible bool
}

// ForFrame is pushed by `for` and popped by `next`/`break`.
type ForFrame struct {
	NextScriptAddress int // one past the `for` statement
	InductionVarNo    int
	To                int32
	Step              int32
	BreakFlag         bool
}

// Frame is the tagged-sum nest frame.
type Frame struct {
	Kind  Kind
	Label *LabelFrame
	For   *ForFrame
}

// Stack is the engine's single call stack.
type Stack struct {
	frames []Frame

	// uninterruptibleLabels is a set of label start addresses; any frame
	// entering such a label has Uninterruptible set, and hasUninterruptible
	// becomes a derived OR over the whole stack.
	uninterruptibleLabels map[int]bool
}

// New creates an empty call stack.
func New() *Stack {
	return &Stack{uninterruptibleLabels: make(map[int]bool)}
}

// MarkUninterruptible registers a label address as uninterruptible.
func (s *Stack) MarkUninterruptible(addr int) {
	s.uninterruptibleLabels[addr] = true
}

// PushLabel pushes a LABEL frame. labelAddr is the address of the label
// being entered, used to decide Uninterruptible.
func (s *Stack) PushLabel(returnAddr int, returnLabel string, returnLine, labelAddr int) *LabelFrame {
	lf := &LabelFrame{
		ReturnAddress: returnAddr,
		ReturnLabel:   returnLabel,
		ReturnLine:    returnLine,
		Uninterruptible: s.uninterruptibleLabels[labelAddr],
	}
	s.frames = append(s.frames, Frame{Kind: KindLabel, Label: lf})
	return lf
}

// PushFor pushes a FOR frame. If from>to (ascending step) or from<to
// (descending step) produce an empty range, BreakFlag is set so the first
// `next` pops it immediately without looping.
func (s *Stack) PushFor(nextScriptAddr, inductionVarNo int, from, to, step int32) (*ForFrame, error) {
	if step == 0 {
		return nil, fmt.Errorf("for: step must not be 0")
	}
	ff := &ForFrame{
		NextScriptAddress: nextScriptAddr,
		InductionVarNo:    inductionVarNo,
		To:                to,
		Step:              step,
	}
	empty := (step > 0 && from > to) || (step < 0 && from < to)
	ff.BreakFlag = empty
	s.frames = append(s.frames, Frame{Kind: KindFor, For: ff})
	return ff, nil
}

// Top returns the top frame, if any.
func (s *Stack) Top() (*Frame, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	return &s.frames[len(s.frames)-1], true
}

// Pop removes and returns the top frame.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Len reports the current stack depth.
func (s *Stack) Len() int { return len(s.frames) }

// Frames exposes the stack slice for save/load serialization. Callers must
// not mutate the returned slice's frames directly except via Stack methods.
func (s *Stack) Frames() []Frame { return s.frames }

// Restore replaces the stack contents wholesale (used by the save/load
// serializer).
func (s *Stack) Restore(frames []Frame) { s.frames = frames }

// Return pops the nearest LABEL frame. It is a runtime error if the top
// frame is not a LABEL frame.
func (s *Stack) Return() (*LabelFrame, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("return: call stack is empty")
	}
	top := s.frames[len(s.frames)-1]
	if top.Kind != KindLabel {
		return nil, fmt.Errorf("return: top frame is not a LABEL frame")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return top.Label, nil
}

// Break finds the nearest FOR frame (searching from the top down), pops
// every frame above it along with the FOR frame itself, and returns the
// popped FOR frame's NextScriptAddress for the caller to seek to. `break`
// outside any FOR is a caller-visible error (the caller logs a warning and
// otherwise ignores it).
func (s *Stack) Break() (*ForFrame, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindFor {
			ff := s.frames[i].For
			s.frames = s.frames[:i]
			return ff, nil
		}
	}
	return nil, fmt.Errorf("break: no enclosing for loop")
}

// Next applies one step/bound test to the nearest FOR frame without
// popping other frames (next must be lexically inside the for's body, so
// the FOR frame is expected to be the top frame in well-formed scripts,
// but we search downward for robustness against stray nesting).
// It returns (continue, forFrame, error): continue==true means the loop
// body should run again; continue==false means the frame was popped.
func (s *Stack) Next(curVal int32) (bool, *ForFrame, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == KindFor {
			ff := s.frames[i].For
			if ff.BreakFlag {
				s.frames = append(s.frames[:i], s.frames[i+1:]...)
				return false, ff, nil
			}
			next := curVal + ff.Step
			done := (ff.Step > 0 && next > ff.To) || (ff.Step < 0 && next < ff.To)
			if done {
				s.frames = append(s.frames[:i], s.frames[i+1:]...)
				return false, ff, nil
			}
			return true, ff, nil
		}
	}
	return false, nil, fmt.Errorf("next: no enclosing for loop")
}

// HasUninterruptible reports whether any frame currently on the stack was
// entered via an uninterruptible label, gating input.
func (s *Stack) HasUninterruptible() bool {
	for _, f := range s.frames {
		if f.Kind == KindLabel && f.Label.Uninterruptible {
			return true
		}
	}
	return false
}
