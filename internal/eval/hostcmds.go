package eval

import (
	"fmt"
	"strings"

	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/lexer"
)

// These handlers all read a command's arguments, then delegate the
// actual effect to whichever Hosts.* implementation the engine wired in.
// A nil host is an invariant violation: the builtin table should only be
// reachable once internal/engine has finished wiring every host.

func cmdDialogueEmit(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Dialogue == nil {
		return errs.Invariant("d: no dialogue host installed")
	}
	text, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Dialogue.Emit(text); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdDialogueEmit2 reads d2's argument as the raw current-line byte range
// (not a quoted string expression, unlike every other command that reads
// an operand via ReadStr) and emits it without clearing whatever page is
// already on screen, continuing it instead.
func cmdDialogueEmit2(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Dialogue == nil {
		return errs.Invariant("d2: no dialogue host installed")
	}
	r.SkipSpace()
	text := string(r.RemainingLine())
	r.SkipToLineEnd()
	if err := ev.Hosts.Dialogue.EmitContinue(text); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

func cmdWaitOnDialogue(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Dialogue == nil {
		return errs.Invariant("waitOnDialogue: no dialogue host installed")
	}
	n, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Dialogue.WaitOnDialogue(int(n)); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// choiceExhaustible is implemented by internal/logstate.Log: it reports
// whether the choice vector's accept cursor has reached the end, one of
// super-skip's termination conditions. Checked via an interface assertion
// rather than a direct import so eval never needs to know about
// logstate's concrete type.
type choiceExhaustible interface{ Exhausted() bool }

// cmdMakeChoice reads `makeChoice n[, n...]`: each value appends to the
// choice host's running vector.
func cmdMakeChoice(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Choice == nil {
		return errs.Invariant("makechoice: no choice host installed")
	}
	for {
		r.SkipSpace()
		if r.AtLineEnd() {
			break
		}
		n, err := r.ReadInt()
		if err != nil {
			return errs.Parse(err.Error())
		}
		if err := ev.Hosts.Choice.MakeChoice(int(n)); err != nil {
			return errs.Access(err.Error())
		}
		r.SkipCommas()
		if !r.HasMoreArgs() {
			break
		}
	}
	return nil
}

// cmdAcceptChoice reads `acceptChoice %var`: it stores
// choiceVector[acceptChoiceNextIndex++] into the variable. Under
// super-skip, exhausting the vector ends it.
func cmdAcceptChoice(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Choice == nil {
		return errs.Invariant("acceptchoice: no choice host installed")
	}
	target, err := ev.readIntTarget(r)
	if err != nil {
		return errs.Parse(err.Error())
	}
	selected, err := ev.Hosts.Choice.AcceptChoice()
	if err != nil {
		return errs.Access(err.Error())
	}
	target.set(int32(selected))
	if ev.Hosts.Skip != nil && ev.Hosts.Skip.SuppressesIO() {
		if ce, ok := ev.Hosts.Choice.(choiceExhaustible); ok && ce.Exhausted() {
			ev.Hosts.Skip.EndSuperSkip()
			ev.superSkipDest = -1
		}
	}
	return nil
}

// cmdAcceptChoiceVectorSize reads `accept_choice_vector_size n`: it
// declares the choice-vector size super-skip's acceptChoice-exhaustion
// check (termination condition (b)) compares the accept cursor against,
// distinct from however many choices makeChoice has actually recorded.
func cmdAcceptChoiceVectorSize(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Choice == nil {
		return errs.Invariant("accept_choice_vector_size: no choice host installed")
	}
	n, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Choice.SetChoiceVectorSize(int(n)); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdSuperSkip reads `sskip src_label, dst_label[, flags...]`. It
// captures the current position (requiring an empty call stack, the same
// precondition a coroutine's entry point requires of its caller), jumps
// to src_label, and enters super-skip. Arrival at dst_label's start
// address is then detected by checkSuperSkipArrival (called from every
// jump and from straight-line label fallthrough), and callstack
// underflow through a `return` with the stack already empty is
// treated by cmdReturn as the sentinel-unwind termination condition —
// both end super-skip without this handler staying involved.
func cmdSuperSkip(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Skip == nil {
		return errs.Invariant("sskip: no skip host installed")
	}
	if ev.Stack.Len() != 0 {
		return errs.Invariant("sskip: call stack must be empty")
	}
	srcName, err := r.ReadLabel()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	dstName, err := r.ReadLabel()
	if err != nil {
		return errs.Parse(err.Error())
	}
	src, ok := ev.Labels.ByName(strings.TrimPrefix(srcName, "*"))
	if !ok {
		return errs.Access(fmt.Sprintf("sskip: label %s not found", srcName))
	}
	dst, ok := ev.Labels.ByName(strings.TrimPrefix(dstName, "*"))
	if !ok {
		return errs.Access(fmt.Sprintf("sskip: label %s not found", dstName))
	}
	for {
		r.SkipCommas()
		if !r.HasMoreArgs() {
			break
		}
		if _, err := r.ReadInt(); err != nil {
			return errs.Parse(err.Error())
		}
	}
	if ev.superSkipDest == dst.Address && ev.Hosts.Skip.SuppressesIO() {
		// Already fast-forwarding toward this destination: the replay pass
		// from src_label looped back over this same sskip line rather than
		// issuing a fresh jump request. Fall straight through to whatever
		// comes next instead of jumping back to src_label again.
		return nil
	}
	if err := ev.Hosts.Skip.EnterSuperSkip(); err != nil {
		return errs.Access(err.Error())
	}
	ev.superSkipDest = dst.Address
	ev.jumpTo(src.Address, src.Name)
	return nil
}

func cmdSaveGame(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Save == nil {
		return errs.Invariant("savegame: no save host installed")
	}
	slot, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Save.SaveGame(int(slot)); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

func cmdLoadGame(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Save == nil {
		return errs.Invariant("loadgame: no save host installed")
	}
	slot, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Save.LoadGame(int(slot)); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}
