// Package eval is the command evaluator: it walks the script.Buffer one
// token at a time from the evaluator's current address, dispatching each
// command name to either a user-defined sub (checked first) or a builtin
// handler, and advancing the kidoku bitmap as it goes. It plays the role a
// CPU's Step method plays for a fetch-decode-execute loop, but over a
// line-oriented text script instead of a fixed-width instruction stream.
package eval

import (
	"fmt"

	"scenario-vn-core/internal/callstack"
	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/lexer"
	"scenario-vn-core/internal/script"
	"scenario-vn-core/internal/vars"
)

// CommandFunc is a builtin command's handler. r is positioned just past
// the command name; the handler is responsible for reading its own
// arguments and leaving r positioned at the end of what it consumed.
type CommandFunc func(ev *Evaluator, r *lexer.Reader) error

// UserSub is a script-defined subroutine registered by defsub/luasub;
// user-defined subs are checked before the builtin table. Address is the
// label address gosub should jump to.
type UserSub struct {
	Name    string
	Address int
}

// Evaluator is the single-threaded command interpreter: current address,
// current label/line (updated on every jump), the call stack, variable
// store, and the dispatch tables.
type Evaluator struct {
	Buf    *script.Buffer
	Labels *script.LabelIndex
	Vars   *vars.Store
	Stack  *callstack.Stack
	Err    *errs.Handler

	Pos          int
	CurrentLabel string
	CurrentLine  int

	// Hosts is the set of external-subsystem callbacks for commands that
	// touch not-yet-dispatched-here concerns (dialogue, choices, skip,
	// save/load). Left nil in a bare Evaluator used for control-flow and
	// arithmetic unit tests.
	Hosts Hosts

	rnd randSource

	builtins  map[string]CommandFunc
	userSubs  map[string]UserSub
	ignoreCmd map[string]bool

	// argReaders is a stack of lexer.Reader, one per currently active
	// gosub/call-user-sub frame, each positioned over that call's raw
	// argument text. It stays depth-synchronized with LABEL frames on the
	// call stack (every gosub/callUserSub pushes exactly one, every return
	// pops exactly one), so getparam can read successive comma-separated
	// values across repeated calls without losing its place, as the
	// defsub/getparam pairing requires.
	argReaders []*lexer.Reader

	// jumped is set by jumpTo when a control-flow handler repositions Pos
	// itself; Step must not then overwrite Pos with the reader's own
	// advancement.
	jumped bool

	// superSkipDest is the address sskip is fast-forwarding toward, or -1
	// when no super-skip is in flight. checkSuperSkipArrival compares it
	// against every address execution lands on, whether by an explicit
	// jump (jumpTo) or by falling straight through a label definition in
	// Step's ordinary token loop (TokLabel case, which never calls
	// jumpTo).
	superSkipDest int
}

// New creates an Evaluator positioned at the start of buf, with an empty
// call stack and the builtin command table installed.
func New(buf *script.Buffer, labels *script.LabelIndex, store *vars.Store, stack *callstack.Stack, errHandler *errs.Handler) *Evaluator {
	ev := &Evaluator{
		Buf:           buf,
		Labels:        labels,
		Vars:          store,
		Stack:         stack,
		Err:           errHandler,
		userSubs:      make(map[string]UserSub),
		ignoreCmd:     make(map[string]bool),
		rnd:           newRandSource(1),
		superSkipDest: -1,
	}
	ev.builtins = defaultBuiltins()
	return ev
}

// DefineSub registers a defsub/luasub user subroutine, checked ahead of
// the builtin table on dispatch.
func (ev *Evaluator) DefineSub(name string, addr int) {
	ev.userSubs[name] = UserSub{Name: name, Address: addr}
}

// IgnoreCommand marks a command name to be parsed (its line skipped) but
// never dispatched, mirroring the ignore_cmd/ignore_inl_cmd sets.
func (ev *Evaluator) IgnoreCommand(name string) { ev.ignoreCmd[name] = true }

// PushArgs pushes a new argument reader for the call frame being entered,
// positioned over a defensive copy of raw.
func (ev *Evaluator) PushArgs(raw []byte) {
	cp := append([]byte(nil), raw...)
	ev.argReaders = append(ev.argReaders, lexer.New(cp, varsAdapter{ev.Vars}))
}

// PopArgs discards the argument reader for the call frame being left.
func (ev *Evaluator) PopArgs() {
	if len(ev.argReaders) == 0 {
		return
	}
	ev.argReaders = ev.argReaders[:len(ev.argReaders)-1]
}

// topArgs returns the argument reader for the innermost active call frame,
// or nil if there isn't one (getparam called outside any call).
func (ev *Evaluator) topArgs() *lexer.Reader {
	if len(ev.argReaders) == 0 {
		return nil
	}
	return ev.argReaders[len(ev.argReaders)-1]
}

func (ev *Evaluator) newReaderAt(addr int) *lexer.Reader {
	return lexer.New(ev.Buf.Slice(addr, ev.Buf.Len()), varsAdapter{ev.Vars})
}

// jumpTo repositions the evaluator to addr, updating CurrentLabel and
// CurrentLine unconditionally: every label jump, including a
// tilde-style fallthrough jump, refreshes both.
func (ev *Evaluator) jumpTo(addr int, label string) {
	ev.Pos = addr
	ev.jumped = true
	ev.CurrentLabel = label
	ev.CurrentLine = ev.Buf.LineAt(addr)
	ev.checkSuperSkipArrival(addr)
}

// checkSuperSkipArrival ends a running super-skip the instant execution
// reaches its recorded destination address — whether that address was
// landed on by an explicit jump (jumpTo, here) or by falling straight
// through a label definition in the ordinary Step loop (the TokLabel
// case below, which doesn't go through jumpTo).
func (ev *Evaluator) checkSuperSkipArrival(addr int) {
	if ev.superSkipDest == addr && ev.Hosts.Skip != nil {
		ev.Hosts.Skip.EndSuperSkip()
		ev.superSkipDest = -1
	}
}

// markAndAdvance records the kidoku span [base, base+r.Pos()) that was
// just read, and — unless a handler already repositioned Pos via jumpTo —
// advances Pos to the end of that span.
func (ev *Evaluator) markAndAdvance(r *lexer.Reader, base int) {
	newAddr := base + r.Pos()
	ev.Buf.MarkKidoku(base, newAddr)
	if !ev.jumped {
		ev.Pos = newAddr
	}
	ev.jumped = false
}

// StepResult reports what Step did, for the scheduler/engine loop above
// it to decide whether to yield (e.g. after a dialogue-emitting command).
type StepResult struct {
	Halted   bool   // reached end of script
	Executed string // the command name dispatched, if any
}

// Step executes exactly one command (skipping over bare newlines, ':'
// statement separators, '~' markers, and label definitions encountered in
// straight-line flow) and returns. Callers loop on Step to run the script.
func (ev *Evaluator) Step() (StepResult, error) {
	for {
		base := ev.Pos
		r := ev.newReaderAt(base)
		tok, err := r.ReadToken()
		if err != nil {
			ev.markAndAdvance(r, base)
			return StepResult{}, errs.Parse(err.Error()).At("", ev.CurrentLabel, ev.CurrentLine)
		}

		switch tok.Kind {
		case lexer.TokEOF:
			ev.markAndAdvance(r, base)
			return StepResult{Halted: true}, nil

		case lexer.TokNewline:
			ev.markAndAdvance(r, base)
			ev.CurrentLine++
			continue

		case lexer.TokColon, lexer.TokTilde:
			ev.markAndAdvance(r, base)
			continue

		case lexer.TokLabel:
			ev.markAndAdvance(r, base)
			ev.CurrentLabel = tok.Text
			ev.CurrentLine = ev.Buf.LineAt(ev.Pos)
			ev.checkSuperSkipArrival(ev.Pos)
			continue

		case lexer.TokCommand:
			name := tok.Text
			if ev.ignoreCmd[name] {
				r.SkipToLineEnd()
				ev.markAndAdvance(r, base)
				continue
			}
			dispatchErr := ev.dispatch(name, r)
			ev.markAndAdvance(r, base)
			if dispatchErr != nil {
				var ee *errs.Error
				if as, ok := dispatchErr.(*errs.Error); ok {
					ee = as
				} else {
					ee = errs.Parse(dispatchErr.Error())
				}
				ee.At(name, ev.CurrentLabel, ev.CurrentLine)
				if ev.Err != nil {
					ev.Err.Handle(ee)
				}
				return StepResult{Executed: name}, ee
			}
			return StepResult{Executed: name}, nil
		}
	}
}

// Run drives Step until the script halts or an unrecovered error occurs.
// Warnings (non-fatal *errs.Error) are already routed through ev.Err
// inside dispatch's caller and do not stop the loop; fatal kinds do.
func (ev *Evaluator) Run(maxSteps int) error {
	for i := 0; maxSteps <= 0 || i < maxSteps; i++ {
		res, err := ev.Step()
		if err != nil {
			if ee, ok := err.(*errs.Error); ok && !ee.Kind.Fatal() {
				continue
			}
			return err
		}
		if res.Halted {
			return nil
		}
	}
	return fmt.Errorf("eval: exceeded max step count %d", maxSteps)
}

func (ev *Evaluator) dispatch(name string, r *lexer.Reader) error {
	if sub, ok := ev.userSubs[name]; ok {
		return ev.callUserSub(sub, r)
	}
	if fn, ok := ev.builtins[name]; ok {
		return fn(ev, r)
	}
	return errs.Access(fmt.Sprintf("unknown command %q", name))
}

// callUserSub treats an unqualified command name that matches a
// defsub/luasub registration as an implicit gosub to it, capturing the
// remainder of the line as argument text for getparam.
func (ev *Evaluator) callUserSub(sub UserSub, r *lexer.Reader) error {
	r.SkipCommas()
	argsText := r.RemainingLine()
	r.SkipToLineEnd()
	returnAddr := ev.curBaseAddr(r)
	ev.Stack.PushLabel(returnAddr, ev.CurrentLabel, ev.CurrentLine, sub.Address)
	ev.PushArgs(argsText)
	lbl, _ := ev.Labels.ByAddress(sub.Address)
	ev.jumpTo(sub.Address, lbl.Name)
	return nil
}

// curBaseAddr recovers the absolute address corresponding to r's current
// cursor, given r was created at ev.Pos by newReaderAt for the command
// currently executing. Safe to call only from within a builtin handler
// during the Step call that created r.
func (ev *Evaluator) curBaseAddr(r *lexer.Reader) int {
	return ev.Pos + r.Pos()
}
