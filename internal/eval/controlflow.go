package eval

import (
	"fmt"
	"strings"

	"scenario-vn-core/internal/callstack"
	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/lexer"
)

func cmdGoto(ev *Evaluator, r *lexer.Reader) error {
	name, err := r.ReadLabel()
	if err != nil {
		return errs.Parse(err.Error())
	}
	lbl, ok := ev.Labels.ByName(strings.TrimPrefix(name, "*"))
	if !ok {
		return errs.Access(fmt.Sprintf("goto: label %s not found", name))
	}
	ev.jumpTo(lbl.Address, lbl.Name)
	return nil
}

// cmdGosub jumps to a label, pushing a LABEL frame whose return address is
// the start of the line following the gosub statement.
// Any text remaining on the line after the label (comma-separated
// arguments) is captured verbatim for a getparam consumer.
func cmdGosub(ev *Evaluator, r *lexer.Reader) error {
	name, err := r.ReadLabel()
	if err != nil {
		return errs.Parse(err.Error())
	}
	lbl, ok := ev.Labels.ByName(strings.TrimPrefix(name, "*"))
	if !ok {
		return errs.Access(fmt.Sprintf("gosub: label %s not found", name))
	}
	r.SkipCommas()
	argsText := r.RemainingLine()
	r.SkipToLineEnd()
	returnAddr := ev.curBaseAddr(r)

	ev.Stack.PushLabel(returnAddr, ev.CurrentLabel, ev.CurrentLine, lbl.Address)
	ev.PushArgs(argsText)
	ev.jumpTo(lbl.Address, lbl.Name)
	return nil
}

// cmdReturn pops the nearest LABEL frame and resumes at its return
// address, or at an explicit `return *label` target if one is given.
func cmdReturn(ev *Evaluator, r *lexer.Reader) error {
	lf, err := ev.Stack.Return()
	if err != nil {
		// Popping past an empty call stack is the sentinel frame sskip
		// leaves behind it (sskip requires an empty stack to start from):
		// under super-skip this marks the run's natural end rather than a
		// fatal error, so fold straight into end-of-script.
		if ev.Hosts.Skip != nil && ev.Hosts.Skip.SuppressesIO() {
			ev.Hosts.Skip.EndSuperSkip()
			ev.superSkipDest = -1
			ev.jumpTo(ev.Buf.Len(), ev.CurrentLabel)
			return nil
		}
		return errs.Access(err.Error())
	}
	ev.PopArgs()
	r.SkipSpace()
	if r.PeekByte() == '*' {
		name, err := r.ReadLabel()
		if err != nil {
			return errs.Parse(err.Error())
		}
		target, ok := ev.Labels.ByName(strings.TrimPrefix(name, "*"))
		if !ok {
			return errs.Access(fmt.Sprintf("return: label %s not found", name))
		}
		ev.jumpTo(target.Address, target.Name)
	} else {
		ev.jumpTo(lf.ReturnAddress, lf.ReturnLabel)
	}
	if lf.DialogueReturnEvent && ev.Hosts.Dialogue != nil {
		ev.Hosts.Dialogue.OnInlineCommandReturn()
	}
	return nil
}

// cmdEnd halts the script: it jumps to the end of the buffer so the next
// Step call reads TokEOF and reports Halted, the same halt path a
// sentinel-unwind return under super-skip already reuses.
func cmdEnd(ev *Evaluator, r *lexer.Reader) error {
	r.SkipToLineEnd()
	ev.jumpTo(ev.Buf.Len(), ev.CurrentLabel)
	return nil
}

// cmdFor parses `for %v = from to to [step s]` and pushes a FOR frame
// whose resume address is the start of the loop body (the line after the
// for statement).
func cmdFor(ev *Evaluator, r *lexer.Reader) error {
	r.SkipSpace()
	if r.PeekByte() != '%' {
		return errs.Parse("for: expected %N induction variable")
	}
	r.Advance()
	varNo, err := r.ReadUint()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipSpace()
	if r.PeekByte() != '=' {
		return errs.Parse("for: expected '='")
	}
	r.Advance()
	from, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if !r.MatchKeyword("to") {
		return errs.Parse("for: expected 'to'")
	}
	to, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	step := int32(1)
	if r.MatchKeyword("step") {
		step, err = r.ReadInt()
		if err != nil {
			return errs.Parse(err.Error())
		}
	}

	ev.Vars.SetInt(varNo, from)
	r.SkipToLineEnd()
	bodyAddr := ev.curBaseAddr(r)

	if _, err := ev.Stack.PushFor(bodyAddr, varNo, from, to, step); err != nil {
		return errs.Parse(err.Error())
	}
	return nil
}

// cmdNext applies the step/bound test to the nearest FOR frame, jumping
// back to the loop body when it continues and otherwise falling through
// (no jump; the frame has been popped).
func cmdNext(ev *Evaluator, r *lexer.Reader) error {
	top, ok := ev.Stack.Top()
	if !ok || top.Kind != callstack.KindFor {
		return errs.Access("next: no enclosing for loop")
	}
	ff := top.For
	curVal := ev.Vars.Int(ff.InductionVarNo)
	cont, poppedFF, err := ev.Stack.Next(curVal)
	if err != nil {
		return errs.Access(err.Error())
	}
	if cont {
		ev.Vars.SetInt(poppedFF.InductionVarNo, curVal+poppedFF.Step)
		ev.jumpTo(poppedFF.NextScriptAddress, ev.CurrentLabel)
	}
	return nil
}

// cmdBreak pops frames up to and including the nearest FOR frame, then
// either jumps to an explicit `break *label` target or scans forward to
// the matching `next` and resumes just past it.
func cmdBreak(ev *Evaluator, r *lexer.Reader) error {
	ff, err := ev.Stack.Break()
	if err != nil {
		if ev.Err != nil {
			ev.Err.ErrorAndCont(errs.Protocol("break outside any for loop"))
		}
		r.SkipToLineEnd()
		return nil
	}
	r.SkipSpace()
	if r.PeekByte() == '*' {
		name, err := r.ReadLabel()
		if err != nil {
			return errs.Parse(err.Error())
		}
		target, ok := ev.Labels.ByName(strings.TrimPrefix(name, "*"))
		if !ok {
			return errs.Access(fmt.Sprintf("break: label %s not found", name))
		}
		ev.jumpTo(target.Address, target.Name)
		return nil
	}
	addr, err := ev.findMatchingNext(ff.NextScriptAddress)
	if err != nil {
		return errs.Access(err.Error())
	}
	ev.jumpTo(addr, ev.CurrentLabel)
	return nil
}

// findMatchingNext scans forward from a for-loop's body start, tracking
// nested for/next depth, and returns the address just past the matching
// top-level `next`.
func (ev *Evaluator) findMatchingNext(bodyStart int) (int, error) {
	depth := 0
	pos := bodyStart
	for {
		r := ev.newReaderAt(pos)
		tok, err := r.ReadToken()
		if err != nil {
			return 0, err
		}
		switch tok.Kind {
		case lexer.TokEOF:
			return 0, fmt.Errorf("break: no matching 'next' found")
		case lexer.TokCommand:
			switch tok.Text {
			case "for":
				depth++
			case "next":
				if depth == 0 {
					return pos + r.Pos(), nil
				}
				depth--
			}
			r.SkipToLineEnd()
		}
		pos += r.Pos()
		if pos == bodyStart && tok.Kind != lexer.TokCommand {
			// Guard against a zero-advancement token causing an infinite
			// loop on malformed input (should not happen: ReadToken always
			// consumes at least one byte for non-EOF tokens).
			return 0, fmt.Errorf("break: scan made no progress")
		}
	}
}

// evalCondChain evaluates an if/notif condition: one comparison, optionally
// followed by a chain of `&` (AND) or `|` (OR) combinators — a single
// expression never mixes '&' and '|'. Each term
// may be parenthesized, e.g. `a==b &(a==c)`.
func evalCondChain(r *lexer.Reader) (bool, error) {
	result, err := evalCondTerm(r)
	if err != nil {
		return false, err
	}
	var combinator byte
	for {
		r.SkipSpace()
		b := r.PeekByte()
		if b != '&' && b != '|' {
			break
		}
		if combinator == 0 {
			combinator = b
		} else if combinator != b {
			return false, fmt.Errorf("if: cannot mix '&' and '|' in one condition")
		}
		r.Advance()
		r.SkipSpace()
		next, err := evalCondTerm(r)
		if err != nil {
			return false, err
		}
		if combinator == '&' {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result, nil
}

// evalCondTerm evaluates one (possibly parenthesized) comparison.
func evalCondTerm(r *lexer.Reader) (bool, error) {
	r.SkipSpace()
	if r.PeekByte() == '(' {
		r.Advance()
		v, err := evalCondChain(r)
		if err != nil {
			return false, err
		}
		r.SkipSpace()
		if r.PeekByte() != ')' {
			return false, fmt.Errorf("if: expected ')'")
		}
		r.Advance()
		return v, nil
	}
	return evalOneCond(r)
}

// evalOneCond reads a single comparison `lhs OP rhs`, sniffing whether
// the operands are string- or integer-typed from the first lookahead
// byte (a quote, backtick, '$', or '#' means a string operand; anything
// else is treated as an integer expression). Mixed-type comparisons are
// not fully specified upstream; this heuristic is recorded in DESIGN.md.
func evalOneCond(r *lexer.Reader) (bool, error) {
	if looksLikeStringOperand(r) {
		lhs, err := r.ReadStr()
		if err != nil {
			return false, err
		}
		op, err := readCompareOp(r)
		if err != nil {
			return false, err
		}
		rhs, err := r.ReadStr()
		if err != nil {
			return false, err
		}
		return compareStrings(op, lhs, rhs)
	}
	lhs, err := r.ReadInt()
	if err != nil {
		return false, err
	}
	op, err := readCompareOp(r)
	if err != nil {
		return false, err
	}
	rhs, err := r.ReadInt()
	if err != nil {
		return false, err
	}
	return compareInts(op, lhs, rhs)
}

func looksLikeStringOperand(r *lexer.Reader) bool {
	r.SkipSpace()
	switch r.PeekByte() {
	case '"', '`', '$', '#':
		return true
	}
	return false
}

func readCompareOp(r *lexer.Reader) (string, error) {
	r.SkipSpace()
	switch r.PeekByte() {
	case '=':
		r.Advance()
		if r.PeekByte() == '=' {
			r.Advance()
		}
		return "==", nil
	case '!':
		r.Advance()
		if r.PeekByte() != '=' {
			return "", fmt.Errorf("if: expected '=' after '!'")
		}
		r.Advance()
		return "!=", nil
	case '<':
		r.Advance()
		if r.PeekByte() == '=' {
			r.Advance()
			return "<=", nil
		}
		if r.PeekByte() == '>' {
			r.Advance()
			return "!=", nil
		}
		return "<", nil
	case '>':
		r.Advance()
		if r.PeekByte() == '=' {
			r.Advance()
			return ">=", nil
		}
		return ">", nil
	}
	return "", fmt.Errorf("if: expected a comparison operator")
}

func compareInts(op string, a, b int32) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("if: unknown operator %q", op)
}

func compareStrings(op string, a, b string) (bool, error) {
	switch op {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("if: unknown operator %q", op)
}

// cmdIf evaluates the condition chain; if true it continues straight into
// the rest of the line as the next command, otherwise it discards the
// rest of the line.
func cmdIf(ev *Evaluator, r *lexer.Reader) error {
	return runConditional(ev, r, true)
}

// cmdNotif is `if` with the truth test inverted.
func cmdNotif(ev *Evaluator, r *lexer.Reader) error {
	return runConditional(ev, r, false)
}

func runConditional(ev *Evaluator, r *lexer.Reader, wantTrue bool) error {
	cond, err := evalCondChain(r)
	if err != nil {
		return errs.Parse(err.Error())
	}
	if cond != wantTrue {
		r.SkipToLineEnd()
		return nil
	}
	r.SkipSpace()
	if r.AtLineEnd() {
		return nil
	}
	tok, err := r.ReadToken()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if tok.Kind != lexer.TokCommand {
		return errs.Parse("if: expected a command after condition")
	}
	if ev.ignoreCmd[tok.Text] {
		r.SkipToLineEnd()
		return nil
	}
	return ev.dispatch(tok.Text, r)
}
