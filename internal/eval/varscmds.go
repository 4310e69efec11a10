package eval

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/lexer"
)

// intTarget is an assignable integer location — a %N slot or a ?N[idx]
// array element — produced by readIntTarget so the arithmetic commands
// (mov/add/sub/mul/div/mod/inc/dec/rnd) share one read-modify-write path.
type intTarget struct {
	get func() int32
	set func(int32)
}

func (ev *Evaluator) readIntTarget(r *lexer.Reader) (intTarget, error) {
	r.SkipSpace()
	switch r.PeekByte() {
	case '%':
		r.Advance()
		n, err := r.ReadUint()
		if err != nil {
			return intTarget{}, err
		}
		return intTarget{
			get: func() int32 { return ev.Vars.Int(n) },
			set: func(v int32) { ev.Vars.SetInt(n, v) },
		}, nil
	case '?':
		r.Advance()
		n, err := r.ReadUint()
		if err != nil {
			return intTarget{}, err
		}
		idx, err := r.ReadArraySubscripts()
		if err != nil {
			return intTarget{}, err
		}
		return intTarget{
			get: func() int32 {
				v, _ := ev.Vars.ArrayGet(n, idx)
				return v
			},
			set: func(v int32) { ev.Vars.ArraySet(n, idx, v) },
		}, nil
	}
	return intTarget{}, errs.Parse("expected a %N or ?N[...] integer target")
}

type strTarget struct {
	get func() string
	set func(string)
}

func (ev *Evaluator) readStrTarget(r *lexer.Reader) (strTarget, error) {
	r.SkipSpace()
	if r.PeekByte() != '$' {
		return strTarget{}, errs.Parse("expected a $N string target")
	}
	r.Advance()
	n, err := r.ReadUint()
	if err != nil {
		return strTarget{}, err
	}
	return strTarget{
		get: func() string { return ev.Vars.Str(n) },
		set: func(v string) { ev.Vars.SetStr(n, v) },
	}, nil
}

// cmdMov dispatches to an integer or string mov depending on whether the
// target is a $N slot.
func cmdMov(ev *Evaluator, r *lexer.Reader) error {
	r.SkipSpace()
	if r.PeekByte() == '$' {
		t, err := ev.readStrTarget(r)
		if err != nil {
			return err
		}
		r.SkipCommas()
		v, err := r.ReadStr()
		if err != nil {
			return errs.Parse(err.Error())
		}
		t.set(v)
		return nil
	}
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	v, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	t.set(v)
	return nil
}

func intArithCmd(op func(a, b int32) (int32, error)) CommandFunc {
	return func(ev *Evaluator, r *lexer.Reader) error {
		t, err := ev.readIntTarget(r)
		if err != nil {
			return err
		}
		r.SkipCommas()
		v, err := r.ReadInt()
		if err != nil {
			return errs.Parse(err.Error())
		}
		result, err := op(t.get(), v)
		if err != nil {
			return errs.Access(err.Error())
		}
		t.set(result)
		return nil
	}
}

// cmdAdd also supports `add $N, <str expr>` string concatenation, per
// NScripter's overload of `add` for string slots.
func cmdAdd(ev *Evaluator, r *lexer.Reader) error {
	r.SkipSpace()
	if r.PeekByte() == '$' {
		t, err := ev.readStrTarget(r)
		if err != nil {
			return err
		}
		r.SkipCommas()
		v, err := r.ReadStr()
		if err != nil {
			return errs.Parse(err.Error())
		}
		t.set(t.get() + v)
		return nil
	}
	return intArithCmd(func(a, b int32) (int32, error) { return a + b, nil })(ev, r)
}

func cmdSub(ev *Evaluator, r *lexer.Reader) error {
	return intArithCmd(func(a, b int32) (int32, error) { return a - b, nil })(ev, r)
}

func cmdMul(ev *Evaluator, r *lexer.Reader) error {
	return intArithCmd(func(a, b int32) (int32, error) { return a * b, nil })(ev, r)
}

func cmdDiv(ev *Evaluator, r *lexer.Reader) error {
	return intArithCmd(func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, errs.Access("division by zero")
		}
		return a / b, nil
	})(ev, r)
}

func cmdMod(ev *Evaluator, r *lexer.Reader) error {
	return intArithCmd(func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, errs.Access("division by zero in mod")
		}
		return a % b, nil
	})(ev, r)
}

func cmdInc(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	t.set(t.get() + 1)
	return nil
}

func cmdDec(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	t.set(t.get() - 1)
	return nil
}

func cmdDim(ev *Evaluator, r *lexer.Reader) error {
	r.SkipSpace()
	if r.PeekByte() != '?' {
		return errs.Parse("dim: expected ?N")
	}
	r.Advance()
	n, err := r.ReadUint()
	if err != nil {
		return errs.Parse(err.Error())
	}
	dims, err := r.ReadArraySubscripts()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Vars.Dim(n, dims); err != nil {
		return errs.Parse(err.Error())
	}
	return nil
}

func cmdNumAlias(ev *Evaluator, r *lexer.Reader) error {
	name, err := r.ReadIdentifier()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	v, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	ev.Vars.DefNumAlias(name, int(v))
	return nil
}

func cmdStrAlias(ev *Evaluator, r *lexer.Reader) error {
	name, err := r.ReadIdentifier()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	v, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	ev.Vars.DefStrAlias(name, v)
	return nil
}

// cmdRnd sets the target to a value in [0,n); the boundary case requires
// n<=1 to always resolve to 0.
func cmdRnd(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	n, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	t.set(int32(ev.rnd.Intn(int(n))))
	return nil
}

func cmdItoa(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readStrTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	v, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	t.set(strconv.Itoa(int(v)))
	return nil
}

func cmdAtoi(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	s, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errs.Access("atoi: " + err.Error())
	}
	t.set(int32(n))
	return nil
}

// cmdLen sets the target to the rune count of a string expression.
// Double-byte glyph-width accounting for on-screen layout is a rendering
// concern owned by internal/dialogue, not this character count.
func cmdLen(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	s, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	t.set(int32(utf8.RuneCountInString(s)))
	return nil
}

// cmdMid extracts a substring: mid $dst, $src or literal, start, length.
func cmdMid(ev *Evaluator, r *lexer.Reader) error {
	dst, err := ev.readStrTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	src, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	start, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	length, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	runes := []rune(src)
	lo := int(start)
	if lo < 0 {
		lo = 0
	}
	if lo > len(runes) {
		lo = len(runes)
	}
	hi := lo + int(length)
	if hi > len(runes) {
		hi = len(runes)
	}
	if hi < lo {
		hi = lo
	}
	dst.set(string(runes[lo:hi]))
	return nil
}

// cmdCmp sets the target to -1/0/1 from a lexicographic string compare.
func cmdCmp(ev *Evaluator, r *lexer.Reader) error {
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	r.SkipCommas()
	a, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	b, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	t.set(int32(strings.Compare(a, b)))
	return nil
}

// cmdSplit divides src on the first occurrence of delim, assigning the
// head to the first $-target and the remainder (recursively split over
// any further targets) to the rest; unmatched trailing targets are set to
// the empty string.
func cmdSplit(ev *Evaluator, r *lexer.Reader) error {
	src, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	delim, err := r.ReadStr()
	if err != nil {
		return errs.Parse(err.Error())
	}

	var targets []strTarget
	for {
		r.SkipCommas()
		r.SkipSpace()
		if r.PeekByte() != '$' {
			break
		}
		t, err := ev.readStrTarget(r)
		if err != nil {
			return err
		}
		targets = append(targets, t)
		if !r.HasMoreArgs() {
			break
		}
	}

	rest := src
	for i, t := range targets {
		if i == len(targets)-1 {
			t.set(rest)
			break
		}
		parts := strings.SplitN(rest, delim, 2)
		t.set(parts[0])
		if len(parts) > 1 {
			rest = parts[1]
		} else {
			rest = ""
		}
	}
	return nil
}

// cmdGetParam reads the next value from the innermost active call frame's
// argument text into the given target — an integer slot, array element,
// or string slot — completing the defsub/getparam pairing. Repeated
// calls within the same frame consume successive comma-separated values.
func cmdGetParam(ev *Evaluator, r *lexer.Reader) error {
	sub := ev.topArgs()
	if sub == nil {
		return errs.Access("getparam: no active call frame has arguments")
	}
	sub.SkipCommas()

	r.SkipSpace()
	if r.PeekByte() == '$' {
		t, err := ev.readStrTarget(r)
		if err != nil {
			return err
		}
		v, err := sub.ReadStr()
		if err != nil {
			return errs.Access("getparam: " + err.Error())
		}
		t.set(v)
		return nil
	}
	t, err := ev.readIntTarget(r)
	if err != nil {
		return err
	}
	v, err := sub.ReadInt()
	if err != nil {
		return errs.Access("getparam: " + err.Error())
	}
	t.set(v)
	return nil
}

// cmdDefSub registers a user subroutine by name, pointing at a label:
// `defsub name, *label`.
func cmdDefSub(ev *Evaluator, r *lexer.Reader) error {
	name, err := r.ReadIdentifier()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	lblName, err := r.ReadLabel()
	if err != nil {
		return errs.Parse(err.Error())
	}
	lbl, ok := ev.Labels.ByName(strings.TrimPrefix(lblName, "*"))
	if !ok {
		return errs.Access("defsub: label " + lblName + " not found")
	}
	ev.DefineSub(name, lbl.Address)
	return nil
}
