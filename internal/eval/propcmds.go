package eval

import (
	"time"

	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/lexer"
)

// readTweenFlags reads the trailing, optional equation and override
// arguments every property-tween command shares: `..., equation, override`.
// Both default to 0 (LINEAR, queued-not-overriding) when omitted, the
// common case of a single untimed fade or move.
func readTweenFlags(r *lexer.Reader) (equation int, override bool, err error) {
	r.SkipCommas()
	if !r.HasMoreArgs() {
		return 0, false, nil
	}
	eq, err := r.ReadInt()
	if err != nil {
		return 0, false, errs.Parse(err.Error())
	}
	equation = int(eq)

	r.SkipCommas()
	if !r.HasMoreArgs() {
		return equation, false, nil
	}
	ov, err := r.ReadInt()
	if err != nil {
		return 0, false, errs.Parse(err.Error())
	}
	return equation, ov != 0, nil
}

// cmdAspt reads `aspt spriteNo, propName, value, durationMs[, equation[, override]]`:
// tween a sprite property to an absolute value.
func cmdAspt(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("aspt: no property host installed")
	}
	no, prop, value, duration, equation, override, err := readSpriteTweenArgs(r)
	if err != nil {
		return err
	}
	if err := ev.Hosts.Property.SetSpriteProperty(no, prop, value, duration, equation, override); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdSpt reads `spt spriteNo, propName, delta, durationMs[, equation[, override]]`:
// tween a sprite property by a delta relative to its current value.
func cmdSpt(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("spt: no property host installed")
	}
	no, prop, delta, duration, equation, override, err := readSpriteTweenArgs(r)
	if err != nil {
		return err
	}
	current, err := ev.Hosts.Property.SpritePropertyValue(no, prop)
	if err != nil {
		return errs.Access(err.Error())
	}
	if err := ev.Hosts.Property.SetSpriteProperty(no, prop, current+delta, duration, equation, override); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

func readSpriteTweenArgs(r *lexer.Reader) (no int, prop string, value float64, duration time.Duration, equation int, override bool, err error) {
	n, err := r.ReadInt()
	if err != nil {
		return 0, "", 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	p, err := r.ReadIdentifier()
	if err != nil {
		return 0, "", 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	v, err := r.ReadInt()
	if err != nil {
		return 0, "", 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	d, err := r.ReadInt()
	if err != nil {
		return 0, "", 0, 0, 0, false, errs.Parse(err.Error())
	}
	eq, ov, err := readTweenFlags(r)
	if err != nil {
		return 0, "", 0, 0, 0, false, err
	}
	return int(n), p, float64(v), time.Duration(d) * time.Millisecond, eq, ov, nil
}

// cmdAgpt reads `agpt propName, channel, value, durationMs[, equation[, override]]`:
// tween a global (not sprite-attached) property channel to an absolute
// value — mix volume, text speed, and similar script-wide knobs. channel
// is 0 for properties with no channel concept.
func cmdAgpt(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("agpt: no property host installed")
	}
	prop, channel, value, duration, equation, override, err := readGlobalTweenArgs(r)
	if err != nil {
		return err
	}
	if err := ev.Hosts.Property.SetGlobalProperty(prop, channel, value, duration, equation, override); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdGpt reads `gpt propName, channel, delta, durationMs[, equation[, override]]`.
func cmdGpt(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("gpt: no property host installed")
	}
	prop, channel, delta, duration, equation, override, err := readGlobalTweenArgs(r)
	if err != nil {
		return err
	}
	current, err := ev.Hosts.Property.GlobalPropertyValue(prop, channel)
	if err != nil {
		return errs.Access(err.Error())
	}
	if err := ev.Hosts.Property.SetGlobalProperty(prop, channel, current+delta, duration, equation, override); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

func readGlobalTweenArgs(r *lexer.Reader) (prop string, channel int, value float64, duration time.Duration, equation int, override bool, err error) {
	p, err := r.ReadIdentifier()
	if err != nil {
		return "", 0, 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	ch, err := r.ReadInt()
	if err != nil {
		return "", 0, 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	v, err := r.ReadInt()
	if err != nil {
		return "", 0, 0, 0, 0, false, errs.Parse(err.Error())
	}
	r.SkipCommas()
	d, err := r.ReadInt()
	if err != nil {
		return "", 0, 0, 0, 0, false, errs.Parse(err.Error())
	}
	eq, ov, err := readTweenFlags(r)
	if err != nil {
		return "", 0, 0, 0, 0, false, err
	}
	return p, int(ch), float64(v), time.Duration(d) * time.Millisecond, eq, ov, nil
}

// cmdWaitOnSpriteProperty reads `waitOnSpriteProperty spriteNo, propName`
// and blocks the running script until that sprite's tween (if any) for
// propName finishes.
func cmdWaitOnSpriteProperty(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("waitonspriteproperty: no property host installed")
	}
	no, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	prop, err := r.ReadIdentifier()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Property.WaitOnSpriteProperty(int(no), prop); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdWaitOnGlobalProperty reads `waitOnGlobalProperty propName, channel`.
func cmdWaitOnGlobalProperty(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Property == nil {
		return errs.Invariant("waitonglobalproperty: no property host installed")
	}
	prop, err := r.ReadIdentifier()
	if err != nil {
		return errs.Parse(err.Error())
	}
	r.SkipCommas()
	channel, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if err := ev.Hosts.Property.WaitOnGlobalProperty(prop, int(channel)); err != nil {
		return errs.Access(err.Error())
	}
	return nil
}

// cmdWait reads `wait n` (milliseconds) and blocks the calling goroutine
// for n, shrunk by the active skip mode's rules; under super-skip it
// returns immediately regardless of n, since super-skip suppresses IO
// pacing entirely rather than merely shrinking it.
func cmdWait(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Skip == nil {
		return errs.Invariant("wait: no skip host installed")
	}
	n, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if ev.Hosts.Skip.SuppressesIO() {
		return nil
	}
	if shrunk := ev.Hosts.Skip.ShrinkWait(int(n)); shrunk > 0 {
		time.Sleep(time.Duration(shrunk) * time.Millisecond)
	}
	return nil
}

// cmdDelay reads `delay n` (milliseconds): like wait, but ordinary skip
// collapses it to 0 rather than to a floor of 10ms.
func cmdDelay(ev *Evaluator, r *lexer.Reader) error {
	if ev.Hosts.Skip == nil {
		return errs.Invariant("delay: no skip host installed")
	}
	n, err := r.ReadInt()
	if err != nil {
		return errs.Parse(err.Error())
	}
	if ev.Hosts.Skip.SuppressesIO() {
		return nil
	}
	if shrunk := ev.Hosts.Skip.ShrinkDelay(int(n)); shrunk > 0 {
		time.Sleep(time.Duration(shrunk) * time.Millisecond)
	}
	return nil
}
