package dialogue

import (
	"fmt"
	"strings"
	"time"

	"scenario-vn-core/internal/scheduler"
	"scenario-vn-core/internal/skip"
)

// EventKind tags the event queue dialogue feeds back to its consumer:
// inline-command completions, pipe barriers, and similar.
type EventKind int

const (
	EventPipeReached EventKind = iota
	EventInlineCommandEnd
	EventClickstop
	EventPageBreak
	EventLineComplete
)

// Event is one item on the dialogue controller's outgoing event queue.
type Event struct {
	Kind         EventKind
	BarrierIndex int
	Cmd          string
	Args         []string
}

// whitelistedInlineCmds are the text commands the controller executes
// itself (color change, preset push/pop, voice
// segment, style toggles, gradient, ruby annotation); anything else is
// routed to OnUnknownCmd as a candidate user-defined text function.
var whitelistedInlineCmds = map[string]bool{
	"color": true, "pushstyle": true, "popstyle": true, "voice": true,
	"bold": true, "italic": true, "shadow": true, "gradient": true, "ruby": true,
}

// Controller is the dialogue text-display state machine. It owns one
// line at a time: Emit parses and eagerly walks every segment (script
// execution in this engine is synchronous; wall-clock pacing is layered
// on top via Scheduler actions the render frontend consumes), stopping
// only to record clickstops/barriers as events. waitOnDialogue is the
// sole point where the script side must rendezvous with it.
type Controller struct {
	Scheduler *scheduler.Scheduler
	Skip      *skip.Controller

	// LabelLine is consulted at end-of-line to record the backlog entry
	// under the label/line the 'd' command executed at; optional.
	LabelLine func() (label string, line int)

	// AppendBacklog, if set, is called once per emitted line with the
	// fully rendered plain text (inline commands and barriers stripped).
	AppendBacklog func(text, label string, line int)

	// OnUnknownCmd handles an inline `{cmd:args}` the built-in whitelist
	// doesn't recognize — internal/engine wires this to a textgosub-style
	// call into the script engine, flagged so its `return` emits
	// EventInlineCommandEnd.
	OnUnknownCmd func(cmd string, args []string) error

	perCharSpeedMs int

	rendered strings.Builder

	barrierCrossed map[int]int
	barrierWaited  map[int]int

	clickPartCount  int
	clickPartCounts []int // completed click-parts, for automode pacing

	events []Event
}

// New creates a Controller with the default per-character speed.
func New(sched *scheduler.Scheduler, sk *skip.Controller) *Controller {
	return &Controller{
		Scheduler:      sched,
		Skip:           sk,
		perCharSpeedMs: DefaultCharSpeed,
		barrierCrossed: make(map[int]int),
		barrierWaited:  make(map[int]int),
	}
}

// Emit parses and processes one dialogue line, implementing
// eval.DialogueHost's Emit method (the `d` command): it clears whatever
// was rendered so far, starting a fresh page.
func (c *Controller) Emit(text string) error {
	c.rendered.Reset()
	return c.emit(text)
}

// EmitContinue implements eval.DialogueHost's EmitContinue (the `d2`
// command): it appends to the page already on screen instead of
// clearing it first.
func (c *Controller) EmitContinue(text string) error {
	return c.emit(text)
}

func (c *Controller) emit(text string) error {
	segs := Parse(text)
	for _, seg := range segs {
		if err := c.processSegment(seg); err != nil {
			return err
		}
	}
	if c.LabelLine != nil && c.AppendBacklog != nil {
		label, line := c.LabelLine()
		c.AppendBacklog(c.rendered.String(), label, line)
	}
	c.pushEvent(Event{Kind: EventLineComplete})
	return nil
}

func (c *Controller) processSegment(seg Segment) error {
	switch seg.Kind {
	case SegText:
		for _, r := range seg.Text {
			c.rendered.WriteRune(r)
			c.clickPartCount++
			if c.Scheduler != nil {
				delay := charDelay(r, c.perCharSpeedMs)
				if c.Skip != nil {
					delay = time.Duration(c.Skip.PerCharDelay(int(delay.Milliseconds()))) * time.Millisecond
				}
				c.Scheduler.Schedule(scheduler.KindLipsAnimation, delay, true, nil)
			}
		}
	case SegInlineWait:
		ms := seg.Ms
		if c.Skip != nil {
			ms = c.Skip.ShrinkWait(ms)
		}
		if c.Scheduler != nil {
			c.Scheduler.Schedule(scheduler.KindWait, time.Duration(ms)*time.Millisecond, true, nil)
		}
	case SegInlineSpeed:
		c.perCharSpeedMs = seg.Ms
	case SegInlineDotPause:
		ms := seg.Ms
		if c.Skip != nil {
			ms = c.Skip.ShrinkDelay(ms)
		}
		if c.Scheduler != nil {
			c.Scheduler.Schedule(scheduler.KindDelay, time.Duration(ms)*time.Millisecond, true, nil)
		}
	case SegClickstop:
		c.closeClickPart()
		c.pushEvent(Event{Kind: EventClickstop})
	case SegPageBreak:
		c.closeClickPart()
		c.pushEvent(Event{Kind: EventPageBreak})
	case SegPipe:
		c.barrierCrossed[seg.BarrierIndex]++
		c.pushEvent(Event{Kind: EventPipeReached, BarrierIndex: seg.BarrierIndex})
	case SegInlineCmd:
		if whitelistedInlineCmds[seg.Cmd] {
			// Built-in text commands are metadata the render frontend
			// consumes (color/style/voice/ruby); the core passes over
			// them without recording or interpreting them.
			return nil
		}
		if c.OnUnknownCmd != nil {
			return c.OnUnknownCmd(seg.Cmd, seg.Args)
		}
		return fmt.Errorf("dialogue: unrecognized inline command %q", seg.Cmd)
	}
	return nil
}

func (c *Controller) closeClickPart() {
	c.clickPartCounts = append(c.clickPartCounts, c.clickPartCount)
	c.clickPartCount = 0
}

// WaitOnDialogue implements eval.DialogueHost: the script must call this
// exactly once per `|` the emitted line crossed, in order. Calling it more
// times than the line crossed barriers is a runtime error.
func (c *Controller) WaitOnDialogue(barrierIndex int) error {
	crossed := c.barrierCrossed[barrierIndex]
	waited := c.barrierWaited[barrierIndex]
	if waited >= crossed {
		return fmt.Errorf("waitOnDialogue %d: called more times than the line crossed this barrier (crossed %d)", barrierIndex, crossed)
	}
	c.barrierWaited[barrierIndex] = waited + 1
	return nil
}

// OnInlineCommandReturn implements eval.DialogueHost: called when a
// return pops a frame flagged DialogueReturnEvent, signalling the
// dialogue controller to resume its own stepping.
func (c *Controller) OnInlineCommandReturn() {
	c.pushEvent(Event{Kind: EventInlineCommandEnd})
}

func (c *Controller) pushEvent(e Event) { c.events = append(c.events, e) }

// DrainEvents returns and clears every event queued since the last
// drain — the dialogue controller's producer side of its event queue.
func (c *Controller) DrainEvents() []Event {
	out := c.events
	c.events = nil
	return out
}

// ClickPartCounts returns the printable-codepoint counts for every
// click-part completed so far, the automode timing input.
func (c *Controller) ClickPartCounts() []int {
	return append([]int(nil), c.clickPartCounts...)
}

// PerCharSpeed returns the controller's current per-character delay in
// milliseconds (as set by the most recent `!sN` override, or the
// default).
func (c *Controller) PerCharSpeed() int { return c.perCharSpeedMs }
