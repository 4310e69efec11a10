// Package engine assembles every subsystem into a single instantiable
// Engine value: one value holding
// script/vars/callstack/eval/dialogue/scheduler/tween/sprite/effect/
// logstate/save/skip state, wiring eval.Hosts to the concrete
// implementations and polling ports.VideoPort input events (a click
// cancels ordinary skip; the events are returned to the caller). It plays
// the same role an emulator's top-level struct plays one level down: one
// value owning CPU/PPU/APU/Bus/Input/Clock and exposing a
// frame-stepping API over all of them at once.
package engine

import (
	"fmt"
	"time"

	"scenario-vn-core/internal/callstack"
	"scenario-vn-core/internal/config"
	"scenario-vn-core/internal/debugsvc"
	"scenario-vn-core/internal/dialogue"
	"scenario-vn-core/internal/effect"
	"scenario-vn-core/internal/errs"
	"scenario-vn-core/internal/eval"
	"scenario-vn-core/internal/ids"
	"scenario-vn-core/internal/logstate"
	"scenario-vn-core/internal/ports"
	"scenario-vn-core/internal/ports/cache"
	"scenario-vn-core/internal/save"
	"scenario-vn-core/internal/scheduler"
	"scenario-vn-core/internal/script"
	"scenario-vn-core/internal/skip"
	"scenario-vn-core/internal/sprite"
	"scenario-vn-core/internal/tween"
	"scenario-vn-core/internal/vars"
)

// Options configures a new Engine.
type Options struct {
	SlotRange      int
	BacklogCap     int
	Strict         bool
	SessionID      string
	Video          ports.VideoPort
	Audio          ports.AudioPort
	SaveBackend    save.Backend
	Reporter       errs.Reporter
	OnUnknownCmd   func(cmd string, args []string) error
}

// Engine is every runtime subsystem wired together over one script.
type Engine struct {
	Buf    *script.Buffer
	Labels *script.LabelIndex
	Vars   *vars.Store
	Stack  *callstack.Stack
	Eval   *eval.Evaluator

	Dialogue  *dialogue.Controller
	Scheduler *scheduler.Scheduler
	Tweens    *tween.Set
	Sprites   *sprite.Table
	Effects   *effect.Engine
	Log       *logstate.Log
	Skip      *skip.Controller
	SaveHost  *save.Host

	Video ports.VideoPort
	Audio ports.AudioPort
	Cache *cache.Cache

	props *properties

	Logger    *debugsvc.Logger
	Errors    *errs.Handler
	SessionID string
}

// New builds an Engine over src, the full scenario script text.
func New(src []byte, opts Options) (*Engine, error) {
	slotRange := opts.SlotRange
	if slotRange <= 0 {
		slotRange = vars.DefaultSlotRange
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = ids.NewSessionID()
	}

	buf := script.New(src)
	labels, err := script.BuildLabelIndex(buf)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	store := vars.NewStore(slotRange)
	stack := callstack.New()
	logger := debugsvc.NewLogger(4096)
	for _, c := range []debugsvc.Component{
		debugsvc.ComponentEval, debugsvc.ComponentEngine, debugsvc.ComponentSave,
		debugsvc.ComponentSkip, debugsvc.ComponentDialogue,
	} {
		logger.SetComponentEnabled(c, true)
	}
	errHandler := errs.NewHandler(logger)
	errHandler.StrictWarnings = opts.Strict
	if opts.Reporter != nil {
		errHandler.Reporter = opts.Reporter
	}

	ev := eval.New(buf, labels, store, stack, errHandler)

	sched := scheduler.New()
	skipCtrl := skip.New()
	dlg := dialogue.New(sched, skipCtrl)

	backlogCap := opts.BacklogCap
	log := logstate.NewLog(backlogCap)
	dlg.LabelLine = func() (string, int) { return ev.CurrentLabel, ev.CurrentLine }
	dlg.AppendBacklog = log.Append
	dlg.OnUnknownCmd = opts.OnUnknownCmd

	sprites := sprite.NewTable()
	effects := effect.NewEngine()
	tweens := tween.NewSet()

	backend := opts.SaveBackend
	if backend == nil {
		backend = save.NewMemoryBackend()
	}
	saveHost := &save.Host{
		Buf: buf, Vars: store, Stack: stack, Sprites: sprites, Log: log, Backend: backend,
		GetPosition: func() (int, string, int) { return ev.Pos, ev.CurrentLabel, ev.CurrentLine },
		SetPosition: func(addr int, label string, line int) { ev.Pos = addr; ev.CurrentLabel = label; ev.CurrentLine = line },
	}

	props := newProperties(tweens, sprites)

	e := &Engine{
		Buf: buf, Labels: labels, Vars: store, Stack: stack, Eval: ev,
		Dialogue: dlg, Scheduler: sched, Tweens: tweens, Sprites: sprites,
		Effects: effects, Log: log, Skip: skipCtrl, SaveHost: saveHost,
		Video: opts.Video, Audio: opts.Audio, Cache: cache.New(256),
		props:  props,
		Logger: logger, Errors: errHandler, SessionID: sessionID,
	}

	ev.Hosts = eval.Hosts{
		Dialogue: dlg,
		Choice:   log,
		Skip:     skipCtrl,
		Save:     saveHost,
		Property: props,
	}

	return e, nil
}

// LoadConfig records the handful of parsed ons.cfg keys the engine
// itself cares about; window size, game id, and the rest stay in c for
// the caller to wire into internal/ports directly.
func (e *Engine) LoadConfig(c *config.Cfg) {
	if v := c.Int("ramlimit", 0); v > 0 {
		// Historically this bounded working-set size; the Go runtime has
		// no equivalent lever, so it is recorded for the CLI to surface
		// rather than acted on here.
		e.Logger.Logf(debugsvc.ComponentEngine, debugsvc.LogLevelInfo, "ramlimit=%d (informational only)", v)
	}
}

// Tick advances wall-clock-driven subsystems by dt: the scheduler, every
// in-flight tween, the active effect transition, the async asset cache,
// and window input. A click clears ordinary skip; the polled events are
// returned to the caller, and the dialogue controller is not touched here.
func (e *Engine) Tick(dt time.Duration) []ports.InputEvent {
	e.Scheduler.Advance(dt)
	e.props.advance(dt)
	e.Effects.Advance(dt)
	e.Cache.Drain()

	var events []ports.InputEvent
	if e.Video != nil {
		events = e.Video.PollInput()
		for _, ev := range events {
			if ev.Kind == ports.InputClick {
				e.Skip.ClearOnClick()
			}
		}
	}
	return events
}

// RunScript drives the evaluator until it halts, hits a fatal error, or
// maxSteps is exceeded.
func (e *Engine) RunScript(maxSteps int) error {
	return e.Eval.Run(maxSteps)
}
