// Package errs implements the error taxonomy and propagation policy:
// parse/access errors (fatal), I/O and protocol warnings (promotable
// under --strict), and engine invariant violations (fatal, bypassing
// normal UI), all funneled through one nesting-guarded
// errorAndExit/errorAndCont pair.
package errs

import (
	"fmt"

	"scenario-vn-core/internal/debugsvc"
)

// Kind is the reporting-site taxonomy: errors are classified by where
// they were raised, not by Go type.
type Kind int

const (
	KindParse Kind = iota
	KindAccess
	KindIOWarning
	KindProtocolWarning
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindAccess:
		return "access error"
	case KindIOWarning:
		return "I/O warning"
	case KindProtocolWarning:
		return "protocol warning"
	case KindInvariant:
		return "engine invariant violation"
	default:
		return "error"
	}
}

// Fatal reports whether this Kind is fatal by default (parse, access, and
// invariant errors are; warnings are not unless promoted by --strict).
func (k Kind) Fatal() bool {
	return k == KindParse || k == KindAccess || k == KindInvariant
}

// Error carries reporting-site context: the current command, file
// position, and a human detail string.
type Error struct {
	Kind    Kind
	Command string
	Label   string
	Line    int
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s: %s (command %q, label %q line %d)", e.Kind, e.Detail, e.Command, e.Label, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func Parse(detail string) *Error    { return &Error{Kind: KindParse, Detail: detail} }
func Access(detail string) *Error   { return &Error{Kind: KindAccess, Detail: detail} }
func IOWarning(detail string) *Error { return &Error{Kind: KindIOWarning, Detail: detail} }
func Protocol(detail string) *Error { return &Error{Kind: KindProtocolWarning, Detail: detail} }
func Invariant(detail string) *Error { return &Error{Kind: KindInvariant, Detail: detail} }

// At attaches reporting-site context and returns the same *Error for
// chaining: errs.Parse("bad color").At("lsp", "start", 12).
func (e *Error) At(command, label string, line int) *Error {
	e.Command = command
	e.Label = label
	e.Line = line
	return e
}

// Reporter forwards a fatal error to an external crash-reporting backend,
// kept as a narrow external collaborator; the default NoopReporter keeps
// tests and headless runs free of any network dependency.
type Reporter interface {
	Report(err error, context map[string]string)
}

// NoopReporter discards everything.
type NoopReporter struct{}

func (NoopReporter) Report(error, map[string]string) {}

// QuitFunc is called once by Handler.ErrorAndExit to request a clean
// shutdown of the host loop; wired by internal/engine.
type QuitFunc func()

// Handler implements errorAndExit/errorAndCont with a nesting guard: a
// static already-entered counter prevents infinite recursion in error
// paths.
type Handler struct {
	Logger          *debugsvc.Logger
	Reporter        Reporter
	StrictWarnings  bool
	RequestQuit     QuitFunc

	nesting int
}

// NewHandler creates a Handler with a no-op reporter; call SetReporter to
// attach a real one (e.g. the Sentry-backed adapter).
func NewHandler(logger *debugsvc.Logger) *Handler {
	return &Handler{Logger: logger, Reporter: NoopReporter{}}
}

// ErrorAndExit logs the error with file/line/command context, forwards it
// to the reporter, and requests a clean quit. If called re-entrantly (an
// error occurring while already handling one), it short-circuits to a bare
// log to avoid infinite recursion.
func (h *Handler) ErrorAndExit(e *Error) {
	h.nesting++
	defer func() { h.nesting-- }()

	if h.nesting > 1 {
		if h.Logger != nil {
			h.Logger.Log(debugsvc.ComponentEngine, debugsvc.LogLevelError, "re-entrant fatal error, aborting: "+e.Error(), nil)
		}
		return
	}

	if h.Logger != nil {
		h.Logger.Log(debugsvc.ComponentEngine, debugsvc.LogLevelError, e.Error(), map[string]interface{}{
			"kind":    e.Kind.String(),
			"command": e.Command,
			"label":   e.Label,
			"line":    e.Line,
		})
	}
	if h.Reporter != nil {
		h.Reporter.Report(e, map[string]string{
			"kind":    e.Kind.String(),
			"command": e.Command,
			"label":   e.Label,
		})
	}
	if h.RequestQuit != nil {
		h.RequestQuit()
	}
}

// ErrorAndCont logs a warning. Under StrictWarnings it is promoted to a
// fatal error instead.
func (h *Handler) ErrorAndCont(e *Error) {
	if h.StrictWarnings {
		e.Kind = KindInvariant
		h.ErrorAndExit(e)
		return
	}
	if h.Logger != nil {
		h.Logger.Log(debugsvc.ComponentEngine, debugsvc.LogLevelWarning, e.Error(), nil)
	}
}

// Handle dispatches an *Error to ErrorAndExit or ErrorAndCont based on its
// Kind's default fatality.
func (h *Handler) Handle(e *Error) {
	if e.Kind.Fatal() {
		h.ErrorAndExit(e)
		return
	}
	h.ErrorAndCont(e)
}

// RecentContext returns the last n log lines, for a user-visible failure
// format of a short primary message plus a detail string plus the last
// few lines of the script for context.
func (h *Handler) RecentContext(n int) []string {
	if h.Logger == nil {
		return nil
	}
	entries := h.Logger.GetRecentEntries(n)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Format()
	}
	return out
}
