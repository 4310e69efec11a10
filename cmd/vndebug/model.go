package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"scenario-vn-core/internal/engine"
	"scenario-vn-core/internal/eval"
	"scenario-vn-core/internal/vndebug"
)

// Panel identifies which bordered region currently has keyboard focus.
type Panel int

const (
	PanelSource Panel = iota
	PanelWatches
	PanelCallStack
	PanelBacklog
	PanelScheduler
)

const panelCount = 5

// Model is the root Bubbletea model for the debugger TUI.
type Model struct {
	width  int
	height int
	ready  bool

	scriptPath  string
	sourceLines []string
	session     *vndebug.Session

	focus Panel

	backlogScroll int

	inputActive bool
	inputPrompt string
	inputValue  string
	inputApply  func(string)

	lastResult eval.StepResult
	lastErr    error
	halted     bool

	statusMsg string
}

// NewModel builds a debugger Model over a freshly constructed engine.
func NewModel(e *engine.Engine, scriptPath string, src []byte) Model {
	return Model{
		scriptPath:  scriptPath,
		sourceLines: strings.Split(string(src), "\n"),
		session:     vndebug.NewSession(e),
		focus:       PanelSource,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// msgStepResult reports the outcome of a step or continue command.
type msgStepResult struct {
	res eval.StepResult
	err error
}

func (m Model) cmdStep(count int) tea.Cmd {
	return func() tea.Msg {
		m.session.StepN(count)
		res, err := m.session.RunUntilBreak()
		return msgStepResult{res: res, err: err}
	}
}

func (m Model) cmdContinue() tea.Cmd {
	return func() tea.Msg {
		m.session.Resume()
		res, err := m.session.RunUntilBreak()
		return msgStepResult{res: res, err: err}
	}
}

func (m *Model) addBreakpointHere() {
	label := m.session.Engine.Eval.CurrentLabel
	line := m.session.Engine.Eval.CurrentLine
	key := m.session.SetBreakpoint(label, line)
	m.statusMsg = fmt.Sprintf("breakpoint set: %s", key)
}

func (m *Model) beginWatchInput() {
	m.inputActive = true
	m.inputPrompt = "watch expression (%N, $N, or alias name)"
	m.inputValue = ""
	m.inputApply = func(v string) {
		if v == "" {
			return
		}
		m.session.AddWatch(v)
		m.statusMsg = fmt.Sprintf("watching %s", v)
	}
}
