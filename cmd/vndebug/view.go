package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scenario-vn-core/internal/callstack"
)

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	colW := m.width / 2
	topH := m.height * 55 / 100
	botH := m.height - topH - 3

	source := m.renderSourcePanel(colW, topH)
	watches := m.renderWatchesPanel(m.width-colW, topH)
	callstack := m.renderCallStackPanel(colW, botH)
	scheduler := m.renderSchedulerPanel(m.width-colW-colW/2, botH)
	backlog := m.renderBacklogPanel(colW/2, botH)

	top := lipgloss.JoinHorizontal(lipgloss.Top, source, watches)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, callstack, backlog, scheduler)

	status := m.renderStatusBar()

	out := lipgloss.JoinVertical(lipgloss.Left, top, bottom, status)
	if m.inputActive {
		out += "\n" + m.renderInputBar()
	}
	return out
}

func (m Model) renderSourcePanel(w, h int) string {
	focused := m.focus == PanelSource
	title := titleStyle(focused).Render(" source ")
	style := panelStyle(w, h, focused)

	curLine := m.session.Engine.Eval.CurrentLine
	innerH := h - 2
	half := innerH / 2
	start := curLine - half
	if start < 0 {
		start = 0
	}
	end := start + innerH
	if end > len(m.sourceLines) {
		end = len(m.sourceLines)
		start = end - innerH
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i == curLine {
			marker = "▶ "
		}
		if m.hasBreakpointAtLine(i) {
			marker = "●" + marker[1:]
		}
		line := ""
		if i < len(m.sourceLines) {
			line = m.sourceLines[i]
		}
		fmt.Fprintf(&b, "%s%4d  %s\n", marker, i, line)
	}

	content := style.Render(b.String())
	return injectTitle(content, title)
}

func (m Model) hasBreakpointAtLine(line int) bool {
	label := m.session.Engine.Eval.CurrentLabel
	for _, bp := range m.session.Breakpoints() {
		if bp.Label == label && bp.Line == line && bp.Enabled {
			return true
		}
	}
	return false
}

func (m Model) renderWatchesPanel(w, h int) string {
	focused := m.focus == PanelWatches
	title := titleStyle(focused).Render(" watches ")
	style := panelStyle(w, h, focused)

	var b strings.Builder
	fmt.Fprintf(&b, "label: %s  line: %d\n", m.session.Engine.Eval.CurrentLabel, m.session.Engine.Eval.CurrentLine)
	fmt.Fprintf(&b, "skip mode: %s\n\n", m.session.Engine.Skip.Mode())

	for _, wv := range m.session.Watches() {
		if wv.Err != nil {
			fmt.Fprintf(&b, "%s = <%v>\n", wv.Expr, wv.Err)
			continue
		}
		fmt.Fprintf(&b, "%s = %s\n", wv.Expr, wv.Value)
	}

	return injectTitle(style.Render(b.String()), title)
}

func (m Model) renderCallStackPanel(w, h int) string {
	focused := m.focus == PanelCallStack
	title := titleStyle(focused).Render(" call stack ")
	style := panelStyle(w, h, focused)

	frames := m.session.Engine.Stack.Frames()
	var b strings.Builder
	if len(frames) == 0 {
		b.WriteString("(empty)\n")
	}
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if f.Kind == callstack.KindLabel {
			fmt.Fprintf(&b, "#%d gosub -> return %s:%d\n", len(frames)-1-i, f.Label.ReturnLabel, f.Label.ReturnLine)
		} else {
			fmt.Fprintf(&b, "#%d for (induction slot %d, to %d, step %d)\n", len(frames)-1-i, f.For.InductionVarNo, f.For.To, f.For.Step)
		}
	}

	return injectTitle(style.Render(b.String()), title)
}

func (m Model) renderBacklogPanel(w, h int) string {
	focused := m.focus == PanelBacklog
	title := titleStyle(focused).Render(" dialogue ")
	style := panelStyle(w, h, focused)

	backlog := m.session.Engine.Log.Backlog()
	innerH := h - 2
	start := len(backlog) - innerH - m.backlogScroll
	if start < 0 {
		start = 0
	}
	end := start + innerH
	if end > len(backlog) {
		end = len(backlog)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		e := backlog[i]
		fmt.Fprintf(&b, "[%s:%d] %s\n", e.Label, e.Line, e.Text)
	}

	return injectTitle(style.Render(b.String()), title)
}

func (m Model) renderSchedulerPanel(w, h int) string {
	focused := m.focus == PanelScheduler
	title := titleStyle(focused).Render(" scheduler ")
	style := panelStyle(w, h, focused)

	var b strings.Builder
	fmt.Fprintf(&b, "now: %s\n\n", m.session.Engine.Scheduler.Now())
	for _, a := range m.session.Engine.Scheduler.Actions() {
		mode := "interruptible"
		if !a.Interruptible {
			mode = "uninterruptible"
		}
		fmt.Fprintf(&b, "%s due %s (%s)\n", a.Kind, a.DueAt, mode)
	}

	return injectTitle(style.Render(b.String()), title)
}

func (m Model) renderStatusBar() string {
	hintStyle := lipgloss.NewStyle().Foreground(hintColor)
	stateColor := runningColor
	if m.session.IsPaused() {
		stateColor = pausedColor
	}
	state := "running"
	if m.session.IsPaused() {
		state = "paused"
	}
	stateTag := lipgloss.NewStyle().Foreground(stateColor).Bold(true).Render(state)

	hints := "s: step | c: continue | p: pause | b: break here | w: watch | tab: next panel | q: quit"
	line := fmt.Sprintf(" [%s] %s", stateTag, m.statusMsg)
	return lipgloss.NewStyle().Width(m.width).Render(line) + "\n" + hintStyle.Render(" "+hints)
}

func (m Model) renderInputBar() string {
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(focusBorderColor)
	return promptStyle.Render(m.inputPrompt+": ") + m.inputValue + "█"
}
