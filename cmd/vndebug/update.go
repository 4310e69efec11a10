package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/key"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case msgStepResult:
		m.lastResult = msg.res
		m.lastErr = msg.err
		m.halted = msg.res.Halted
		if msg.err != nil {
			m.statusMsg = "error: " + msg.err.Error()
		} else if msg.res.Halted {
			m.statusMsg = "script halted"
		} else {
			m.statusMsg = "paused: " + msg.res.Executed
		}
		return m, nil

	case tea.KeyMsg:
		if m.inputActive {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputActive = false
		m.inputValue = ""
		return m, nil
	case "enter":
		apply := m.inputApply
		val := m.inputValue
		m.inputActive = false
		m.inputValue = ""
		if apply != nil {
			apply(val)
		}
		return m, nil
	case "backspace":
		if len(m.inputValue) > 0 {
			m.inputValue = m.inputValue[:len(m.inputValue)-1]
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes {
			m.inputValue += string(msg.Runes)
		}
		return m, nil
	}
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Tab):
		m.focus = (m.focus + 1) % panelCount
		return m, nil

	case key.Matches(msg, Keys.ShiftTab):
		m.focus = (m.focus - 1 + panelCount) % panelCount
		return m, nil

	case key.Matches(msg, Keys.Step):
		if m.halted {
			return m, nil
		}
		return m, m.cmdStep(1)

	case key.Matches(msg, Keys.Continue):
		if m.halted {
			return m, nil
		}
		return m, m.cmdContinue()

	case key.Matches(msg, Keys.Pause):
		m.session.Pause()
		m.statusMsg = "paused"
		return m, nil

	case key.Matches(msg, Keys.Break):
		m.addBreakpointHere()
		return m, nil

	case key.Matches(msg, Keys.Watch):
		m.beginWatchInput()
		return m, nil

	case key.Matches(msg, Keys.Up):
		if m.focus == PanelBacklog && m.backlogScroll > 0 {
			m.backlogScroll--
		}
		return m, nil

	case key.Matches(msg, Keys.Down):
		if m.focus == PanelBacklog {
			m.backlogScroll++
		}
		return m, nil
	}
	return m, nil
}
