package main

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	borderColor      = lipgloss.Color("240")
	focusBorderColor = lipgloss.Color("34")
	dimTextColor     = lipgloss.Color("250")
	hintColor        = lipgloss.Color("214")
	pausedColor      = lipgloss.Color("214")
	runningColor     = lipgloss.Color("34")
)

func panelStyle(width, height int, focused bool) lipgloss.Style {
	color := borderColor
	if focused {
		color = focusBorderColor
	}
	return lipgloss.NewStyle().
		Width(width - 2).
		Height(height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
}

func titleStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Bold(true).Foreground(focusBorderColor)
	}
	return lipgloss.NewStyle().Foreground(dimTextColor)
}

// injectTitle splices title into the top border of a rendered panel,
// operating on raw bytes so ANSI escape sequences from the border style
// survive untouched.
func injectTitle(rendered, title string) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) == 0 {
		return rendered
	}

	top := lines[0]
	titleW := lipgloss.Width(title)
	topW := lipgloss.Width(top)
	if titleW+4 > topW {
		return rendered
	}

	insertByte := visualOffsetToByte(top, 2)
	endByte := visualOffsetToByte(top, 2+titleW)
	if insertByte < 0 || endByte < 0 || endByte > len(top) {
		return rendered
	}

	borderColorSeq := extractANSIPrefix(top)
	lines[0] = top[:insertByte] + title + borderColorSeq + top[endByte:]
	return strings.Join(lines, "\n")
}

func extractANSIPrefix(s string) string {
	var result string
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				result += s[i : j+1]
				i = j + 1
				continue
			}
		}
		break
	}
	return result
}

func visualOffsetToByte(s string, targetCol int) int {
	col := 0
	i := 0
	for i < len(s) && col < targetCol {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] >= 0x20 && s[j] <= 0x3F {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		col++
	}
	if col == targetCol {
		return i
	}
	return -1
}
