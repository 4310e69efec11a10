// Command vndebug is an interactive terminal debugger for a scenario
// script: it steps the evaluator one command at a time (or runs to the
// next enabled breakpoint), showing the current label/line, a watch
// list over variable slots and aliases, the call stack, the dialogue
// backlog, and the scheduler's in-flight actions, refreshed live as the
// script runs.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scenario-vn-core/internal/engine"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: vndebug <script>")
		os.Exit(1)
	}

	path := os.Args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vndebug: %v\n", err)
		os.Exit(1)
	}

	e, err := engine.New(src, engine.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "vndebug: %v\n", err)
		os.Exit(1)
	}

	m := NewModel(e, path, src)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "vndebug: %v\n", err)
		os.Exit(1)
	}
}
