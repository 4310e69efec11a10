package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenario-vn-core/internal/debugsvc"
	"scenario-vn-core/internal/engine"
)

func newDumpLogCmd() *cobra.Command {
	var out string
	var maxSteps int
	cmd := &cobra.Command{
		Use:   "dump-log <script>",
		Short: "Run a scenario headlessly with every component logger enabled and dump the trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpLog(args[0], out, maxSteps)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the trace here instead of stdout")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 200000, "abort after this many evaluator steps")
	return cmd
}

func dumpLog(path, out string, maxSteps int) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dump-log: %w", err)
	}

	e, err := engine.New(src, engine.Options{})
	if err != nil {
		return fmt.Errorf("dump-log: %w", err)
	}

	for _, c := range []debugsvc.Component{
		debugsvc.ComponentScript, debugsvc.ComponentEval, debugsvc.ComponentVars,
		debugsvc.ComponentCallstack, debugsvc.ComponentDialogue, debugsvc.ComponentScheduler,
		debugsvc.ComponentTween, debugsvc.ComponentSprite, debugsvc.ComponentEffect,
		debugsvc.ComponentSave, debugsvc.ComponentSkip, debugsvc.ComponentInput,
		debugsvc.ComponentEngine,
	} {
		e.Logger.SetComponentEnabled(c, true)
	}
	e.Logger.SetMinLevel(debugsvc.LogLevelDebug)

	runErr := e.RunScript(maxSteps)

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("dump-log: %w", err)
		}
		defer f.Close()
		w = f
	}

	for _, entry := range e.Logger.GetEntries() {
		fmt.Fprintln(w, entry.Format())
	}

	if runErr != nil {
		return fmt.Errorf("dump-log: script error: %w", runErr)
	}
	return nil
}
