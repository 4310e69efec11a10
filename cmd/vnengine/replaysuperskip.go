package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenario-vn-core/internal/engine"
)

func newReplaySuperSkipCmd() *cobra.Command {
	var maxSteps int
	cmd := &cobra.Command{
		Use:   "replay-superskip <script>",
		Short: "Run a scenario headlessly and report how many choices it recorded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replaySuperSkip(args[0], maxSteps)
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", 200000, "abort after this many evaluator steps")
	return cmd
}

func replaySuperSkip(path string, maxSteps int) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("replay-superskip: %w", err)
	}

	e, err := engine.New(src, engine.Options{})
	if err != nil {
		return fmt.Errorf("replay-superskip: %w", err)
	}

	if err := e.RunScript(maxSteps); err != nil {
		return fmt.Errorf("replay-superskip: %w", err)
	}

	fmt.Printf("%s: ran to completion, %d choice(s) recorded\n", path, e.Log.ChoiceVectorSize())
	if e.Skip.IsSkipping() {
		fmt.Println("warning: skip mode is still active at end of script")
	}
	return nil
}
