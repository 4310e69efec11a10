package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenario-vn-core/internal/script"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script>",
		Short: "Parse a scenario script and report structural errors without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScript(args[0])
		},
	}
}

func validateScript(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	buf := script.New(src)
	labels, err := script.BuildLabelIndex(buf)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	fmt.Printf("%s: %d label(s), %d byte(s)\n", path, len(labels.All()), buf.Len())
	return nil
}
