// Command vnengine is the single cobra-based front end for the runtime:
// one root with subcommands for each verb (run, validate, convert-save,
// replay-superskip, dump-log) instead of a binary per verb.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "vnengine",
		Short: "NScripter-style visual novel scenario runtime",
	}

	root.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newConvertSaveCmd(),
		newReplaySuperSkipCmd(),
		newDumpLogCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
