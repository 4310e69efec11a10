package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenario-vn-core/internal/save"
)

type convertSaveFlags struct {
	toJSON   bool
	fromJSON bool
}

func newConvertSaveCmd() *cobra.Command {
	var f convertSaveFlags
	cmd := &cobra.Command{
		Use:   "convert-save <in> <out>",
		Short: "Convert a save slot between the binary layout and a JSON dump",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertSave(args[0], args[1], f)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&f.toJSON, "to-json", false, "decode the binary save and write a JSON dump")
	flags.BoolVar(&f.fromJSON, "from-json", false, "encode a JSON dump back into the binary save layout")
	return cmd
}

func convertSave(in, out string, f convertSaveFlags) error {
	if f.toJSON == f.fromJSON {
		return fmt.Errorf("convert-save: specify exactly one of --to-json or --from-json")
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("convert-save: %w", err)
	}

	if f.toJSON {
		state, err := save.Decode(data)
		if err != nil {
			return fmt.Errorf("convert-save: %w", err)
		}
		encoded, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("convert-save: %w", err)
		}
		return os.WriteFile(out, encoded, 0o644)
	}

	var state save.State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("convert-save: %w", err)
	}
	encoded, err := save.Encode(&state)
	if err != nil {
		return fmt.Errorf("convert-save: %w", err)
	}
	return os.WriteFile(out, encoded, 0o644)
}
