package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <firmware.hex>",
	Short: "Recover the script embedded in a firmware image",
	Long: `Extract prints the MicroPython script stored in a .hex image. With --output
the script is saved instead; a missing .py extension is added.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "save the script to this path")
}

func runExtract(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	a, err := buildApp(cmd, "")
	if err != nil {
		return err
	}
	script, err := a.editor.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if output == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), script.Text)
		return err
	}
	saved, err := a.editor.Save(cmd.Context(), output, script.Text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", saved)
	return nil
}
