package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mu/internal/device"
	"mu/internal/editor"
)

var flashCmd = &cobra.Command{
	Use:   "flash [flags] [file.py]",
	Short: "Flash a script onto the attached micro:bit",
	Long: `Flash combines the script with the MicroPython runtime and copies the image
to the board's MICROBIT drive. Without a file the default script is flashed.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runFlash,
}

func init() {
	flashCmd.Flags().String("mount", "", "mount point to use when the drive cannot be found automatically")
}

func runFlash(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	mount, err := cmd.Flags().GetString("mount")
	if err != nil {
		return fmt.Errorf("failed to get mount flag: %w", err)
	}
	if mount != "" {
		if mount, err = filepath.Abs(mount); err != nil {
			return err
		}
	}

	a, err := buildApp(cmd, mount)
	if err != nil {
		return err
	}

	label, text := "untitled", editor.DefaultScript()
	if len(args) == 1 {
		script, err := a.editor.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		label, text = filepath.Base(args[0]), script.Text
	}

	res, err := a.editor.Flash(cmd.Context(), label, text)
	if err != nil {
		return err
	}
	if res.Status != device.Flashed {
		return fmt.Errorf("flash %s: %s", label, res.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "flashed %s to %s\n", label, res.MountPath)
	return nil
}
