package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mu/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "mu",
	Short: "BBC micro:bit editor core",
	Long:  `mu checks, flashes and talks to MicroPython scripts on a BBC micro:bit`,
	// cleanup runs after Execute; cobra skips PersistentPostRun on errors.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = stopProfiling
		return nil
	},
}

var (
	traceCleanup   = func() {}
	profileCleanup = func() {}
)

// main registers subcommands and persistent flags and runs the root command.
// Any command error exits with status 1.
func main() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(fsCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	rootCmd.PersistentFlags().String("settings", "", "directory holding settings.json (default: next to the executable, then the data dir)")
	rootCmd.PersistentFlags().Bool("disk-cache", false, "cache analyzer output on disk")

	rootCmd.PersistentFlags().String("log", "", "log output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("log-level", "error", "log level (off|error|info|detail|debug)")
	rootCmd.PersistentFlags().String("log-mode", "ring", "log storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("log-ring-size", 4096, "events kept in memory for crash dumps")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	err := rootCmd.Execute()
	profileCleanup()
	traceCleanup()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	sw, err := parseSwitch("color", colorFlag)
	if err != nil {
		return false, err
	}
	return sw.on(os.Stdout), nil
}
