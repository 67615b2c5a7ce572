package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mu/internal/checkrun"
	"mu/internal/diagfmt"
	"mu/internal/observ"
	"mu/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.py|directory>...",
	Short: "Check MicroPython scripts with pyflakes and pycodestyle",
	Long: `Check runs the lint and style analyzers over each script and prints the
merged findings. Names exported by "from microbit import *" are not reported
as undefined.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// errFindings is returned after the findings were printed; it only sets
// the exit status.
var errFindings = errors.New("check found errors")

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("no-context", false, "do not print the offending source line")
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or short)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	uiSwitch, err := parseSwitch("ui", uiValue)
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	noContext, err := cmd.Flags().GetBool("no-context")
	if err != nil {
		return fmt.Errorf("failed to get no-context flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	var files []string
	err = timer.Track(cmd.Context(), "collect", func(context.Context) (string, error) {
		var err error
		files, err = collectScripts(args)
		return fmt.Sprintf("%d files", len(files)), err
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .py files found in %s", strings.Join(args, ", "))
	}

	var a *app
	err = timer.Track(cmd.Context(), "setup", func(context.Context) (string, error) {
		var err error
		a, err = buildApp(cmd, "")
		return "", err
	})
	if err != nil {
		return err
	}

	req := &checkrun.Request{Files: files, Jobs: jobs, Checker: a.editor}
	var result checkrun.Result
	err = timer.Track(cmd.Context(), "check", func(ctx context.Context) (string, error) {
		var err error
		// прогресс только для человека, не для json
		if format != "json" && uiSwitch.on(os.Stdout) {
			result, err = runCheckWithUI(ctx, "checking", req)
		} else {
			result, err = checkrun.Run(ctx, req)
		}
		return fmt.Sprintf("%d findings", result.Count()), err
	})
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	cwd, _ := os.Getwd()

	out := cmd.OutOrStdout()
	rendered := make([]diagfmt.File, 0, len(result.Files))
	for _, fr := range result.Files {
		if fr.Err != nil {
			trace.Warn(cmd.Context(), trace.ScopeCommand, "check incomplete", "file", fr.Path, "err", fr.Err)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", fr.Path, fr.Err)
		}
		rendered = append(rendered, diagfmt.File{Path: fr.Path, Source: fr.Source, Set: fr.Set})
	}

	switch format {
	case "json":
		err = diagfmt.JSON(out, rendered, diagfmt.JSONOpts{PathMode: pathMode, BaseDir: cwd, Max: maxDiagnostics})
	default:
		opts := diagfmt.PrettyOpts{
			Color:    useColor,
			Context:  !noContext,
			PathMode: pathMode,
			BaseDir:  cwd,
			Max:      maxDiagnostics,
		}
		for _, f := range rendered {
			if format == "short" {
				if err = diagfmt.Short(out, f, opts); err != nil {
					break
				}
				continue
			}
			diagfmt.Pretty(out, f, opts)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}

	if showTimings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if result.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errFindings
	}
	return nil
}
