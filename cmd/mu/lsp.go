package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mu/internal/lsp"
	"mu/internal/trace"
	"mu/internal/version"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the MicroPython check server over stdio",
	Long: `Lsp speaks the Language Server Protocol on stdin/stdout and publishes
pyflakes and pycodestyle findings for every open Python document.
Logs never go to stdout; use --log to capture them.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 300*time.Millisecond, "delay between the last edit and a check")
}

func runLSP(cmd *cobra.Command, _ []string) (err error) {
	defer dumpTraceOnPanic()

	opts := lsp.ServerOptions{Version: version.Get().Version}
	if opts.Debounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	a, err := buildApp(cmd, "")
	if err != nil {
		return err
	}
	opts.Check = a.editor.CheckCode

	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, "lsp")
	defer func() {
		if err != nil {
			span.WithExtra("err", err.Error())
		}
		span.End("")
	}()

	err = lsp.NewServer(os.Stdin, os.Stdout, opts).Run(ctx)
	switch {
	case errors.Is(err, lsp.ErrExit):
		return nil
	case errors.Is(err, lsp.ErrExitWithoutShutdown):
		// the protocol asks for exit code 1 here
		return errors.New("client exited without shutdown")
	}
	return err
}
