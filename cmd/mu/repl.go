package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mu/internal/trace"
)

// replEscape (Ctrl-]) leaves the REPL.
const replEscape = 0x1d

var replCmd = &cobra.Command{
	Use:          "repl",
	Short:        "Open the MicroPython REPL of the attached micro:bit",
	Long:         `Repl bridges the terminal and the board's serial port. Press Ctrl-] to leave.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRepl,
}

func runRepl(cmd *cobra.Command, _ []string) error {
	defer dumpTraceOnPanic()

	a, err := buildApp(cmd, "")
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	outcome, err := a.editor.ToggleRepl(ctx)
	if err != nil {
		return err
	}
	if err := requireStarted("repl", outcome); err != nil {
		return err
	}
	defer func() {
		if _, err := a.editor.ToggleRepl(ctx); err != nil {
			trace.Error(ctx, trace.ScopeCommand, "stop repl", err)
		}
	}()

	port := a.view.Port()
	if port == nil {
		return errors.New("repl: port not attached")
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		return fmt.Errorf("repl: %w", err)
	}

	if isTerminal(os.Stdin) {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("repl: raw mode: %w", err)
		}
		defer term.Restore(int(os.Stdin.Fd()), state)
	}
	repl := a.editor.Session().Repl()
	stderrf("connected to %s, Ctrl-] to quit\r\n", repl.Port)
	// Ctrl-C уходит на плату, чтобы прервать скрипт
	return bridge(trace.WithSession(ctx, repl.ID), port, os.Stdin, os.Stdout)
}

// bridge copies in to port and port to out until in yields replEscape,
// in ends or ctx is done. port reads must time out so the pump notices
// the end.
func bridge(ctx context.Context, port io.ReadWriter, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pumpErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 256)
		for ctx.Err() == nil {
			n, err := port.Read(buf)
			if n > 0 {
				trace.Info(ctx, trace.ScopeWire, "rx", "bytes", n)
				if _, werr := out.Write(buf[:n]); werr != nil {
					pumpErr <- werr
					return
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				pumpErr <- err
				return
			}
		}
		pumpErr <- nil
	}()

	keys := make(chan []byte)
	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case keys <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-pumpErr:
			return err
		case chunk, ok := <-keys:
			if !ok {
				return nil
			}
			for i, b := range chunk {
				if b == replEscape {
					if i > 0 {
						if _, err := port.Write(chunk[:i]); err != nil {
							return err
						}
					}
					return nil
				}
			}
			if _, err := port.Write(chunk); err != nil {
				return err
			}
		}
	}
}
