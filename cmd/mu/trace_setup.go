package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mu/internal/trace"
)

// activeTracer is the tracer installed by setupTracing, kept for crash dumps.
var activeTracer trace.Tracer = trace.Nop

// setupTracing reads the log flags and installs a tracer on the command
// context. It returns a cleanup function that flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("log")
	if err != nil {
		return nil, fmt.Errorf("failed to get log flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("log-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("log-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid log mode: %w", err)
	}
	// an explicit --log also streams
	if output != "" && mode == trace.ModeRing {
		mode = trace.ModeBoth
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "log: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "log: close error: %v\n", err)
		}
	}, nil
}

// dumpTraceOnPanic writes the in-memory event ring to stderr and re-panics.
// Commands defer it first thing.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := ringOf(activeTracer); ring != nil {
		fmt.Fprintf(os.Stderr, "panic: %v\n--- last events ---\n", r)
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
