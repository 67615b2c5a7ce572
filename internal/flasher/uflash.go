// Package flasher copies scripts onto the board's mass-storage drive with
// the uflash tool and recovers scripts from firmware images.
package flasher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mu/internal/atomicfile"
	"mu/internal/device"
	"mu/internal/toolrun"
	"mu/internal/trace"
)

// DefaultCommand is the uflash invocation used when no manifest overrides it.
var DefaultCommand = toolrun.Command{"uflash"}

// ErrExtract means the image held no recoverable script.
var ErrExtract = errors.New("no script found in image")

// Uflash implements device.Flasher on top of the uflash command line tool.
type Uflash struct {
	Command toolrun.Command
	Runner  *toolrun.Runner
	Locator Locator
}

var _ device.Flasher = (*Uflash)(nil)

func (u *Uflash) command() toolrun.Command {
	if len(u.Command) == 0 {
		return DefaultCommand
	}
	return u.Command
}

func (u *Uflash) LocateMount(ctx context.Context) (string, bool) {
	return u.Locator.Find(ctx)
}

// Write runs `uflash [-r runtime] <script> <mount>...`.
func (u *Uflash) Write(ctx context.Context, mounts []string, script []byte, runtimeHex string) error {
	if len(mounts) == 0 {
		return errors.New("no target mounts")
	}
	dir, err := os.MkdirTemp("", "mu-flash-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "main.py")
	if err := atomicfile.WriteFile(src, script, 0o644); err != nil {
		return fmt.Errorf("stage script: %w", err)
	}

	var args []string
	if runtimeHex != "" {
		args = append(args, "-r", runtimeHex)
	}
	args = append(args, src)
	args = append(args, mounts...)

	out, err := u.Runner.Run(ctx, toolrun.Request{Command: u.command(), Args: args})
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%s exited with %d: %s", u.command(), out.ExitCode, firstLine(out.Stderr))
	}
	trace.Info(ctx, trace.ScopeDevice, "script written", "mounts", strings.Join(mounts, ","), "bytes", len(script))
	return nil
}

// ExtractScript runs `uflash -e <hex>`, which prints the embedded script.
func (u *Uflash) ExtractScript(ctx context.Context, hexPath string) (string, error) {
	if _, err := os.Stat(hexPath); err != nil {
		return "", err
	}
	out, err := u.Runner.Run(ctx, toolrun.Request{Command: u.command(), Args: []string{"-e", hexPath}})
	if err != nil {
		return "", err
	}
	if out.ExitCode != 0 {
		return "", fmt.Errorf("%s exited with %d: %s", u.command(), out.ExitCode, firstLine(out.Stderr))
	}
	if len(out.Stdout) == 0 {
		return "", fmt.Errorf("%s: %w", hexPath, ErrExtract)
	}
	return string(out.Stdout), nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
