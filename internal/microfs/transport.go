// Package microfs talks to MicroPython on the board over its serial link:
// a probe used before the file system session starts and a raw REPL
// exchange for listing the files stored on the device.
package microfs

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"mu/internal/device"
	"mu/internal/trace"
)

// ErrNoDevice means no supported board is attached.
var ErrNoDevice = errors.New("could not find an attached BBC micro:bit")

// Transport implements device.Transport over a serial port.
type Transport struct {
	Boards device.BoardFinder
	Open   Opener
	Baud   int
	// GOOS overrides runtime.GOOS for device path construction.
	GOOS string
	// Timeout bounds each raw REPL exchange; defaults to 3s.
	Timeout time.Duration
}

var _ device.Transport = (*Transport)(nil)

func (t *Transport) open(ctx context.Context) (Port, error) {
	port, ok, err := t.Boards.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	if !ok {
		return nil, ErrNoDevice
	}
	goos := t.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	path, err := device.DevicePath(port.Name, goos)
	if err != nil {
		return nil, err
	}
	open := t.Open
	if open == nil {
		open = OpenSerial
	}
	p, err := open(path, t.Baud)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	trace.Info(ctx, trace.ScopeDevice, "serial opened", "path", path)
	return p, nil
}

// Probe checks that a board is attached and its port can be opened.
func (t *Transport) Probe(ctx context.Context) error {
	p, err := t.open(ctx)
	if err != nil {
		return err
	}
	return p.Close()
}

// List returns the names of the files stored on the device.
func (t *Transport) List(ctx context.Context) ([]string, error) {
	p, err := t.open(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	repl := &rawREPL{port: p, timeout: timeout}
	if err := repl.enter(ctx); err != nil {
		return nil, err
	}
	defer repl.exit(ctx)

	out, err := repl.exec(ctx, "import os\nprint(os.listdir())")
	if err != nil {
		return nil, err
	}
	return parseList(out)
}
