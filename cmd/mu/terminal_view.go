package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"mu/internal/device"
	"mu/internal/microfs"
)

// terminalView shows the device session's messages on a terminal and owns
// the REPL's serial port while it is attached.
type terminalView struct {
	out   io.Writer
	color bool
	mount string
	in    io.Reader
	// prompt is false when stdin cannot answer questions.
	prompt bool
	baud   int
	open   microfs.Opener

	mu   sync.Mutex
	port microfs.Port
	repl *device.Repl
	home string
}

var _ device.View = (*terminalView)(nil)

func newTerminalView(out io.Writer, useColor bool, mount string, baud int) *terminalView {
	return &terminalView{
		out:    out,
		color:  useColor,
		mount:  mount,
		in:     os.Stdin,
		prompt: isTerminal(os.Stdin),
		baud:   baud,
		open:   microfs.OpenSerial,
	}
}

func (v *terminalView) paint(kind device.MessageKind) *color.Color {
	var c *color.Color
	switch kind {
	case device.KindCritical:
		c = color.New(color.FgRed, color.Bold)
	case device.KindWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan, color.Bold)
	}
	if v.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (v *terminalView) ShowMessage(message, detail string, kind device.MessageKind) {
	fmt.Fprintln(v.out, v.paint(kind).Sprint(message))
	if detail != "" {
		for _, line := range strings.Split(detail, "\n") {
			fmt.Fprintf(v.out, "  %s\n", line)
		}
	}
}

func (v *terminalView) AddFilesystem(home string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.home = home
	return nil
}

func (v *terminalView) RemoveFilesystem() {
	v.mu.Lock()
	v.home = ""
	v.mu.Unlock()
}

func (v *terminalView) AddRepl(r *device.Repl) error {
	port, err := v.open(r.Port, v.baud)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.port = port
	v.repl = r
	v.mu.Unlock()
	return nil
}

func (v *terminalView) RemoveRepl() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.port != nil {
		_ = v.port.Close()
	}
	v.port = nil
	v.repl = nil
}

// Port returns the attached REPL port, or nil.
func (v *terminalView) Port() microfs.Port {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.port
}

// Home returns the local pane directory while the file system is shown.
func (v *terminalView) Home() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.home
}

// GetMicrobitPath answers with --mount when given, otherwise asks on the
// terminal. An empty answer cancels.
func (v *terminalView) GetMicrobitPath(startDir string) string {
	if v.mount != "" {
		return v.mount
	}
	if !v.prompt {
		return ""
	}
	fmt.Fprintf(v.out, "micro:bit mount point (under %s, empty to cancel): ", startDir)
	line, err := bufio.NewReader(v.in).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
