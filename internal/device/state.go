package device

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mu/internal/board"
)

// Mode is the session's serial-link state. A session is in exactly one
// mode, so the REPL and the filesystem can never be active together.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeRepl
	ModeFilesystem
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRepl:
		return "repl"
	case ModeFilesystem:
		return "filesystem"
	}
	return "unknown"
}

var (
	// ErrReplRunning is returned when starting a REPL that is already active.
	ErrReplRunning = errors.New("REPL already running")
	// ErrReplNotRunning is returned when stopping a REPL that is not active.
	ErrReplNotRunning = errors.New("REPL not running")
	// ErrFilesystemNotRunning is returned when stopping an inactive file system session.
	ErrFilesystemNotRunning = errors.New("file system not running")
	// ErrUnsupportedPlatform means serial device paths cannot be built on this OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform for serial devices")
)

// posixOS lists GOOS values whose serial devices live under /dev.
var posixOS = map[string]bool{
	"linux": true, "darwin": true, "freebsd": true, "openbsd": true,
	"netbsd": true, "dragonfly": true, "solaris": true, "illumos": true,
	"aix": true, "android": true, "ios": true,
}

// DevicePath builds the path to open for a raw port name on goos.
func DevicePath(portName, goos string) (string, error) {
	switch {
	case posixOS[goos]:
		return "/dev/" + portName, nil
	case goos == "windows":
		return portName, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// Repl is an interactive session bound to one board's serial port.
type Repl struct {
	ID    string // unique per session, for log correlation
	Port  string // device path to open
	Board board.SerialPort
}

// NewRepl prepares a REPL for port without opening it.
func NewRepl(port board.SerialPort, goos string) (*Repl, error) {
	path, err := DevicePath(port.Name, goos)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	return &Repl{ID: id.String(), Port: path, Board: port}, nil
}
