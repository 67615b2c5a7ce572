package device

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"mu/internal/board"
	"mu/internal/trace"
)

// MessageKind selects how prominently a view shows a message.
type MessageKind uint8

const (
	KindWarning MessageKind = iota
	KindInformation
	KindCritical
)

// View is the user-facing side of the editor.
type View interface {
	ShowMessage(message, detail string, kind MessageKind)
	// AddFilesystem shows the local (home) and device file panes.
	AddFilesystem(home string) error
	RemoveFilesystem()
	// AddRepl attaches the REPL pane and opens its port.
	AddRepl(r *Repl) error
	RemoveRepl()
	// GetMicrobitPath asks the user for the board's mount point, starting
	// the chooser in startDir. An empty result means the user cancelled.
	GetMicrobitPath(startDir string) string
}

// BoardFinder locates a supported board on the serial bus.
type BoardFinder interface {
	Discover(ctx context.Context) (board.SerialPort, bool, error)
}

// Transport probes the board's file transfer link.
type Transport interface {
	Probe(ctx context.Context) error
}

// Workspace resolves the user's directories and firmware settings.
type Workspace interface {
	Workspace(ctx context.Context) string
	// RuntimeHexPath returns a custom runtime image, or "" for the default.
	RuntimeHexPath(ctx context.Context) string
}

// Outcome is the result of a session operation that did not fail.
type Outcome uint8

const (
	OutcomeStarted Outcome = iota + 1
	OutcomeStopped
	// OutcomeUnchanged: the requested state was already in effect.
	OutcomeUnchanged
	// OutcomeConflict: the other serial user is active; the user was told.
	OutcomeConflict
	// OutcomeNotFound: no board answered; the user was told.
	OutcomeNotFound
	// OutcomeFailed: the board was found but could not be opened; the user was told.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeStopped:
		return "stopped"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeConflict:
		return "conflict"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Config wires a Session to its collaborators.
type Config struct {
	View      View
	Boards    BoardFinder
	Transport Transport
	Flasher   Flasher
	Workspace Workspace
	// HomeDir is where the mount chooser starts.
	HomeDir string
	// GOOS overrides runtime.GOOS for device path construction.
	GOOS string
}

// Session owns the serial link to the board. All operations are
// serialized by one mutex, which also guards the remembered mount path.
type Session struct {
	mu   sync.Mutex
	mode Mode
	repl *Repl // non-nil only in ModeRepl

	remembered string

	view      View
	boards    BoardFinder
	transport Transport
	flasher   Flasher
	workspace Workspace
	home      string
	goos      string
}

func New(cfg Config) *Session {
	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return &Session{
		view:      cfg.View,
		boards:    cfg.Boards,
		transport: cfg.Transport,
		flasher:   cfg.Flasher,
		workspace: cfg.Workspace,
		home:      cfg.HomeDir,
		goos:      goos,
	}
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Repl returns the active REPL, or nil.
func (s *Session) Repl() *Repl {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repl
}

// ToggleRepl starts the REPL when idle and stops it when active. With the
// file system active it reports the conflict and changes nothing.
func (s *Session) ToggleRepl(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.mode {
	case ModeRepl:
		return s.stopReplLocked(ctx)
	default:
		return s.startReplLocked(ctx)
	}
}

// ToggleFilesystem starts the file system session when idle and stops it
// when active. With the REPL active it reports the conflict.
func (s *Session) ToggleFilesystem(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.mode {
	case ModeFilesystem:
		return s.stopFilesystemLocked(ctx)
	default:
		return s.startFilesystemLocked(ctx)
	}
}

func (s *Session) StartRepl(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startReplLocked(ctx)
}

func (s *Session) StopRepl(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopReplLocked(ctx)
}

func (s *Session) StartFilesystem(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startFilesystemLocked(ctx)
}

func (s *Session) StopFilesystem(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopFilesystemLocked(ctx)
}

func (s *Session) startReplLocked(ctx context.Context) (Outcome, error) {
	ctx, span := trace.Start(ctx, trace.ScopeOperation, "start_repl")
	defer span.End("")

	switch s.mode {
	case ModeRepl:
		return OutcomeUnchanged, ErrReplRunning
	case ModeFilesystem:
		s.view.ShowMessage(msgReplConflict, msgReplConflictDetail, KindWarning)
		span.WithExtra("outcome", OutcomeConflict.String())
		return OutcomeConflict, nil
	}

	port, ok := s.discover(ctx)
	if !ok {
		s.view.ShowMessage(msgNoDevice, msgReplNotFoundDetail, KindWarning)
		span.WithExtra("outcome", OutcomeNotFound.String())
		return OutcomeNotFound, nil
	}

	repl, err := NewRepl(port, s.goos)
	if err != nil {
		trace.Error(ctx, trace.ScopeOperation, "cannot build REPL", err)
		return OutcomeFailed, err
	}
	ctx = trace.WithSession(ctx, repl.ID)
	if err := s.view.AddRepl(repl); err != nil {
		trace.Error(ctx, trace.ScopeDevice, "REPL open failed", err, "port", repl.Port)
		s.view.ShowMessage(err.Error(), msgReplOpenFailedDetail, KindWarning)
		span.WithExtra("outcome", OutcomeFailed.String())
		return OutcomeFailed, nil
	}

	s.mode, s.repl = ModeRepl, repl
	trace.Info(ctx, trace.ScopeOperation, "REPL started", "port", repl.Port)
	span.WithExtra("outcome", OutcomeStarted.String())
	return OutcomeStarted, nil
}

func (s *Session) stopReplLocked(ctx context.Context) (Outcome, error) {
	if s.mode != ModeRepl {
		return OutcomeUnchanged, ErrReplNotRunning
	}
	s.view.RemoveRepl()
	trace.Info(trace.WithSession(ctx, s.repl.ID), trace.ScopeOperation, "REPL stopped")
	s.mode, s.repl = ModeIdle, nil
	return OutcomeStopped, nil
}

func (s *Session) startFilesystemLocked(ctx context.Context) (Outcome, error) {
	ctx, span := trace.Start(ctx, trace.ScopeOperation, "start_filesystem")
	defer span.End("")

	switch s.mode {
	case ModeFilesystem:
		return OutcomeUnchanged, nil
	case ModeRepl:
		s.view.ShowMessage(msgFilesystemConflict, msgFilesystemConflictDetail, KindWarning)
		span.WithExtra("outcome", OutcomeConflict.String())
		return OutcomeConflict, nil
	}

	if err := s.transport.Probe(ctx); err != nil {
		trace.Warn(ctx, trace.ScopeDevice, "file transfer probe failed", "err", err)
		s.view.ShowMessage(msgNoDevice, msgFilesystemNotFoundDetail, KindWarning)
		span.WithExtra("outcome", OutcomeNotFound.String())
		return OutcomeNotFound, nil
	}
	if err := s.view.AddFilesystem(s.workspace.Workspace(ctx)); err != nil {
		trace.Error(ctx, trace.ScopeDevice, "file system pane failed", err)
		s.view.ShowMessage(err.Error(), msgFilesystemNotFoundDetail, KindWarning)
		span.WithExtra("outcome", OutcomeFailed.String())
		return OutcomeFailed, nil
	}

	s.mode = ModeFilesystem
	span.WithExtra("outcome", OutcomeStarted.String())
	return OutcomeStarted, nil
}

func (s *Session) stopFilesystemLocked(ctx context.Context) (Outcome, error) {
	if s.mode != ModeFilesystem {
		return OutcomeUnchanged, ErrFilesystemNotRunning
	}
	s.view.RemoveFilesystem()
	trace.Info(ctx, trace.ScopeOperation, "file system stopped")
	s.mode = ModeIdle
	return OutcomeStopped, nil
}

func (s *Session) discover(ctx context.Context) (board.SerialPort, bool) {
	port, ok, err := s.boards.Discover(ctx)
	if err != nil {
		trace.Warn(ctx, trace.ScopeDevice, "board discovery failed", "err", err)
		return board.SerialPort{}, false
	}
	if !ok {
		trace.Warn(ctx, trace.ScopeDevice, "could not find micro:bit")
	}
	return port, ok
}

func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repl != nil {
		return fmt.Sprintf("session(%s %s)", s.mode, s.repl.Port)
	}
	return fmt.Sprintf("session(%s)", s.mode)
}
