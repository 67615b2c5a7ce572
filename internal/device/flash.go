package device

import (
	"context"
	"fmt"
	"os"

	"mu/internal/trace"
)

// MaxScriptBytes is the first script size, in UTF-8 bytes, that no longer
// fits the runtime's script area.
const MaxScriptBytes = 8192

// Flasher writes scripts onto a board's mass-storage mount.
type Flasher interface {
	// LocateMount finds the board's mount point without user help.
	LocateMount(ctx context.Context) (string, bool)
	// Write combines script with the runtime image (runtimeHex, or the
	// built-in one when empty) and copies it to each mount.
	Write(ctx context.Context, mounts []string, script []byte, runtimeHex string) error
	// ExtractScript recovers the script embedded in a firmware image file.
	ExtractScript(ctx context.Context, hexPath string) (string, error)
}

// FlashStatus says how a flash request ended.
type FlashStatus uint8

const (
	// FlashRejected: the script was too long; nothing touched the device.
	FlashRejected FlashStatus = iota + 1
	// FlashNotFound: no usable mount point.
	FlashNotFound
	// FlashFailed: the write itself failed.
	FlashFailed
	Flashed
)

func (s FlashStatus) String() string {
	switch s {
	case FlashRejected:
		return "rejected"
	case FlashNotFound:
		return "not found"
	case FlashFailed:
		return "failed"
	case Flashed:
		return "flashed"
	}
	return "unknown"
}

// FlashResult reports where a script went.
type FlashResult struct {
	Status      FlashStatus
	MountPath   string
	RuntimePath string
}

// Flash writes script, labelled for messages as label, to the attached
// board. The mount is located automatically, then taken from the path the
// user gave last time, then asked for. A stale remembered path is
// forgotten. The whole request runs under the session lock.
func (s *Session) Flash(ctx context.Context, label string, script []byte) (FlashResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := trace.Start(ctx, trace.ScopeOperation, "flash")
	defer span.End("")
	trace.Info(ctx, trace.ScopeOperation, "flashing script", "label", label, "bytes", len(script))

	if len(script) >= MaxScriptBytes {
		s.view.ShowMessage(fmt.Sprintf(msgScriptTooLongFmt, label), msgScriptTooLongDetail, KindWarning)
		span.WithExtra("status", FlashRejected.String())
		return FlashResult{Status: FlashRejected}, nil
	}

	mount, ok := s.flasher.LocateMount(ctx)
	if !ok {
		if s.remembered != "" {
			mount = s.remembered
		} else {
			mount = s.view.GetMicrobitPath(s.home)
			s.remembered = mount
			trace.Info(ctx, trace.ScopeDevice, "user defined mount path", "path", mount)
		}
	}
	trace.Info(ctx, trace.ScopeDevice, "mount path", "path", mount)

	if mount == "" || !pathExists(mount) {
		s.remembered = ""
		s.view.ShowMessage(msgNoDevice, msgFlashNotFoundDetail, KindWarning)
		span.WithExtra("status", FlashNotFound.String())
		return FlashResult{Status: FlashNotFound}, nil
	}

	runtimeHex := s.workspace.RuntimeHexPath(ctx)
	if err := s.flasher.Write(ctx, []string{mount}, script, runtimeHex); err != nil {
		trace.Error(ctx, trace.ScopeDevice, "flash write failed", err, "mount", mount)
		s.view.ShowMessage(fmt.Sprintf(msgFlashFailedFmt, label), msgFlashFailedDetail, KindWarning)
		span.WithExtra("status", FlashFailed.String())
		return FlashResult{Status: FlashFailed, MountPath: mount, RuntimePath: runtimeHex},
			fmt.Errorf("flash %s to %s: %w", label, mount, err)
	}

	msg := fmt.Sprintf(msgFlashingFmt, label)
	if runtimeHex != "" {
		msg += msgFlashingRuntime + runtimeHex
	}
	s.view.ShowMessage(msg, msgFlashingDetail, KindInformation)
	span.WithExtra("status", Flashed.String())
	return FlashResult{Status: Flashed, MountPath: mount, RuntimePath: runtimeHex}, nil
}

// RememberedPath returns the mount path the user supplied, if still trusted.
// It lives only as long as the session.
func (s *Session) RememberedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remembered
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
