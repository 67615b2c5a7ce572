package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mu/internal/atomicfile"
	"mu/internal/device"
	"mu/internal/trace"
)

const (
	msgSaveFailed       = "Could not save file."
	msgSaveFailedDetail = "Error saving file to disk. Ensure you have permission to write the file " +
		"and sufficient disk space."
)

// DefaultScript is the text of a fresh buffer.
func DefaultScript() string {
	return "from microbit import *\n\n# Write your code here :-)"
}

// Script is a loaded buffer. Path is empty when the text was recovered
// from a firmware image and still needs a name.
type Script struct {
	Path string
	Text string
}

// Load reads a script. A .py file is read verbatim; anything else is
// treated as a firmware image and the embedded script is extracted.
func (e *Editor) Load(ctx context.Context, path string) (Script, error) {
	trace.Info(ctx, trace.ScopeOperation, "loading script", "path", path)
	if strings.HasSuffix(path, ".py") {
		data, err := os.ReadFile(path)
		if err != nil {
			trace.Warn(ctx, trace.ScopeOperation, "could not load", "path", path, "err", err)
			return Script{}, fmt.Errorf("load %s: %w", path, err)
		}
		return Script{Path: path, Text: string(data)}, nil
	}
	if _, err := os.Stat(path); err != nil {
		trace.Warn(ctx, trace.ScopeOperation, "could not load", "path", path, "err", err)
		return Script{}, fmt.Errorf("load %s: %w", path, err)
	}
	if e.flasher == nil {
		return Script{}, errors.New("editor: no flasher to extract scripts with")
	}
	text, err := e.flasher.ExtractScript(ctx, path)
	if err != nil {
		return Script{}, fmt.Errorf("extract %s: %w", path, err)
	}
	return Script{Text: text}, nil
}

// Save writes text to path, adding a .py extension when the name has
// none, and returns the path written. On failure the user is told and the
// error is returned.
func (e *Editor) Save(ctx context.Context, path, text string) (string, error) {
	if path == "" {
		return "", errors.New("editor: empty save path")
	}
	if !strings.HasSuffix(filepath.Base(path), ".py") {
		path += ".py"
	}
	trace.Info(ctx, trace.ScopeOperation, "saving script", "path", path)
	if err := atomicfile.WriteFile(path, []byte(text), 0o644); err != nil {
		trace.Error(ctx, trace.ScopeOperation, "save failed", err, "path", path)
		e.view.ShowMessage(msgSaveFailed, msgSaveFailedDetail, device.KindWarning)
		return path, fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
