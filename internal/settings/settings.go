// Package settings reads the user's settings.json and resolves the
// directories mu works in.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"mu/internal/atomicfile"
	"mu/internal/trace"
)

const (
	// FileName is the settings file name in either location.
	FileName = "settings.json"
	// WorkspaceName is the default workspace directory under the home directory.
	WorkspaceName = "mu_code"
)

// Settings is the subset of settings.json mu reads.
type Settings struct {
	Workspace  *string `json:"workspace,omitempty"`
	RuntimeHex *string `json:"microbit_runtime_hex,omitempty"`
}

// Options locates the settings file. Empty fields get platform defaults.
type Options struct {
	// AppDir is checked first for a settings.json; defaults to the
	// executable's directory.
	AppDir string
	// DataDir is the fallback location and is created when missing.
	DataDir string
	HomeDir string
}

// Store resolves workspace and runtime paths from one settings file.
// It rereads the file on every query so edits apply without a restart.
type Store struct {
	path    string
	dataDir string
	homeDir string
}

// Open resolves the settings path. A settings.json next to the executable
// takes preference; otherwise the data directory one is used and created
// as an empty object if missing. Failure to create it is logged, not fatal.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		opts.HomeDir = home
	}
	if opts.DataDir == "" {
		dir, err := DefaultDataDir(opts.HomeDir)
		if err != nil {
			return nil, err
		}
		opts.DataDir = dir
	}
	if opts.AppDir == "" {
		if exe, err := os.Executable(); err == nil {
			opts.AppDir = filepath.Dir(exe)
		}
	}
	trace.Info(ctx, trace.ScopeDevice, "application directory", "dir", opts.AppDir)

	s := &Store{dataDir: opts.DataDir, homeDir: opts.HomeDir}
	if opts.AppDir != "" {
		candidate := filepath.Join(opts.AppDir, FileName)
		if fileExists(candidate) {
			s.path = candidate
			return s, nil
		}
	}

	s.path = filepath.Join(opts.DataDir, FileName)
	if !fileExists(s.path) {
		trace.Info(ctx, trace.ScopeDevice, "creating settings file", "path", s.path)
		if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
			trace.Error(ctx, trace.ScopeDevice, "unable to create data directory", err, "dir", opts.DataDir)
		} else if err := atomicfile.WriteFile(s.path, []byte("{}"), 0o644); err != nil {
			trace.Error(ctx, trace.ScopeDevice, "unable to create settings file", err, "path", s.path)
		}
	}
	return s, nil
}

// Path returns the settings file in use.
func (s *Store) Path() string { return s.path }

// DataDir returns the application data directory.
func (s *Store) DataDir() string { return s.dataDir }

// HomeDir returns the user's home directory.
func (s *Store) HomeDir() string { return s.homeDir }

// Load reads the settings file. A missing or unparseable file is logged
// and yields empty settings.
func (s *Store) Load(ctx context.Context) Settings {
	var out Settings
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			trace.Error(ctx, trace.ScopeDevice, "settings file does not exist", err, "path", s.path)
		} else {
			trace.Error(ctx, trace.ScopeDevice, "settings file unreadable", err, "path", s.path)
		}
		return Settings{}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		trace.Error(ctx, trace.ScopeDevice, "settings file could not be parsed", err, "path", s.path)
		return Settings{}
	}
	return out
}

// DefaultWorkspace is the workspace used when settings do not override it.
func (s *Store) DefaultWorkspace() string {
	return filepath.Join(s.homeDir, WorkspaceName)
}

// Workspace returns the configured workspace if it is an existing
// directory, the default one otherwise.
func (s *Store) Workspace(ctx context.Context) string {
	return s.workspaceFrom(ctx, s.Load(ctx))
}

func (s *Store) workspaceFrom(ctx context.Context, st Settings) string {
	if st.Workspace == nil {
		return s.DefaultWorkspace()
	}
	if !dirExists(*st.Workspace) {
		trace.Error(ctx, trace.ScopeDevice, "workspace value in the settings file is not a valid directory",
			nil, "workspace", *st.Workspace)
		return s.DefaultWorkspace()
	}
	return *st.Workspace
}

// RuntimeHexPath returns the custom runtime image named in the settings,
// resolved against the workspace, or "" when unset or missing on disk.
func (s *Store) RuntimeHexPath(ctx context.Context) string {
	st := s.Load(ctx)
	if st.RuntimeHex == nil {
		return ""
	}
	p := *st.RuntimeHex
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.workspaceFrom(ctx, st), p)
	}
	if !fileExists(p) {
		trace.Warn(ctx, trace.ScopeDevice, "runtime hex not found", "path", p)
		return ""
	}
	return p
}

// EnsureDirs creates the data directory and the workspace if missing.
func (s *Store) EnsureDirs(ctx context.Context) error {
	for _, dir := range []string{s.dataDir, s.Workspace(ctx)} {
		if dirExists(dir) {
			continue
		}
		trace.Info(ctx, trace.ScopeDevice, "creating directory", "dir", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultDataDir returns the per-user application data directory.
func DefaultDataDir(home string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(base, "python", "mu"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mu"), nil
	default:
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			if home == "" {
				return "", errors.New("cannot resolve data directory without a home directory")
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, "mu"), nil
	}
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func dirExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
