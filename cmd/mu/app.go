package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mu/internal/board"
	"mu/internal/editor"
	"mu/internal/flasher"
	"mu/internal/lint"
	"mu/internal/microfs"
	"mu/internal/project"
	"mu/internal/settings"
	"mu/internal/style"
	"mu/internal/toolrun"
	"mu/internal/trace"
)

// app is everything a command needs to talk to the board and the analyzers.
type app struct {
	manifest  *project.Manifest
	settings  *settings.Store
	boards    *board.Registry
	transport *microfs.Transport
	view      *terminalView
	editor    *editor.Editor
}

// buildApp loads mu.toml and settings.json and wires the editor. mount
// presets the answer to the mount point prompt.
func buildApp(cmd *cobra.Command, mount string) (*app, error) {
	ctx := cmd.Context()
	root := cmd.Root().PersistentFlags()

	settingsDir, err := root.GetString("settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get settings flag: %w", err)
	}
	diskCache, err := root.GetBool("disk-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	manifest, err := project.LoadManifest(cwd)
	if err != nil {
		return nil, err
	}
	cfg := manifest.Config

	store, err := settings.Open(ctx, settings.Options{AppDir: settingsDir})
	if err != nil {
		return nil, err
	}

	var cache *toolrun.DiskCache
	if diskCache || cfg.Cache.Enabled {
		cache, err = toolrun.OpenDiskCache("mu")
		if err != nil {
			// кэш необязателен
			trace.Warn(ctx, trace.ScopeCommand, "disk cache unavailable", "err", err)
			cache = nil
		}
	}
	runner := toolrun.NewRunner(cache)

	boards := board.NewRegistry(board.SerialEnumerator{})
	transport := &microfs.Transport{Boards: boards, Baud: cfg.Serial.Baud}
	view := newTerminalView(cmd.ErrOrStderr(), useColor, mount, cfg.Serial.Baud)

	ed, err := editor.New(ctx, editor.Options{
		View:      view,
		Boards:    boards,
		Transport: transport,
		Flasher: &flasher.Uflash{
			Command: cfg.FlasherCommand(),
			Runner:  runner,
			Locator: flasher.Locator{Runner: runner},
		},
		Settings: store,
		Lint:     &lint.Pyflakes{Command: cfg.LintCommand(), Runner: runner},
		Style:    &style.Pycodestyle{Command: cfg.StyleCommand(), Runner: runner},
	})
	if err != nil {
		return nil, err
	}
	trace.Info(ctx, trace.ScopeCommand, "editor ready",
		"manifest", manifest.Path, "settings", store.Path(), "cache", cache != nil)

	return &app{
		manifest:  manifest,
		settings:  store,
		boards:    boards,
		transport: transport,
		view:      view,
		editor:    ed,
	}, nil
}
