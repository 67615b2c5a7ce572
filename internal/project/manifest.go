// Package project loads the optional mu.toml tool manifest.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mu/internal/flasher"
	"mu/internal/lint"
	"mu/internal/microfs"
	"mu/internal/style"
	"mu/internal/toolrun"
)

// Manifest is a located and decoded mu.toml.
type Manifest struct {
	Path   string // empty when no manifest was found
	Root   string
	Config Config
}

// Config holds the tool settings. Zero-valued fields fall back to defaults.
type Config struct {
	Analyzers AnalyzersConfig `toml:"analyzers"`
	Flasher   FlasherConfig   `toml:"flasher"`
	Serial    SerialConfig    `toml:"serial"`
	Cache     CacheConfig     `toml:"cache"`
}

type AnalyzersConfig struct {
	Lint  []string `toml:"lint"`
	Style []string `toml:"style"`
}

type FlasherConfig struct {
	Command []string `toml:"command"`
}

type SerialConfig struct {
	Baud int `toml:"baud"`
}

type CacheConfig struct {
	Enabled bool `toml:"enabled"`
}

// Defaults returns the configuration used when mu.toml is absent.
func Defaults() Config {
	return Config{
		Analyzers: AnalyzersConfig{
			Lint:  append([]string(nil), lint.DefaultPyflakes...),
			Style: append([]string(nil), style.DefaultPycodestyle...),
		},
		Flasher: FlasherConfig{Command: append([]string(nil), flasher.DefaultCommand...)},
		Serial:  SerialConfig{Baud: microfs.DefaultBaud},
	}
}

// LintCommand returns the pyflakes command line.
func (c Config) LintCommand() toolrun.Command { return toolrun.Command(c.Analyzers.Lint) }

// StyleCommand returns the pycodestyle command line.
func (c Config) StyleCommand() toolrun.Command { return toolrun.Command(c.Analyzers.Style) }

// FlasherCommand returns the uflash command line.
func (c Config) FlasherCommand() toolrun.Command { return toolrun.Command(c.Flasher.Command) }

// LoadManifest finds mu.toml above startDir and decodes it over the
// defaults. A missing manifest is not an error.
func LoadManifest(startDir string) (*Manifest, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Manifest{Config: Defaults()}, nil
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: manifestPath, Root: filepath.Dir(manifestPath), Config: cfg}, nil
}

// LoadConfig decodes the manifest at path.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	commands := []struct {
		key  []string
		argv []string
	}{
		{[]string{"analyzers", "lint"}, cfg.Analyzers.Lint},
		{[]string{"analyzers", "style"}, cfg.Analyzers.Style},
		{[]string{"flasher", "command"}, cfg.Flasher.Command},
	}
	for _, c := range commands {
		if !meta.IsDefined(c.key...) {
			continue
		}
		if err := toolrun.Command(c.argv).Validate(); err != nil {
			return Config{}, fmt.Errorf("%s: [%s].%s: %w", path, c.key[0], c.key[1], err)
		}
	}
	if meta.IsDefined("serial", "baud") && cfg.Serial.Baud <= 0 {
		return Config{}, fmt.Errorf("%s: [serial].baud must be positive, got %d", path, cfg.Serial.Baud)
	}
	return cfg, nil
}
