package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirs struct {
	app, data, home string
}

func newDirs(t *testing.T) dirs {
	t.Helper()
	root := t.TempDir()
	d := dirs{
		app:  filepath.Join(root, "app"),
		data: filepath.Join(root, "data"),
		home: filepath.Join(root, "home"),
	}
	require.NoError(t, os.MkdirAll(d.app, 0o755))
	require.NoError(t, os.MkdirAll(d.home, 0o755))
	return d
}

func (d dirs) open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{AppDir: d.app, DataDir: d.data, HomeDir: d.home})
	require.NoError(t, err)
	return s
}

func writeJSON(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestOpenCreatesDataSettings(t *testing.T) {
	d := newDirs(t)
	s := d.open(t)
	assert.Equal(t, filepath.Join(d.data, FileName), s.Path())
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestOpenPrefersAppDir(t *testing.T) {
	d := newDirs(t)
	writeJSON(t, filepath.Join(d.app, FileName), `{}`)
	s := d.open(t)
	assert.Equal(t, filepath.Join(d.app, FileName), s.Path())
	assert.NoFileExists(t, filepath.Join(d.data, FileName))
}

func TestWorkspace(t *testing.T) {
	d := newDirs(t)
	custom := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"default", `{}`, filepath.Join(d.home, WorkspaceName)},
		{"custom", `{"workspace": "` + filepath.ToSlash(custom) + `"}`, filepath.ToSlash(custom)},
		{"not a directory", `{"workspace": "/no/such/dir"}`, filepath.Join(d.home, WorkspaceName)},
		{"unparseable", `{not json`, filepath.Join(d.home, WorkspaceName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := d.open(t)
			writeJSON(t, s.Path(), tt.body)
			assert.Equal(t, filepath.Clean(tt.want), filepath.Clean(s.Workspace(ctx)))
		})
	}
}

func TestRuntimeHexPath(t *testing.T) {
	d := newDirs(t)
	ctx := context.Background()
	s := d.open(t)
	ws := filepath.Join(d.home, WorkspaceName)
	require.NoError(t, os.MkdirAll(ws, 0o755))

	writeJSON(t, s.Path(), `{"microbit_runtime_hex": null}`)
	assert.Empty(t, s.RuntimeHexPath(ctx))

	writeJSON(t, s.Path(), `{"microbit_runtime_hex": "custom.hex"}`)
	assert.Empty(t, s.RuntimeHexPath(ctx), "missing file must be ignored")

	hex := filepath.Join(ws, "custom.hex")
	writeJSON(t, hex, ":00000001FF\n")
	assert.Equal(t, hex, s.RuntimeHexPath(ctx))

	abs := filepath.Join(t.TempDir(), "abs.hex")
	writeJSON(t, abs, ":00000001FF\n")
	writeJSON(t, s.Path(), `{"microbit_runtime_hex": "`+filepath.ToSlash(abs)+`"}`)
	assert.Equal(t, filepath.Clean(abs), filepath.Clean(s.RuntimeHexPath(ctx)))
}

func TestEnsureDirs(t *testing.T) {
	d := newDirs(t)
	s := d.open(t)
	require.NoError(t, s.EnsureDirs(context.Background()))
	assert.DirExists(t, d.data)
	assert.DirExists(t, filepath.Join(d.home, WorkspaceName))
}
