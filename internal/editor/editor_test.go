package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mu/internal/board"
	"mu/internal/device"
	"mu/internal/diag"
	"mu/internal/lint"
	"mu/internal/settings"
)

type nopView struct {
	messages []string
}

func (v *nopView) ShowMessage(message, _ string, _ device.MessageKind) {
	v.messages = append(v.messages, message)
}
func (v *nopView) AddFilesystem(string) error    { return nil }
func (v *nopView) RemoveFilesystem()             {}
func (v *nopView) AddRepl(*device.Repl) error    { return nil }
func (v *nopView) RemoveRepl()                   {}
func (v *nopView) GetMicrobitPath(string) string { return "" }

type noBoards struct{}

func (noBoards) Discover(context.Context) (board.SerialPort, bool, error) {
	return board.SerialPort{}, false, nil
}

type lintFunc func(r lint.Reporter)

func (f lintFunc) Analyze(_ context.Context, _, _ string, r lint.Reporter) error {
	f(r)
	return nil
}

type failingLint struct{}

func (failingLint) Analyze(context.Context, string, string, lint.Reporter) error {
	return errors.New("pyflakes missing")
}

type styleReport struct {
	report string
	err    error
}

func (s styleReport) Analyze(context.Context, string) (string, error) { return s.report, s.err }

type extractor struct{ text string }

func (extractor) LocateMount(context.Context) (string, bool) { return "", false }
func (extractor) Write(context.Context, []string, []byte, string) error {
	return nil
}
func (x extractor) ExtractScript(context.Context, string) (string, error) { return x.text, nil }

func newEditor(t *testing.T, opts Options) (*Editor, *nopView, string) {
	t.Helper()
	home := t.TempDir()
	store, err := settings.Open(context.Background(), settings.Options{
		AppDir:  t.TempDir(),
		DataDir: filepath.Join(home, "data"),
		HomeDir: home,
	})
	require.NoError(t, err)
	view := &nopView{}
	opts.View = view
	opts.Settings = store
	if opts.Boards == nil {
		opts.Boards = noBoards{}
	}
	e, err := New(context.Background(), opts)
	require.NoError(t, err)
	return e, view, home
}

func TestNewCreatesDirectories(t *testing.T) {
	_, _, home := newEditor(t, Options{})
	assert.DirExists(t, filepath.Join(home, "data"))
	assert.DirExists(t, filepath.Join(home, settings.WorkspaceName))
}

func TestCheckCodeMergesBothAnalyzers(t *testing.T) {
	e, _, _ := newEditor(t, Options{
		Lint: lintFunc(func(r lint.Reporter) {
			r.Flake("untitled:2: undefined name 'foo'")
		}),
		Style: styleReport{report: "/tmp/x.py:2:1: E302 expected 2 blank lines, found 1\n"},
	})
	set, err := e.CheckCode(context.Background(), "", "x = 1\nfoo()\n")
	require.NoError(t, err)

	got := set.At(1)
	require.Len(t, got, 2)
	assert.Equal(t, diag.SevError, got[0].Severity)
	assert.Equal(t, "undefined name 'foo'", got[0].Message)
	assert.Equal(t, diag.SevStyle, got[1].Severity)
	assert.Equal(t, "E302", got[1].Code)
}

func TestCheckCodeKeepsFindingsWhenOneAnalyzerFails(t *testing.T) {
	e, _, _ := newEditor(t, Options{
		Lint:  failingLint{},
		Style: styleReport{report: "f.py:1:1: W291 trailing whitespace\n"},
	})
	set, err := e.CheckCode(context.Background(), "f.py", "x = 1 \n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyflakes missing")
	assert.Equal(t, 1, set.Count())
	assert.False(t, set.HasErrors())
}

func TestCheckCodeJoinsBothFailures(t *testing.T) {
	e, _, _ := newEditor(t, Options{
		Lint:  failingLint{},
		Style: styleReport{err: errors.New("pycodestyle missing")},
	})
	set, err := e.CheckCode(context.Background(), "f.py", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyflakes missing")
	assert.Contains(t, err.Error(), "pycodestyle missing")
	assert.True(t, set.Empty())
}

func TestSaveAppendsExtension(t *testing.T) {
	e, view, _ := newEditor(t, Options{})
	dir := t.TempDir()
	path, err := e.Save(context.Background(), filepath.Join(dir, "hello"), "print(1)")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello.py"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print(1)", string(data))
	assert.Empty(t, view.messages)
}

func TestSaveFailureTellsUser(t *testing.T) {
	e, view, _ := newEditor(t, Options{})
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "x.py")
	_, err := e.Save(context.Background(), missing, "x")
	require.Error(t, err)
	assert.Equal(t, []string{msgSaveFailed}, view.messages)
}

func TestLoadPython(t *testing.T) {
	e, _, _ := newEditor(t, Options{})
	path := filepath.Join(t.TempDir(), "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\r\n"), 0o644))
	s, err := e.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Script{Path: path, Text: "x = 1\r\n"}, s)
}

func TestLoadHexExtractsScript(t *testing.T) {
	e, _, _ := newEditor(t, Options{Flasher: extractor{text: "print('hi')"}})
	path := filepath.Join(t.TempDir(), "firmware.hex")
	require.NoError(t, os.WriteFile(path, []byte(":10000000"), 0o644))
	s, err := e.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", s.Path)
	assert.Equal(t, "print('hi')", s.Text)
}

func TestLoadMissingFile(t *testing.T) {
	e, _, _ := newEditor(t, Options{})
	_, err := e.Load(context.Background(), filepath.Join(t.TempDir(), "gone.py"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestToggleReplWithoutBoard(t *testing.T) {
	e, view, _ := newEditor(t, Options{})
	out, err := e.ToggleRepl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, device.OutcomeNotFound, out)
	assert.Equal(t, device.ModeIdle, e.Session().Mode())
	require.Len(t, view.messages, 1)
	assert.True(t, strings.HasPrefix(view.messages[0], "Could not find"))
}

func TestDefaultScript(t *testing.T) {
	assert.True(t, strings.HasPrefix(DefaultScript(), "from microbit import *\n"))
}
