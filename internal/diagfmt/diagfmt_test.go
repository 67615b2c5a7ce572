package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"mu/internal/diag"
)

func sample() *diag.Set {
	s := diag.NewSet()
	s.Add(diag.New(diag.SevStyle, 1, "Missing whitespace after ','").WithColumn(5).WithCode("E231"))
	s.Add(diag.New(diag.SevError, 0, "undefined name 'foo'").WithColumn(0))
	s.Add(diag.New(diag.SevError, 2, "problem decoding source"))
	return s
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, File{Path: "main.py", Set: sample()}, PrettyOpts{})
	want := "main.py:1:1: error undefined name 'foo'\n" +
		"main.py:2:6: style [E231] Missing whitespace after ','\n" +
		"main.py:3: error problem decoding source\n"
	if got := buf.String(); got != want {
		t.Fatalf("Pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextCaret(t *testing.T) {
	s := diag.NewSet()
	s.Add(diag.New(diag.SevStyle, 0, "x").WithColumn(3))
	var buf bytes.Buffer
	Pretty(&buf, File{Path: "a.py", Source: "日本=1\n", Set: s}, PrettyOpts{Context: true})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected context lines, got %q", buf.String())
	}
	if lines[1] != "    日本=1" {
		t.Fatalf("source line = %q", lines[1])
	}
	// two wide runes plus '=' occupy five cells
	if lines[2] != "         ^" {
		t.Fatalf("caret line = %q", lines[2])
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, File{Path: "main.py", Set: sample()}, PrettyOpts{Max: 1})
	if !strings.HasSuffix(buf.String(), "... 2 more\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "src", "test.py")
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, path},
		{"relative", PathModeRelative, filepath.Join("src", "test.py")},
		{"basename", PathModeBasename, "test.py"},
		{"auto inside", PathModeAuto, filepath.Join("src", "test.py")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(path, tt.mode, base); got != tt.want {
				t.Fatalf("formatPath = %q, want %q", got, tt.want)
			}
		})
	}
	outside := filepath.Join(filepath.Dir(base), "elsewhere.py")
	if got := formatPath(outside, PathModeAuto, base); got != outside {
		t.Fatalf("auto outside base = %q", got)
	}
	if got := formatPath("", PathModeAuto, ""); got != "untitled" {
		t.Fatalf("empty path = %q", got)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	files := []File{
		{Path: "a.py", Set: sample()},
		{Path: "b.py", Set: diag.NewSet()},
	}
	if err := JSON(&buf, files, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 3 || len(out.Files) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	a := out.Files[0]
	if a.File != "a.py" || len(a.Diagnostics) != 2 || a.Truncated != 1 {
		t.Fatalf("unexpected file entry %+v", a)
	}
	first := a.Diagnostics[0]
	if first.Severity != "error" || first.Line != 0 || first.Column == nil || *first.Column != 0 {
		t.Fatalf("unexpected first diagnostic %+v", first)
	}
	if a.Diagnostics[1].Code != "E231" || *a.Diagnostics[1].Column != 5 {
		t.Fatalf("unexpected second diagnostic %+v", a.Diagnostics[1])
	}
	if out.Files[1].Diagnostics == nil {
		t.Fatal("empty file must encode an empty list")
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, File{Path: "m.py", Set: sample()}, PrettyOpts{}); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "m.py:0:0 ERROR undefined name 'foo'\n" +
		"m.py:1:5 STYLE [E231] Missing whitespace after ','\n" +
		"m.py:2:- ERROR problem decoding source\n"
	if buf.String() != want {
		t.Fatalf("Short = %q", buf.String())
	}
}
