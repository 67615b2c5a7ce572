package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"mu/internal/device"
	"mu/internal/toolrun"
	"mu/internal/version"
)

func TestParseSwitch(t *testing.T) {
	cases := map[string]autoSwitch{"": switchAuto, "AUTO": switchAuto, " on ": switchOn, "off": switchOff}
	for in, want := range cases {
		got, err := parseSwitch("ui", in)
		if err != nil {
			t.Fatalf("parseSwitch(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("parseSwitch(%q) = %q, want %q", in, got, want)
		}
	}
	_, err := parseSwitch("color", "sometimes")
	if err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("unknown value error = %v", err)
	}
	if !switchOn.on(os.Stdout) || switchOff.on(os.Stdout) {
		t.Fatal("explicit values ignored")
	}
}

func TestCollectScripts(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"a.py", "sub/b.py", "sub/notes.txt", ".hidden/c.py", "__pycache__/d.py"} {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	single := filepath.Join(root, "a.py")
	got, err := collectScripts([]string{root, single})
	if err != nil {
		t.Fatalf("collectScripts: %v", err)
	}
	want := []string{single, filepath.Join(root, "sub", "b.py")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("collectScripts = %v, want %v", got, want)
	}
	if _, err := collectScripts([]string{filepath.Join(root, "missing.py")}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestTerminalViewShowMessage(t *testing.T) {
	var out bytes.Buffer
	v := &terminalView{out: &out}
	v.ShowMessage("Could not flash", "line one\nline two", device.KindWarning)
	want := "Could not flash\n  line one\n  line two\n"
	if out.String() != want {
		t.Fatalf("ShowMessage wrote %q, want %q", out.String(), want)
	}
}

func TestTerminalViewMountPath(t *testing.T) {
	v := &terminalView{out: &bytes.Buffer{}, mount: "/media/MICROBIT"}
	if got := v.GetMicrobitPath("/home/u"); got != "/media/MICROBIT" {
		t.Fatalf("preset mount ignored: %q", got)
	}

	v = &terminalView{out: &bytes.Buffer{}, in: strings.NewReader("/mnt/mb\n"), prompt: true}
	if got := v.GetMicrobitPath("/home/u"); got != "/mnt/mb" {
		t.Fatalf("prompted mount = %q", got)
	}

	v = &terminalView{out: &bytes.Buffer{}, in: strings.NewReader("\n"), prompt: true}
	if got := v.GetMicrobitPath("/home/u"); got != "" {
		t.Fatalf("empty answer should cancel, got %q", got)
	}

	v = &terminalView{out: &bytes.Buffer{}, in: strings.NewReader("/mnt/mb\n")}
	if got := v.GetMicrobitPath("/home/u"); got != "" {
		t.Fatalf("non-interactive view must not prompt, got %q", got)
	}
}

func TestRequireStarted(t *testing.T) {
	if err := requireStarted("repl", device.OutcomeStarted); err != nil {
		t.Fatalf("started: %v", err)
	}
	err := requireStarted("repl", device.OutcomeConflict)
	if err == nil || !strings.Contains(err.Error(), "conflict") {
		t.Fatalf("conflict error = %v", err)
	}
}

func TestVersionPayload(t *testing.T) {
	info := version.Info{Version: "1.2.3", GitCommit: "abc"}
	got := buildVersionPayload(info, versionOptions{showHash: true, showDate: true})
	want := versionPayload{Tool: "mu", Version: "1.2.3", GitCommit: "abc", BuildDate: "unknown"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("payload = %+v, want %+v", got, want)
	}

	var out bytes.Buffer
	if err := writeJSON(&out, got); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded["git_message"]; ok {
		t.Fatalf("unrequested field present: %s", out.String())
	}
}

func TestRenderVersionPrettyTools(t *testing.T) {
	var out bytes.Buffer
	renderVersionPretty(&out, versionPayload{
		Tool:    "mu",
		Version: "1.2.3",
		Tools: []toolStatus{
			{Role: "lint", Command: "python3 -m pyflakes", Path: "/usr/bin/python3"},
			{Role: "flash", Command: "uflash"},
		},
	}, false)
	want := "mu 1.2.3\n" +
		"lint:    python3 -m pyflakes => /usr/bin/python3\n" +
		"flash:   uflash => not found\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestClearCache(t *testing.T) {
	c, err := toolrun.OpenDiskCacheAt(filepath.Join(t.TempDir(), "mu"))
	if err != nil {
		t.Fatal(err)
	}
	key := toolrun.KeyFor(toolrun.Command{"pyflakes"}, []byte("x = 1\n"))
	if err := c.Put(key, toolrun.NewPayload(toolrun.Output{Stdout: []byte("ok")})); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := clearCache(&out, c); err != nil {
		t.Fatalf("clearCache: %v", err)
	}
	if !strings.HasPrefix(out.String(), "cleared "+c.Dir()) {
		t.Fatalf("output = %q", out.String())
	}
	var p toolrun.Payload
	if hit, err := c.Get(key, &p); err != nil || hit {
		t.Fatalf("entry survived clear: hit=%v err=%v", hit, err)
	}
}
