package toolrun

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}

func TestRunCapturesExitCode(t *testing.T) {
	requireShell(t)
	out, err := NewRunner(nil).Run(context.Background(), Request{
		Command: Command{"sh", "-c", "cat; echo oops >&2; exit 1"},
		Stdin:   []byte("hello\n"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.ExitCode != 1 || string(out.Stdout) != "hello\n" || strings.TrimSpace(string(out.Stderr)) != "oops" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestRunMissingTool(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), Request{Command: Command{"mu-no-such-tool-xyz"}})
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
}

func TestRunEmptyCommand(t *testing.T) {
	if _, err := NewRunner(nil).Run(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestRunUsesCache(t *testing.T) {
	requireShell(t)
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	counter := filepath.Join(t.TempDir(), "runs")
	r := NewRunner(cache)
	req := Request{
		Command: Command{"sh", "-c", `echo run >> "$0"; cat`},
		Args:    []string{counter},
		Stdin:   []byte("x = 1\n"),
		Input:   []byte("x = 1\n"),
	}
	for i := 0; i < 2; i++ {
		out, err := r.Run(context.Background(), req)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if string(out.Stdout) != "x = 1\n" {
			t.Fatalf("run %d stdout = %q", i, out.Stdout)
		}
	}
	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "run"); n != 1 {
		t.Fatalf("tool ran %d times, want 1", n)
	}
}

func TestDiskCacheSchemaMismatchIsMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor(Command{"pyflakes"}, []byte("x"))
	if err := cache.Put(key, &Payload{Schema: diskCacheSchemaVersion + 1}); err != nil {
		t.Fatal(err)
	}
	var p Payload
	ok, err := cache.Get(key, &p)
	if err != nil || ok {
		t.Fatalf("Get = %v, %v; want miss", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &p); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestKeyForSeparatesArgs(t *testing.T) {
	a := KeyFor(Command{"ab", "c"}, []byte("x"))
	b := KeyFor(Command{"a", "bc"}, []byte("x"))
	if a == b {
		t.Fatal("keys collide across argument boundaries")
	}
}
