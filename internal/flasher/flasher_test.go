package flasher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"mu/internal/toolrun"
)

func TestFindInMountTable(t *testing.T) {
	table := `sysfs /sys sysfs rw,nosuid 0 0
/dev/sda1 / ext4 rw,relatime 0 0
/dev/sdb /media/my\040user/MICROBIT vfat rw,nosuid,nodev 0 0
`
	got, ok := findInMountTable(strings.NewReader(table))
	if !ok || got != "/media/my user/MICROBIT" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := findInMountTable(strings.NewReader("/dev/sda1 / ext4 rw 0 0\n")); ok {
		t.Fatal("unexpected match")
	}
}

func TestFindInMountOutput(t *testing.T) {
	tests := []struct {
		name, out, want string
		ok              bool
	}{
		{"linux", "/dev/sdb on /media/me/MICROBIT type vfat (rw,nosuid)\n", "/media/me/MICROBIT", true},
		{"darwin", "/dev/disk1s1 on / (apfs, local)\n/dev/disk2 on /Volumes/MICROBIT (msdos, local, nodev)\n", "/Volumes/MICROBIT", true},
		{"similar name", "/dev/sdb on /media/me/MICROBIT2 type vfat (rw)\n", "", false},
		{"none", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findInMountOutput(strings.NewReader(tt.out))
			if ok != tt.ok || got != tt.want {
				t.Fatalf("got %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLocatorLinuxTable(t *testing.T) {
	table := filepath.Join(t.TempDir(), "mounts")
	if err := os.WriteFile(table, []byte("/dev/sdb /media/u/MICROBIT vfat rw 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := Locator{GOOS: "linux", MountTable: table}.Find(context.Background())
	if !ok || got != "/media/u/MICROBIT" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestLocatorWindowsDrives(t *testing.T) {
	empty, withBoard := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(withBoard, "MICROBIT.HTM"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := Locator{GOOS: "windows", Drives: []string{empty, withBoard}}.Find(context.Background())
	if !ok || got != withBoard {
		t.Fatalf("got %q, %v", got, ok)
	}
}

// argRecorder returns a command that appends its arguments, one per line,
// to a file, then prints stdout and exits with code.
func argRecorder(t *testing.T, stdout string, code int) (toolrun.Command, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	log := filepath.Join(t.TempDir(), "args")
	script := `for a in "$@"; do echo "$a" >> "` + log + `"; done; printf '%s' "` + stdout + `"; exit ` + string(rune('0'+code))
	return toolrun.Command{"sh", "-c", script, "uflash"}, log
}

func TestUflashWrite(t *testing.T) {
	cmd, log := argRecorder(t, "", 0)
	u := &Uflash{Command: cmd, Runner: toolrun.NewRunner(nil)}
	if err := u.Write(context.Background(), []string{"/media/u/MICROBIT"}, []byte("x = 1"), "/w/rt.hex"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(args) != 4 || args[0] != "-r" || args[1] != "/w/rt.hex" || filepath.Base(args[2]) != "main.py" || args[3] != "/media/u/MICROBIT" {
		t.Fatalf("args = %q", args)
	}
}

func TestUflashWriteFailure(t *testing.T) {
	cmd, _ := argRecorder(t, "", 2)
	u := &Uflash{Command: cmd, Runner: toolrun.NewRunner(nil)}
	if err := u.Write(context.Background(), []string{"/m"}, []byte("x"), ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestUflashExtract(t *testing.T) {
	hex := filepath.Join(t.TempDir(), "firmware.hex")
	if err := os.WriteFile(hex, []byte(":00000001FF\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, _ := argRecorder(t, "print(1)", 0)
	u := &Uflash{Command: cmd, Runner: toolrun.NewRunner(nil)}
	got, err := u.ExtractScript(context.Background(), hex)
	if err != nil || got != "print(1)" {
		t.Fatalf("ExtractScript = %q, %v", got, err)
	}

	cmd, _ = argRecorder(t, "", 0)
	u = &Uflash{Command: cmd, Runner: toolrun.NewRunner(nil)}
	if _, err := u.ExtractScript(context.Background(), hex); !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
}
