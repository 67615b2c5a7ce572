package flasher

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"mu/internal/toolrun"
	"mu/internal/trace"
)

// VolumeLabel is the label the board's mass-storage drive mounts under.
const VolumeLabel = "MICROBIT"

// Locator finds the board's mount point.
type Locator struct {
	// MountTable is read on Linux; defaults to /proc/mounts.
	MountTable string
	// MountCommand lists mounts when the table is unavailable; defaults to "mount".
	MountCommand toolrun.Command
	Runner       *toolrun.Runner
	// GOOS overrides runtime.GOOS.
	GOOS string
	// Drives lists Windows drive roots to probe; defaults to D:\ through Z:\.
	Drives []string
}

// Find returns the first mount point labelled MICROBIT.
func (l Locator) Find(ctx context.Context) (string, bool) {
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		return l.findWindows(ctx)
	}

	if goos == "linux" {
		table := l.MountTable
		if table == "" {
			table = "/proc/mounts"
		}
		if f, err := os.Open(table); err == nil {
			defer f.Close()
			if p, ok := findInMountTable(f); ok {
				trace.Info(ctx, trace.ScopeDevice, "mount found", "path", p, "source", table)
				return p, true
			}
			return "", false
		}
	}

	cmd := l.MountCommand
	if len(cmd) == 0 {
		cmd = toolrun.Command{"mount"}
	}
	out, err := l.Runner.Run(ctx, toolrun.Request{Command: cmd})
	if err != nil {
		trace.Warn(ctx, trace.ScopeDevice, "mount listing failed", "err", err)
		return "", false
	}
	if p, ok := findInMountOutput(strings.NewReader(string(out.Stdout))); ok {
		trace.Info(ctx, trace.ScopeDevice, "mount found", "path", p, "source", cmd.String())
		return p, true
	}
	return "", false
}

func (l Locator) findWindows(ctx context.Context) (string, bool) {
	drives := l.Drives
	if len(drives) == 0 {
		for c := 'D'; c <= 'Z'; c++ {
			drives = append(drives, string(c)+`:\`)
		}
	}
	for _, root := range drives {
		if _, err := os.Stat(filepath.Join(root, "MICROBIT.HTM")); err == nil {
			trace.Info(ctx, trace.ScopeDevice, "mount found", "path", root)
			return root, true
		}
	}
	return "", false
}

// findInMountTable scans /proc/mounts format: "<dev> <mountpoint> <fstype> ...",
// with spaces in the mount point escaped as \040.
func findInMountTable(r io.Reader) (string, bool) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		mp := unescapeMount(fields[1])
		if filepath.Base(mp) == VolumeLabel {
			return mp, true
		}
	}
	return "", false
}

var mountLine = regexp.MustCompile(`^.+ on (.+?) (?:type \S+ )?\(.*\)$`)

// findInMountOutput scans `mount` output:
//
//	/dev/sdb on /media/me/MICROBIT type vfat (rw,nosuid)
//	/dev/disk2 on /Volumes/MICROBIT (msdos, local, nodev)
func findInMountOutput(r io.Reader) (string, bool) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := mountLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		if filepath.Base(m[1]) == VolumeLabel {
			return m[1], true
		}
	}
	return "", false
}

func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				sb.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
