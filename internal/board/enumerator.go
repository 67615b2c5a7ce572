package board

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"go.bug.st/serial/enumerator"
)

// SerialEnumerator lists USB serial ports through the host OS.
type SerialEnumerator struct{}

var _ Enumerator = SerialEnumerator{}

// ListPorts returns USB ports only; ports without a parseable VID/PID are skipped.
func (SerialEnumerator) ListPorts() ([]SerialPort, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	return convertDetails(details), nil
}

func convertDetails(details []*enumerator.PortDetails) []SerialPort {
	out := make([]SerialPort, 0, len(details))
	for _, d := range details {
		if d == nil || !d.IsUSB {
			continue
		}
		vid, err := parseHexID(d.VID)
		if err != nil {
			continue
		}
		pid, err := parseHexID(d.PID)
		if err != nil {
			continue
		}
		out = append(out, SerialPort{
			Name:      systemName(d.Name),
			VendorID:  vid,
			ProductID: pid,
		})
	}
	return out
}

func parseHexID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid usb id %q: %w", s, err)
	}
	return safecast.Conv[uint16](v)
}

// systemName strips the /dev/ directory the enumerator reports on POSIX.
func systemName(name string) string {
	if strings.HasPrefix(name, "/dev/") {
		return filepath.Base(name)
	}
	return name
}
