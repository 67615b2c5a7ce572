package board

import (
	"context"
	"fmt"

	"mu/internal/trace"
)

// SerialPort is one enumerated port. Name is the raw system name
// (e.g. "ttyACM0" or "COM3"), without any device directory prefix.
type SerialPort struct {
	Name      string
	VendorID  uint16
	ProductID uint16
}

// Identity returns the port's USB identity.
func (p SerialPort) Identity() Identity {
	return Identity{VendorID: p.VendorID, ProductID: p.ProductID}
}

// Enumerator lists the serial ports currently attached to the host.
type Enumerator interface {
	ListPorts() ([]SerialPort, error)
}

// Registry finds supported boards among enumerated ports.
type Registry struct {
	enum Enumerator
}

func NewRegistry(enum Enumerator) *Registry {
	return &Registry{enum: enum}
}

// Discover scans once and returns the first port, in enumeration order,
// whose identity is a known board. Each scanned port is logged.
// ok is false when nothing matches; err is set only if enumeration fails.
func (r *Registry) Discover(ctx context.Context) (port SerialPort, ok bool, err error) {
	ports, err := r.enum.ListPorts()
	if err != nil {
		trace.Error(ctx, trace.ScopeDevice, "port enumeration failed", err)
		return SerialPort{}, false, fmt.Errorf("enumerate serial ports: %w", err)
	}
	for _, p := range ports {
		trace.Info(ctx, trace.ScopeDevice, "port scanned",
			"pid", fmt.Sprintf("0x%04X", p.ProductID),
			"vid", fmt.Sprintf("0x%04X", p.VendorID),
			"name", p.Name)
		if IsKnown(p.Identity()) {
			trace.Info(ctx, trace.ScopeOperation, "board found", "port", p.Name, "id", p.Identity())
			return p, true, nil
		}
	}
	return SerialPort{}, false, nil
}

// ScannedPort is a port with its support status, for listings.
type ScannedPort struct {
	SerialPort
	Board     string
	Supported bool
}

// Scan returns every port annotated with the known board it matches.
func (r *Registry) Scan(ctx context.Context) ([]ScannedPort, error) {
	ports, err := r.enum.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	out := make([]ScannedPort, 0, len(ports))
	for _, p := range ports {
		kb, ok := Lookup(p.Identity())
		out = append(out, ScannedPort{SerialPort: p, Board: kb.Name, Supported: ok})
	}
	trace.Info(ctx, trace.ScopeDevice, "ports scanned", "count", len(out))
	return out, nil
}
