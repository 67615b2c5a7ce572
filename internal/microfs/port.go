package microfs

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// DefaultBaud is the board's USB serial speed.
const DefaultBaud = 115200

// Port is an open serial connection.
type Port interface {
	io.ReadWriteCloser
	// SetReadTimeout bounds each Read; a timed out Read returns 0, nil.
	SetReadTimeout(d time.Duration) error
}

// Opener opens the device at path.
type Opener func(path string, baud int) (Port, error)

// OpenSerial opens a real serial port with 8N1 framing.
func OpenSerial(path string, baud int) (Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open port %s: %w", path, err)
	}
	return p, nil
}
