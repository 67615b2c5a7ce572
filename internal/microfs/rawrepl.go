package microfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mu/internal/trace"
)

const (
	ctrlA = 0x01 // enter raw REPL
	ctrlB = 0x02 // leave raw REPL
	ctrlC = 0x03 // interrupt
	ctrlD = 0x04 // execute / end of output
)

var (
	rawBanner = []byte("raw REPL; CTRL-B to exit\r\n>")
	rawEnd    = []byte{ctrlD, '>'}

	// ErrTimeout means the board stopped answering mid-exchange.
	ErrTimeout = errors.New("timed out waiting for the device")
)

type rawREPL struct {
	port    Port
	timeout time.Duration
}

func (r *rawREPL) write(ctx context.Context, b []byte) error {
	trace.Info(ctx, trace.ScopeWire, "tx", "bytes", fmt.Sprintf("%q", b))
	_, err := r.port.Write(b)
	return err
}

// readUntil reads until marker appears or the timeout passes.
func (r *rawREPL) readUntil(ctx context.Context, marker []byte) ([]byte, error) {
	if err := r.port.SetReadTimeout(50 * time.Millisecond); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(r.timeout)
	var buf bytes.Buffer
	chunk := make([]byte, 256)
	for !bytes.Contains(buf.Bytes(), marker) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w (got %q)", ErrTimeout, buf.Bytes())
		}
		n, err := r.port.Read(chunk)
		if err != nil {
			return nil, err
		}
		buf.Write(chunk[:n])
	}
	trace.Info(ctx, trace.ScopeWire, "rx", "bytes", fmt.Sprintf("%q", buf.Bytes()))
	return buf.Bytes(), nil
}

func (r *rawREPL) enter(ctx context.Context) error {
	if err := r.write(ctx, []byte{ctrlC, ctrlC}); err != nil {
		return err
	}
	if err := r.write(ctx, []byte{ctrlA}); err != nil {
		return err
	}
	_, err := r.readUntil(ctx, rawBanner)
	return err
}

func (r *rawREPL) exit(ctx context.Context) {
	if err := r.write(ctx, []byte{ctrlB}); err != nil {
		trace.Warn(ctx, trace.ScopeDevice, "leaving raw REPL failed", "err", err)
	}
}

// exec runs code and returns its stdout. Output arrives as
// "OK<stdout>\x04<stderr>\x04>".
func (r *rawREPL) exec(ctx context.Context, code string) (string, error) {
	if err := r.write(ctx, append([]byte(code), ctrlD)); err != nil {
		return "", err
	}
	raw, err := r.readUntil(ctx, rawEnd)
	if err != nil {
		return "", err
	}
	i := bytes.Index(raw, []byte("OK"))
	if i < 0 {
		return "", fmt.Errorf("unexpected raw REPL reply %q", raw)
	}
	end := bytes.Index(raw[i+2:], rawEnd)
	if end < 0 {
		// the marker came before OK
		return "", fmt.Errorf("unexpected raw REPL reply %q", raw)
	}
	body := raw[i+2 : i+2+end]
	stdout, stderr, _ := bytes.Cut(body, []byte{ctrlD})
	if len(bytes.TrimSpace(stderr)) > 0 {
		return "", fmt.Errorf("device error: %s", strings.TrimSpace(string(stderr)))
	}
	return string(stdout), nil
}

// parseList decodes a printed Python list of strings, e.g. ['a.py', "b'c"].
func parseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a list: %q", s)
	}
	s = s[1 : len(s)-1]
	var out []string
	for {
		s = strings.TrimLeft(s, " ,")
		if s == "" {
			return out, nil
		}
		quote := s[0]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("unexpected %q in list", s)
		}
		end := strings.IndexByte(s[1:], quote)
		if end < 0 {
			return nil, fmt.Errorf("unterminated string in list")
		}
		out = append(out, s[1:1+end])
		s = s[end+2:]
	}
}
