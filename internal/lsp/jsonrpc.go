package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
)

// maxPayload bounds a single message; a script is capped at a few KiB so
// anything near this is a broken client.
const maxPayload = 16 << 20

var errNoContentLength = errors.New("missing Content-Length header")

// readMessage reads one base-protocol message: a MIME-style header block
// followed by exactly Content-Length bytes of JSON. Other headers, such as
// Content-Type, are accepted and ignored.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errNoContentLength
	}
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil || n < 0:
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	case n > maxPayload:
		return nil, fmt.Errorf("message of %d bytes exceeds limit", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return payload, nil
}

// writeMessage frames payload and writes it with a single Write call.
func writeMessage(w io.Writer, payload []byte) error {
	buf := make([]byte, 0, len(payload)+32)
	buf = append(buf, "Content-Length: "...)
	buf = strconv.AppendInt(buf, int64(len(payload)), 10)
	buf = append(buf, "\r\n\r\n"...)
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}
