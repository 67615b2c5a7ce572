package trace

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Format selects how events are rendered.
type Format uint8

const (
	FormatAuto   Format = iota // decided from the output path
	FormatText                 // one human-readable line per event
	FormatNDJSON               // one JSON object per line
)

// FormatEvent renders ev as a single newline-terminated record.
func FormatEvent(ev *Event, f Format) []byte {
	if f == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(make([]byte, 0, 128), ev)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Session  string            `json:"session,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	// only strings and integers: Marshal cannot fail
	data, _ := json.Marshal(wireEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Session:  ev.Session,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	dst = append(dst, data...)
	return append(dst, '\n')
}

// appendText renders
//
//	15:04:05.000 KIND  scope     <session> marker name (detail) {k=v, ...}
//
// Nested spans and events inside a span are indented by two spaces.
// The session id is cut to 8 characters.
func appendText(dst []byte, ev *Event) []byte {
	dst = ev.Time.AppendFormat(dst, "15:04:05.000")
	dst = append(dst, ' ')
	dst = appendPadded(dst, strings.ToUpper(ev.Kind.String()), 5)
	dst = append(dst, ' ')
	dst = appendPadded(dst, ev.Scope.String(), 9)
	dst = append(dst, ' ')
	if id := ev.Session; id != "" {
		dst = append(dst, '<')
		dst = append(dst, id[:min(len(id), 8)]...)
		dst = append(dst, "> "...)
	}
	if ev.ParentID != 0 || (ev.SpanID != 0 && ev.Kind >= KindInfo) {
		dst = append(dst, "  "...)
	}
	switch ev.Kind {
	case KindSpanBegin:
		dst = append(dst, "→ "...)
	case KindSpanEnd:
		dst = append(dst, "← "...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		keys := lo.Keys(ev.Extra)
		slices.Sort(keys)
		dst = append(dst, " {"...)
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}

func appendPadded(dst []byte, s string, width int) []byte {
	dst = append(dst, s...)
	for n := len(s); n < width; n++ {
		dst = append(dst, ' ')
	}
	return dst
}
