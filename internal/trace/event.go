package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of an operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of an operation.
	KindSpanEnd
	KindInfo
	KindWarn
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindInfo:
		return "info"
	case KindWarn:
		return "warn"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	// ScopeCommand is a CLI command or LSP request.
	ScopeCommand Scope = iota + 1
	// ScopeOperation is an editor operation (check, flash, toggle).
	ScopeOperation
	// ScopeDevice covers port scans, mounts and analyzer runs.
	ScopeDevice
	ScopeWire // raw serial traffic
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeOperation:
		return "operation"
	case ScopeDevice:
		return "device"
	case ScopeWire:
		return "wire"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide order
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // own span for begin/end, enclosing span otherwise
	ParentID uint64
	Session  string // serial session id, if any
	Name     string // e.g. "flash", "port scanned"
	Detail   string
	Extra    map[string]string
}
