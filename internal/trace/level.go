package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota // no tracing
	LevelError               // errors and warnings only
	LevelInfo                // commands and operations
	LevelDetail              // device-level events
	LevelDebug               // everything including wire traffic
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "info":
		return LevelInfo, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid log level: %q (expected: off|error|info|detail|debug)", s)
	}
}

// ShouldEmit reports whether an event of the given kind and scope passes
// this level. Warnings and errors pass every level except LevelOff.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	if l == LevelOff {
		return false
	}
	if kind == KindWarn || kind == KindError {
		return true
	}
	switch l {
	case LevelInfo:
		return scope <= ScopeOperation
	case LevelDetail:
		return scope <= ScopeDevice
	case LevelDebug:
		return true
	}
	return false
}
