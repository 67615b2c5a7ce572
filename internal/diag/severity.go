package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevStyle is for formatting findings (pycodestyle).
	SevStyle Severity = iota
	// SevError is for logic and syntax findings (pyflakes).
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevStyle:
		return "style"
	case SevError:
		return "error"
	}
	return "unknown"
}
