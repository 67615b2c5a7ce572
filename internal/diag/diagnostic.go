package diag

// Diagnostic is one finding on one line of a script. Line and Column are
// 0-based. Unexpected analyzer failures carry no column.
type Diagnostic struct {
	Line      uint32
	Column    uint32
	HasColumn bool
	Message   string
	Code      string // empty for lint findings
	Severity  Severity
}

// New returns a diagnostic without a column.
func New(sev Severity, line uint32, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Line: line, Message: msg}
}

// WithColumn returns a copy of d with column col.
func (d Diagnostic) WithColumn(col uint32) Diagnostic {
	d.Column = col
	d.HasColumn = true
	return d
}

// WithCode returns a copy of d tagged with a style code such as "E303".
func (d Diagnostic) WithCode(code string) Diagnostic {
	d.Code = code
	return d
}
