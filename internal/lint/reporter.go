package lint

// Reporter receives the three kinds of events a logical analyzer produces.
// Lines and columns are 1-based as the analyzer reports them.
type Reporter interface {
	// UnexpectedError is an analyzer failure unrelated to a location,
	// e.g. undecodable source.
	UnexpectedError(filename, msg string)
	// SyntaxError is a parse failure at line/col.
	SyntaxError(filename, msg string, line, col int, source string)
	// Flake is a finding rendered as "<file>:<line>:[<col>:] <message>".
	Flake(message string)
}

// RecordKind is the event a Record came from.
type RecordKind uint8

const (
	KindUnexpected RecordKind = iota + 1
	KindSyntax
	KindFlake
)

// Record is one raw analyzer event.
type Record struct {
	Kind     RecordKind
	Filename string
	Message  string
	Line     int // 1-based, 0 when unknown
	Column   int // 1-based, 0 when unknown
	Source   string
}

// Recorder collects events in emission order.
type Recorder struct {
	records []Record
}

var _ Reporter = (*Recorder)(nil)

func (r *Recorder) UnexpectedError(filename, msg string) {
	r.records = append(r.records, Record{Kind: KindUnexpected, Filename: filename, Message: msg})
}

func (r *Recorder) SyntaxError(filename, msg string, line, col int, source string) {
	r.records = append(r.records, Record{
		Kind: KindSyntax, Filename: filename, Message: msg,
		Line: line, Column: col, Source: source,
	})
}

func (r *Recorder) Flake(message string) {
	r.records = append(r.records, Record{Kind: KindFlake, Message: message})
}

// Records returns the collected events. Do not modify the returned slice.
func (r *Recorder) Records() []Record {
	return r.records
}
