package diag

import "sort"

// Set groups diagnostics by 0-based line number. Within a line,
// diagnostics keep insertion order. The zero value is an empty set.
type Set struct {
	lines map[uint32][]Diagnostic
}

func NewSet() *Set {
	return &Set{lines: make(map[uint32][]Diagnostic)}
}

// Add appends d to the list for its line.
func (s *Set) Add(d Diagnostic) {
	if s.lines == nil {
		s.lines = make(map[uint32][]Diagnostic)
	}
	s.lines[d.Line] = append(s.lines[d.Line], d)
}

// At returns the diagnostics on line. Do not modify the returned slice.
func (s *Set) At(line uint32) []Diagnostic {
	if s == nil {
		return nil
	}
	return s.lines[line]
}

// Lines returns the lines that carry diagnostics, ascending.
func (s *Set) Lines() []uint32 {
	if s == nil {
		return nil
	}
	out := make([]uint32, 0, len(s.lines))
	for line := range s.lines {
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of lines with at least one diagnostic.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

// Count returns the total number of diagnostics.
func (s *Set) Count() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ds := range s.lines {
		n += len(ds)
	}
	return n
}

// Empty reports whether the set holds no diagnostics.
func (s *Set) Empty() bool {
	return s.Count() == 0
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error.
func (s *Set) HasErrors() bool {
	if s == nil {
		return false
	}
	for _, ds := range s.lines {
		for i := range ds {
			if ds[i].Severity >= SevError {
				return true
			}
		}
	}
	return false
}

// Items returns all diagnostics ordered by line, then insertion order.
func (s *Set) Items() []Diagnostic {
	out := make([]Diagnostic, 0, s.Count())
	for _, line := range s.Lines() {
		out = append(out, s.lines[line]...)
	}
	return out
}

// Merge returns the union of lint and style findings. For a line present in
// both, lint findings come first. Neither input is modified and nothing is
// dropped, duplicates included.
func Merge(lint, style *Set) *Set {
	out := NewSet()
	for _, src := range []*Set{lint, style} {
		if src == nil {
			continue
		}
		for line, ds := range src.lines {
			out.lines[line] = append(out.lines[line], ds...)
		}
	}
	return out
}
