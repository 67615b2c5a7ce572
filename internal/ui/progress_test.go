package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mu/internal/checkrun"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan checkrun.Event)
	m := NewProgressModel("checking", []string{"a.py", "b.py", "c.py", "d.py"}, events).(*checkModel)

	m.apply(checkrun.Event{File: "a.py", Stage: checkrun.StageCheck, Status: checkrun.StatusWorking})
	if got := m.rows[0].state.label(); got != "checking" {
		t.Fatalf("a.py state = %q", got)
	}
	if got := m.completion(); got != 0.1 {
		t.Fatalf("completion = %v, want 0.1", got)
	}

	m.apply(checkrun.Event{File: "a.py", Stage: checkrun.StageCheck, Status: checkrun.StatusDone, Findings: 3})
	m.apply(checkrun.Event{File: "b.py", Stage: checkrun.StageRead, Status: checkrun.StatusError})
	m.apply(checkrun.Event{File: "c.py", Stage: checkrun.StageCheck, Status: checkrun.StatusDone})
	m.apply(checkrun.Event{File: "d.py", Stage: checkrun.StageCheck, Status: checkrun.StatusDone, Findings: 1})
	m.apply(checkrun.Event{File: "zzz.py", Status: checkrun.StatusDone})
	// a finished row ignores late events
	m.apply(checkrun.Event{File: "a.py", Stage: checkrun.StageRead, Status: checkrun.StatusWorking})

	if m.checked != 3 || m.failed != 1 || m.findings != 4 || m.completion() != 1.0 {
		t.Fatalf("checked=%d failed=%d findings=%d completion=%v", m.checked, m.failed, m.findings, m.completion())
	}
	if m.rows[0].state != stateFindings || m.rows[2].state != stateClean {
		t.Fatalf("states = %v, %v", m.rows[0].state, m.rows[2].state)
	}

	m.finished = true
	view := m.View()
	if !strings.Contains(view, "checking: 3 checked, 1 failed, 4 findings") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	if !strings.Contains(view, "(3)") {
		t.Fatalf("per-file count missing:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan checkrun.Event)
	close(events)
	m := NewProgressModel("checking", []string{"a.py"}, events).(*checkModel)

	msg := m.next()()
	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("msg = %T, want closedMsg", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil || !m.finished {
		t.Fatalf("model did not finish")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.py", 20, "short.py"},
		{"a/very/long/path/main.py", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"日本語のファイル.py", 9, "日本語..."},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestProgressModelInterrupt(t *testing.T) {
	m := NewProgressModel("checking", []string{"a.py"}, make(chan checkrun.Event))
	if Interrupted(m) {
		t.Fatal("fresh model reports interrupt")
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !Interrupted(next) {
		t.Fatal("ctrl+c did not stop the view")
	}
}
