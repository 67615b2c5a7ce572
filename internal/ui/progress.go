package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mu/internal/checkrun"
)

type fileState uint8

const (
	stateQueued fileState = iota
	stateReading
	stateChecking
	stateClean
	stateFindings
	stateFailed
)

func (s fileState) finished() bool {
	return s >= stateClean
}

// weight is the share of a file's work done once it reaches s.
func (s fileState) weight() float64 {
	switch s {
	case stateReading:
		return 0.1
	case stateChecking:
		return 0.4
	case stateClean, stateFindings, stateFailed:
		return 1
	}
	return 0
}

func (s fileState) label() string {
	switch s {
	case stateReading:
		return "reading"
	case stateChecking:
		return "checking"
	case stateClean:
		return "clean"
	case stateFindings:
		return "findings"
	case stateFailed:
		return "failed"
	}
	return "queued"
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyles = map[fileState]lipgloss.Style{
		stateQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		stateReading:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateChecking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateClean:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateFindings: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		stateFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type scriptRow struct {
	path     string
	state    fileState
	findings int
}

type checkModel struct {
	title    string
	events   <-chan checkrun.Event
	spin     spinner.Model
	bar      progress.Model
	rows     []scriptRow
	byPath   map[string]int
	width    int
	finished bool
	stopped  bool

	checked  int
	failed   int
	findings int
}

type eventMsg checkrun.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-script check
// progress until events is closed.
func NewProgressModel(title string, files []string, events <-chan checkrun.Event) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = stateStyles[stateReading]

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &checkModel{
		title:  title,
		events: events,
		spin:   spin,
		bar:    bar,
		rows:   make([]scriptRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = scriptRow{path: f}
		m.byPath[f] = i
	}
	return m
}

// Interrupted reports whether the user quit the view before the run ended.
func Interrupted(m tea.Model) bool {
	cm, ok := m.(*checkModel)
	return ok && cm.stopped
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(checkrun.Event(msg)), m.next())
	case closedMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.stopped = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	}
	return m, nil
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.header()))
	b.WriteString("\n\n")

	pathWidth := max(m.width-16, 20)
	for _, r := range m.rows {
		label := stateStyles[r.state].Render(fmt.Sprintf("%10s", r.state.label()))
		fmt.Fprintf(&b, "  %s %s", label, truncate(r.path, pathWidth))
		if r.findings > 0 {
			b.WriteString(countStyle.Render(fmt.Sprintf(" (%d)", r.findings)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.finished {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *checkModel) header() string {
	if m.finished {
		return fmt.Sprintf("%s: %d checked, %d failed, %d findings",
			m.title, m.checked, m.failed, m.findings)
	}
	return m.spin.View() + " " + m.title
}

func (m *checkModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// apply folds one event into the row it names; run-level and unknown
// events are ignored.
func (m *checkModel) apply(ev checkrun.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	if row.state.finished() {
		return nil
	}
	switch ev.Status {
	case checkrun.StatusQueued:
		return nil
	case checkrun.StatusWorking:
		row.state = stateReading
		if ev.Stage == checkrun.StageCheck {
			row.state = stateChecking
		}
	case checkrun.StatusDone:
		row.findings = ev.Findings
		row.state = stateClean
		if ev.Findings > 0 {
			row.state = stateFindings
		}
		m.checked++
		m.findings += ev.Findings
	case checkrun.StatusError:
		row.findings = ev.Findings
		row.state = stateFailed
		m.failed++
		m.findings += ev.Findings
	}
	return m.bar.SetPercent(m.completion())
}

func (m *checkModel) completion() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.state.weight()
	}
	return sum / float64(len(m.rows))
}

// truncate shortens value to at most width display cells, marking the cut
// with "..." when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// the tail counts toward width
	return runewidth.Truncate(value, width, "...")
}
