// Package ui renders interactive terminal progress for long scans.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/benji-york/fend/internal/scanner"
)

type progressModel struct {
	title      string
	events     <-chan scanner.Event
	spinner    spinner.Model
	prog       progress.Model
	total      int
	finished   int
	violations int
	errors     int
	active     map[string]struct{}
	width      int
	done       bool
}

type eventMsg scanner.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model consuming scan events.
// The channel must be closed when the scan finishes; closing quits the
// program.
func NewProgressModel(title string, total int, events <-chan scanner.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 60

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		total:   total,
		active:  make(map[string]struct{}),
		width:   80,
	}
}

// Run drives the model on stderr, keeping stdout clean for the report.
func Run(title string, total int, events <-chan scanner.Event) error {
	_, err := tea.NewProgram(
		NewProgressModel(title, total, events),
		tea.WithOutput(os.Stderr),
	).Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(scanner.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(evt scanner.Event) tea.Cmd {
	switch evt.Status {
	case scanner.StatusScanning:
		m.active[evt.Path] = struct{}{}
	case scanner.StatusDone, scanner.StatusError:
		delete(m.active, evt.Path)
		m.finished++
		m.violations += evt.Violations
		if evt.Status == scanner.StatusError {
			m.errors++
		}
	}
	if m.total > 0 {
		return m.prog.SetPercent(float64(m.finished) / float64(m.total))
	}
	return nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))

	header := fmt.Sprintf("%s (%d files)", m.title, m.total)
	if m.done {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, path := range m.activePaths() {
		b.WriteString("  " + truncate(path, m.width-4) + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) footer() string {
	footer := fmt.Sprintf("%d/%d files, %d violation(s)", m.finished, m.total, m.violations)
	if m.errors > 0 {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		footer += errStyle.Render(fmt.Sprintf(", %d error(s)", m.errors))
	}
	return footer
}

// activePaths caps the in-flight list so a wide scan does not scroll
// the terminal.
func (m *progressModel) activePaths() []string {
	const maxShown = 8
	paths := make([]string, 0, len(m.active))
	for path := range m.active {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	if len(paths) > maxShown {
		paths = paths[:maxShown]
	}
	return paths
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(evt)
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
