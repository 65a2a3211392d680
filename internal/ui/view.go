package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/mdplay/internal/playground"
)

// tabSpan records where a view tab was drawn in the header row.
type tabSpan struct {
	from, to int
	mode     playground.ViewMode
}

// View renders the frame.
func (m *RootModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}

// Render returns the frame as text.
func (m *RootModel) Render() string {
	rows := []string{m.renderHeader()}
	rows = append(rows, m.renderBody())
	if m.promptActive {
		rows = append(rows, fitLine(m.prompt.View(), m.width))
	}
	rows = append(rows, m.renderStatus())
	return padHeight(strings.Join(rows, "\n"), m.height, m.width)
}

func (m *RootModel) renderHeader() string {
	name := " " + m.cfg.AppName + " "
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(name))
	b.WriteString(" ")
	x := ansi.StringWidth(name) + 1
	m.tabs = m.tabs[:0]
	for i, mode := range playground.ViewModes {
		label := fmt.Sprintf(" %d %s ", i+1, mode.Title())
		style := m.styles.Tab
		if mode == m.shell.Mode() {
			style = m.styles.TabActive
		}
		b.WriteString(style.Render(label))
		w := ansi.StringWidth(label)
		m.tabs = append(m.tabs, tabSpan{from: x, to: x + w, mode: mode})
		x += w
	}
	if m.showHelp {
		b.WriteString(m.styles.Muted.Render("  help"))
	}
	return fitLine(b.String(), m.width)
}

func (m *RootModel) renderBody() string {
	l := m.layout
	left := renderBox(m.styles, m.input.Title(), m.input.View(), l.Input.W, l.Input.H, m.focus == focusInput)
	if m.showOptions && l.Options.H > 0 {
		opts := renderBox(m.styles, m.options.Title(), m.options.View(), l.Options.W, l.Options.H, m.focus == focusOptions)
		left = lipgloss.JoinVertical(lipgloss.Left, left, opts)
	}

	var right string
	if m.showHelp {
		inner := l.Output.inner()
		right = renderBox(m.styles, "Help", renderHelp(m.styles, m.cfg.About, inner.W), l.Output.W, l.Output.H, true)
	} else {
		pane := m.outputPane()
		title := ""
		if t, ok := pane.(ModelWithTitle); ok {
			title = t.Title()
		}
		right = renderBox(m.styles, title, pane.View(), l.Output.W, l.Output.H, m.focus == focusOutput)
	}
	return joinColumns(left, right)
}

func (m *RootModel) renderStatus() string {
	out := m.shell.Outputs()
	right := fmt.Sprintf("%s · %.2f ms · #%d ", m.shell.Mode().Title(), out.ElapsedMillis(), out.Generation)
	if q := m.queries[m.shell.Mode()]; q != "" && (m.shell.Mode() == playground.ViewTree || m.shell.Mode() == playground.ViewMetadata) {
		right = "query · " + right
	}

	msg := m.status
	style := m.styles.Status
	switch m.statusKind {
	case statusError:
		style = m.styles.StatusError
	case statusSuccess:
		style = m.styles.StatusOK
	}
	if msg == "" {
		msg = "F1 help · esc leaves the editor · ctrl+c quit"
		style = m.styles.Muted
	}
	leftW := max(m.width-ansi.StringWidth(right)-1, 1)
	left := style.Render(fitLine(" "+msg, leftW))
	return fitLine(left+" "+m.styles.Footer.Render(right), m.width)
}
