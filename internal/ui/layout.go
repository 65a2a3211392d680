package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	minPaneWidth  = 12
	minPaneHeight = 3
	// DefaultInputPercent is the input pane share of the width.
	DefaultInputPercent = 50
)

// rect is a screen region in cells.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// inner is the region inside the border.
func (r rect) inner() rect {
	return rect{X: r.X + 1, Y: r.Y + 1, W: max(r.W-2, 1), H: max(r.H-2, 1)}
}

// Layout holds the computed regions for one frame.
type Layout struct {
	Header  rect
	Input   rect
	Options rect // zero when hidden
	Output  rect
	Prompt  rect // zero when hidden
	Status  rect
}

// computeLayout splits a width x height screen. The header and status bar
// take one row each; the prompt takes one row when shown; the options panel
// sits below the input pane when shown.
func computeLayout(width, height, inputPercent int, showOptions bool, optionRows int, showPrompt bool) Layout {
	width = max(width, 2*minPaneWidth)
	height = max(height, 2+2*minPaneHeight)
	if inputPercent <= 0 {
		inputPercent = DefaultInputPercent
	}
	inputPercent = min(max(inputPercent, 20), 80)

	var l Layout
	l.Header = rect{X: 0, Y: 0, W: width, H: 1}
	bodyY := 1
	bodyH := height - 2
	if showPrompt {
		bodyH--
		l.Prompt = rect{X: 0, Y: bodyY + bodyH, W: width, H: 1}
	}
	l.Status = rect{X: 0, Y: height - 1, W: width, H: 1}

	inputW := max(width*inputPercent/100, minPaneWidth)
	outputW := width - inputW
	l.Output = rect{X: inputW, Y: bodyY, W: outputW, H: bodyH}

	inputH := bodyH
	if showOptions {
		optH := min(optionRows+2, bodyH-minPaneHeight)
		if optH >= minPaneHeight {
			inputH = bodyH - optH
			l.Options = rect{X: 0, Y: bodyY + inputH, W: inputW, H: optH}
		}
	}
	l.Input = rect{X: 0, Y: bodyY, W: inputW, H: inputH}
	return l
}

// renderBox draws content inside a border of the given size with the title
// embedded in the top edge. Content lines are cut or padded to fit.
func renderBox(styles Styles, title, content string, w, h int, focused bool) string {
	b := styles.Border
	edge := styles.BorderColor
	if focused {
		edge = styles.BorderFocus
	}
	innerW := max(w-2, 1)
	innerH := max(h-2, 1)

	label := ""
	if title != "" {
		label = " " + ansi.Truncate(title, max(innerW-3, 0), "…") + " "
	}
	fill := max(innerW-1-ansi.StringWidth(label), 0)
	top := edge.Render(b.TopLeft+b.Top) + styles.Title.Render(label) +
		edge.Render(strings.Repeat(b.Top, fill)+b.TopRight)
	if ansi.StringWidth(label) == 0 {
		top = edge.Render(b.TopLeft + strings.Repeat(b.Top, innerW) + b.TopRight)
	}

	lines := strings.Split(content, "\n")
	rows := make([]string, 0, h)
	rows = append(rows, top)
	for i := 0; i < innerH; i++ {
		line := ""
		if i < len(lines) {
			line = ansi.Truncate(lines[i], innerW, "")
		}
		pad := innerW - ansi.StringWidth(line)
		rows = append(rows, edge.Render(b.Left)+line+strings.Repeat(" ", max(pad, 0))+edge.Render(b.Right))
	}
	rows = append(rows, edge.Render(b.BottomLeft+strings.Repeat(b.Bottom, innerW)+b.BottomRight))
	return strings.Join(rows, "\n")
}

// fitLine cuts or pads s to exactly w cells.
func fitLine(s string, w int) string {
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// joinColumns places two boxes side by side.
func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// padHeight pads view with blank lines to height rows.
func padHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines[:height], "\n")
	}
	padLine := strings.Repeat(" ", max(width, 1))
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
