package ui

import tea "charm.land/bubbletea/v2"

// ChildModel is implemented by every pane. The root model owns layout,
// focus and the playground state, and routes messages to the focused pane.
type ChildModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (ChildModel, tea.Cmd)
	View() string
}

// ModelWithTitle panes provide the text shown in their top border.
type ModelWithTitle interface {
	Title() string
}

// ModelWithSize panes respond to layout changes. Sizes exclude the border.
type ModelWithSize interface {
	SetSize(width, height int)
}

// ModelWithFocus panes track keyboard focus.
type ModelWithFocus interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}

// ModelWithClick panes accept mouse clicks in pane-local cell coordinates.
type ModelWithClick interface {
	ClickAt(x, y int) tea.Cmd
}
