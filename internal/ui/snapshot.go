package ui

import (
	"github.com/charmbracelet/x/ansi"
)

// SnapshotConfig renders one frame without a terminal.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot builds the playground, applies the startup keys and
// returns the resulting frame. Highlighting runs synchronously so the frame
// is final.
func RenderSnapshot(cfg Config, snap SnapshotConfig) string {
	cfg.SyncHighlight = true
	m := NewRootModel(cfg)
	defer m.Close()

	w, h := snap.Width, snap.Height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	m.width, m.height = w, h
	m.relayout()
	m.renderPreview()
	// Header tabs are positioned on first render.
	_ = m.Render()

	ApplyStartupKeys(m, snap.StartKeys)
	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	return view
}
