package ui

import (
	tea "charm.land/bubbletea/v2"
)

// Run starts the interactive playground. Startup keys are applied before
// the program takes over the terminal.
func Run(cfg Config, startKeys []string, opts ...tea.ProgramOption) error {
	m := NewRootModel(cfg)
	defer m.Close()
	if len(startKeys) > 0 {
		_ = m.Render()
		ApplyStartupKeys(m, startKeys)
	}
	log := m.log.WithName("ui")
	log.V(1).Info("starting program", "mode", m.shell.Mode().String(), "bytes", len(cfg.Text))
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
