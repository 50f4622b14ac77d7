package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
)

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise. Only quitting is
// bound; every other key is ignored.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit
	}
	return false, nil
}
