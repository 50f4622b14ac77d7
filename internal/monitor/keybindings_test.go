package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleKeyMsg_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := healthyModel(t)
			handled, cmd := m.HandleKeyMsg(tt.msg)

			assert.True(t, handled)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestHandleKeyMsg_OtherKeysIgnored(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'Q'}},
		{Type: tea.KeyRunes, Runes: []rune{'r'}},
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeyUp},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			m := healthyModel(t)
			handled, cmd := m.HandleKeyMsg(key)

			assert.False(t, handled)
			assert.Nil(t, cmd)
			assert.False(t, m.quitting)
		})
	}
}

func TestUpdate_KeyDuringWait(t *testing.T) {
	m := healthyModel(t)
	updated, _ := m.Update(m.pollCmd()())
	m = updated.(Model)
	require.Equal(t, PhaseDisplaying, m.Phase())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.View(), "unbound keys leave the dashboard alone")

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
