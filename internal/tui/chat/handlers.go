package chat

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.sized = true
	m.viewport.Width = msg.Width
	m.viewport.Height = max(1, msg.Height-chromeHeight)
	m.resizeInput()
	m.markDirty()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Send):
		return m.submit()
	case key.Matches(msg, m.keys.SwitchModel):
		m.cycleModel()
		return nil
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		switch {
		case m.onModelLabel(msg.X, msg.Y):
			m.cycleModel()
			return nil
		case m.onSendButton(msg.X, msg.Y):
			return m.submit()
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// onModelLabel reports whether (x, y) falls inside the bracketed model label
// drawn at the start of the input row, past the opening bracket.
func (m *Model) onModelLabel(x, y int) bool {
	if y != m.inputRowY() {
		return false
	}
	width := runewidth.StringWidth(m.selectedLabel())
	return x >= 1 && x <= width-1
}

// onSendButton reports whether (x, y) falls on the send button.
func (m *Model) onSendButton(x, y int) bool {
	if y != m.inputRowY() {
		return false
	}
	start := m.sendButtonX()
	return x >= start && x < start+runewidth.StringWidth(sendLabel)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	if m.pending != nil {
		m.logger.Info("quitting with reply in flight", "turn", m.pending.id)
		m.finishTurn("abandoned")
	}
	return tea.Quit
}
