package chat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samsaffron/term-chat/internal/llm"
)

// fragmentMsg carries one fragment of turn back to the UI goroutine.
type fragmentMsg struct {
	turn int
	frag llm.Fragment
}

// streamDoneMsg reports that the stream of turn ended normally.
type streamDoneMsg struct {
	turn int
}

// waitForFragment blocks on the next fragment off the UI goroutine. Exactly one
// is outstanding per turn, so fragments are applied in stream order.
func waitForFragment(turn int, s llm.Stream) tea.Cmd {
	return func() tea.Msg {
		frag, err := s.Recv()
		switch {
		case errors.Is(err, io.EOF):
			return streamDoneMsg{turn: turn}
		case err != nil:
			return fragmentMsg{turn: turn, frag: llm.ErrorFragment(err)}
		}
		return fragmentMsg{turn: turn, frag: frag}
	}
}

// submit sends the input as a new user turn.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.ExecuteCommand(text)
	}
	if m.pending != nil {
		m.setStatus("Wait for the current reply to finish before sending.")
		return nil
	}

	desc, err := m.registry.Resolve(m.selected)
	if err != nil {
		return m.fail(err)
	}

	m.setStatus("")
	m.input.SetValue("")
	m.history = append(m.history, llm.UserTurn(text))
	m.entries = append(m.entries, userEntry(text), placeholderEntry())
	idx := len(m.entries) - 1
	m.markDirty()

	credential, ok := m.creds.Lookup(desc.Provider)
	if !ok {
		m.logger.Warn("missing credential", "provider", string(desc.Provider), "env", desc.Provider.EnvVar())
		m.failPlaceholder(idx, &llm.MissingCredentialError{Provider: desc.Provider})
		return nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	stream, err := m.dispatcher.Stream(ctx, m.history, credential, desc.Key)
	if err != nil {
		cancel()
		return m.fail(err)
	}

	m.turnSeq++
	p := &pendingTurn{
		id:      m.turnSeq,
		model:   desc.Key,
		entry:   idx,
		stream:  stream,
		cancel:  cancel,
		loading: newLoadingIndicator(),
		stats:   newTurnStats(m.turnSeq, desc.Key, m.now()),
	}
	m.pending = p
	return tea.Batch(p.loading.Start(), waitForFragment(p.id, stream))
}

// fail ends the program with err. It is used for registry and dispatcher
// setup errors, which mean the selection and the registry disagree; provider
// failures arrive as error fragments instead.
func (m *Model) fail(err error) tea.Cmd {
	m.logger.Error("chat failed", "model", m.selected, "error", err)
	m.err = err
	return m.quit()
}

// failPlaceholder replaces the placeholder at idx with an error line.
func (m *Model) failPlaceholder(idx int, err error) {
	m.entries[idx] = Entry{Kind: EntryError, Content: llm.ErrorFragment(err).Text}
	m.markDirty()
}

func (m *Model) handleFragment(msg fragmentMsg) tea.Cmd {
	p := m.pending
	if p == nil || msg.turn != p.id {
		return nil
	}
	p.loading.Stop()
	entry := &m.entries[p.entry]
	entry.Loading = false
	m.markDirty()

	if msg.frag.IsError() {
		m.logger.Warn("reply failed", "turn", p.id, "model", p.model, "error", msg.frag.Text)
		entry.Kind = EntryError
		entry.Content = msg.frag.Text
		m.finishTurn("error")
		return nil
	}

	p.stats.RecordFragment(msg.frag.Text, m.now())
	p.buf.WriteString(msg.frag.Text)
	entry.Content = p.buf.String()
	return waitForFragment(p.id, p.stream)
}

func (m *Model) handleStreamDone(msg streamDoneMsg) {
	p := m.pending
	if p == nil || msg.turn != p.id {
		return
	}
	p.loading.Stop()
	entry := &m.entries[p.entry]
	entry.Loading = false
	entry.Content = p.buf.String()
	m.history = append(m.history, llm.AssistantTurn(entry.Content))
	m.markDirty()
	m.finishTurn("ok")
}

func (m *Model) handleTick(msg spinner.TickMsg) tea.Cmd {
	if m.pending == nil || !m.pending.loading.Owns(msg) {
		return nil
	}
	cmd := m.pending.loading.Update(msg)
	if cmd != nil {
		m.markDirty()
	}
	return cmd
}

// finishTurn releases the pending turn's stream and logs its stats.
func (m *Model) finishTurn(outcome string) {
	p := m.pending
	if p == nil {
		return
	}
	m.pending = nil
	p.loading.Stop()
	if m.entries[p.entry].Loading {
		m.entries[p.entry].Loading = false
		m.markDirty()
	}
	p.cancel()
	if err := p.stream.Close(); err != nil {
		m.logger.Debug("closing stream", "turn", p.id, "error", err)
	}
	m.setStatus("")
	p.stats.Log(m.logger, outcome, m.now())
}
