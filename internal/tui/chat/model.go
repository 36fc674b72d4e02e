package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/samsaffron/term-chat/internal/config"
	"github.com/samsaffron/term-chat/internal/llm"
	"github.com/samsaffron/term-chat/internal/ui"
)

const (
	// defaultHeight is assumed until the terminal reports its size.
	defaultHeight = 24
	// chromeHeight is the status line plus the input row below the messages.
	chromeHeight = 2

	inputPlaceholder = "Type your message..."
	sendLabel        = "[send]"
)

// Credentials looks up the API key for a provider type.
type Credentials interface {
	Lookup(p config.ProviderType) (string, bool)
}

// Options configures a chat Model.
type Options struct {
	Dispatcher  *llm.Dispatcher
	Credentials Credentials
	// Model is the preferred model key; it is used when its provider has a
	// credential, otherwise the first credentialed model is selected.
	Model   string
	Styles  *ui.Styles
	Logger  *slog.Logger
	Context context.Context
	// Now is the clock used for turn stats.
	Now func() time.Time
}

type keyMap struct {
	Send        key.Binding
	Quit        key.Binding
	SwitchModel key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c/esc", "quit"),
		),
		SwitchModel: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "next model"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
	}
}

// pendingTurn is the assistant reply currently streaming in.
type pendingTurn struct {
	id      int
	model   string
	entry   int
	buf     strings.Builder
	stream  llm.Stream
	cancel  context.CancelFunc
	loading *loadingIndicator
	stats   *turnStats
}

// Model is the bubbletea model of the conversation surface.
type Model struct {
	dispatcher *llm.Dispatcher
	registry   *llm.Registry
	creds      Credentials
	styles     *ui.Styles
	logger     *slog.Logger
	keys       keyMap
	now        func() time.Time
	ctx        context.Context

	history  llm.History
	entries  []Entry
	selected string

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int
	sized    bool

	pending *pendingTurn
	turnSeq int
	status  string

	dirty    bool
	renders  int
	quitting bool
	err      error
}

// New creates the chat model. It panics if opts has no dispatcher.
func New(opts Options) *Model {
	if opts.Dispatcher == nil {
		panic("chat: Options.Dispatcher is required")
	}
	if opts.Credentials == nil {
		opts.Credentials = noCredentials{}
	}
	if opts.Styles == nil {
		opts.Styles = ui.DefaultStyles()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	input := textinput.New()
	input.Placeholder = inputPlaceholder
	input.Prompt = ""
	input.Focus()

	m := &Model{
		dispatcher: opts.Dispatcher,
		registry:   opts.Dispatcher.Registry(),
		creds:      opts.Credentials,
		styles:     opts.Styles,
		logger:     opts.Logger,
		keys:       defaultKeyMap(),
		now:        opts.Now,
		ctx:        opts.Context,
		input:      input,
		viewport:   viewport.New(ui.FallbackWidth, defaultHeight-chromeHeight),
	}
	m.selected = m.initialSelection(opts.Model)
	m.resizeInput()

	if !m.anyCredential() {
		m.entries = append(m.entries, systemEntry(m.welcomeNotice()))
	}
	m.markDirty()
	m.syncViewport()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes msg and then rebuilds the message view once if anything
// changed while handling it.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncViewport()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case fragmentMsg:
		return m.handleFragment(msg)
	case streamDoneMsg:
		m.handleStreamDone(msg)
		return nil
	case spinner.TickMsg:
		return m.handleTick(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.viewport.View() + "\n" + m.statusLine() + "\n" + m.inputRow()
}

// Selected returns the key of the model new turns are sent to.
func (m *Model) Selected() string {
	return m.selected
}

// History returns a copy of the committed conversation.
func (m *Model) History() llm.History {
	return m.history.Clone()
}

// Entries returns a copy of the displayed entries.
func (m *Model) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Streaming reports whether a reply is in flight.
func (m *Model) Streaming() bool {
	return m.pending != nil
}

func (m *Model) markDirty() {
	m.dirty = true
}

// syncViewport re-renders the entries into the viewport when they changed.
func (m *Model) syncViewport() {
	if !m.dirty {
		return
	}
	start := time.Now()
	frame := ""
	if m.pending != nil {
		frame = m.pending.loading.Frame()
	}
	width := 0
	if m.sized {
		width = m.width
	}
	m.viewport.SetContent(renderEntries(m.entries, m.styles, width, frame))
	m.viewport.GotoBottom()
	m.dirty = false
	m.renders++
	if m.pending != nil {
		m.pending.stats.RecordRender(time.Since(start))
	}
}

func (m *Model) layoutHeight() int {
	if m.sized && m.height > 0 {
		return m.height
	}
	return defaultHeight
}

func (m *Model) layoutWidth() int {
	if m.sized && m.width > 0 {
		return m.width
	}
	return ui.FallbackWidth
}

// inputRowY is the screen row of the input line.
func (m *Model) inputRowY() int {
	return m.layoutHeight() - 1
}

func (m *Model) selectedLabel() string {
	desc, err := m.registry.Resolve(m.selected)
	if err != nil {
		return "[" + m.selected + "]"
	}
	return desc.Label()
}

// inputRow draws the model label, the input and the send button pinned to
// the right edge.
func (m *Model) inputRow() string {
	left := m.styles.Indicator.Render(m.selectedLabel()) + " " + m.input.View()
	gap := max(1, m.sendButtonX()-lipgloss.Width(left))
	return left + strings.Repeat(" ", gap) + m.styles.Button.Render(sendLabel)
}

// sendButtonX is the first column of the send button on the input row.
func (m *Model) sendButtonX() int {
	return m.layoutWidth() - runewidth.StringWidth(sendLabel)
}

func (m *Model) statusLine() string {
	text := m.status
	if text == "" {
		switch {
		case m.pending != nil && m.pending.loading.Active():
			text = "Waiting for " + m.pending.model + "..."
		case m.pending != nil:
			text = "Receiving reply from " + m.pending.model + "..."
		default:
			text = fmt.Sprintf("%s %s · %s %s · /help",
				m.keys.Send.Help().Key, m.keys.Send.Help().Desc,
				m.keys.SwitchModel.Help().Key, m.keys.SwitchModel.Help().Desc)
		}
	}
	return m.styles.Status.MaxWidth(m.layoutWidth()).Render(text)
}

func (m *Model) setStatus(text string) {
	m.status = text
}

func (m *Model) resizeInput() {
	// label, space, cursor cell, space, send button
	labelWidth := runewidth.StringWidth(m.selectedLabel())
	m.input.Width = max(1, m.layoutWidth()-labelWidth-3-runewidth.StringWidth(sendLabel))
}

func (m *Model) hasCredential(p config.ProviderType) bool {
	_, ok := m.creds.Lookup(p)
	return ok
}

func (m *Model) availableKeys() []string {
	return m.registry.AvailableKeys(m.hasCredential)
}

func (m *Model) anyCredential() bool {
	return slices.ContainsFunc(config.ProviderTypes(), m.hasCredential)
}

func (m *Model) initialSelection(preferred string) string {
	available := m.availableKeys()
	if preferred != "" && slices.Contains(available, preferred) {
		return preferred
	}
	if len(available) > 0 {
		return available[0]
	}
	if _, err := m.registry.Resolve(preferred); preferred != "" && err == nil {
		return preferred
	}
	if _, err := m.registry.Resolve(llm.DefaultModel); err == nil {
		return llm.DefaultModel
	}
	return m.registry.Keys()[0]
}

func (m *Model) selectModel(key string) {
	if key == m.selected {
		return
	}
	m.logger.Info("model selected", "from", m.selected, "to", key)
	m.selected = key
	m.resizeInput()
}

// cycleModel moves the selection to the next credentialed model, wrapping.
func (m *Model) cycleModel() {
	keys := m.availableKeys()
	if len(keys) == 0 {
		m.entries = append(m.entries, systemEntry(noKeysNotice()))
		m.markDirty()
		return
	}
	next := (slices.Index(keys, m.selected) + 1) % len(keys)
	m.selectModel(keys[next])
}

func providerTitle(p config.ProviderType) string {
	switch p {
	case config.ProviderTypeOpenAI:
		return "OpenAI"
	case config.ProviderTypeAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}

func noKeysNotice() string {
	return fmt.Sprintf("No API keys found. Please set either %s or %s in your environment.",
		config.ProviderTypeOpenAI.EnvVar(), config.ProviderTypeAnthropic.EnvVar())
}

func (m *Model) welcomeNotice() string {
	var b strings.Builder
	b.WriteString("Welcome to term-chat! No API keys were detected. Please set one of the following environment variables:\n")
	for _, p := range config.ProviderTypes() {
		fmt.Fprintf(&b, "- %s for %s models (%s)\n",
			p.EnvVar(), providerTitle(p), strings.Join(m.registry.DisplayNames(p), ", "))
	}
	b.WriteString("\nYou can still use the interface, but you'll need at least one valid API key to send messages.")
	return b.String()
}

type noCredentials struct{}

func (noCredentials) Lookup(config.ProviderType) (string, bool) { return "", false }
