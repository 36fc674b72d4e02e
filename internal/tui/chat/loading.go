package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// loadingFrames is the braille cycle shown while waiting for a reply.
var loadingFrames = spinner.Spinner{
	Frames: []string{"⣷", "⣯", "⣟", "⡿", "⢿", "⣻", "⣽", "⣾"},
	FPS:    100 * time.Millisecond,
}

// loadingIndicator animates one assistant placeholder. It belongs to a single
// turn: once stopped it never ticks again, and ticks addressed to any other
// spinner are ignored.
type loadingIndicator struct {
	spinner spinner.Model
	active  bool
}

func newLoadingIndicator() *loadingIndicator {
	return &loadingIndicator{spinner: spinner.New(spinner.WithSpinner(loadingFrames))}
}

// Start begins the animation and returns the first tick.
func (l *loadingIndicator) Start() tea.Cmd {
	if l.active {
		return nil
	}
	l.active = true
	return l.spinner.Tick
}

// Stop ends the animation permanently; pending ticks are dropped on arrival.
func (l *loadingIndicator) Stop() {
	l.active = false
}

func (l *loadingIndicator) Active() bool {
	return l.active
}

// Owns reports whether msg was scheduled by this indicator.
func (l *loadingIndicator) Owns(msg spinner.TickMsg) bool {
	return msg.ID == l.spinner.ID()
}

// Update advances one frame. It returns the next tick, or nil once stopped.
func (l *loadingIndicator) Update(msg spinner.TickMsg) tea.Cmd {
	if !l.active || !l.Owns(msg) {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// Frame returns the glyph currently shown.
func (l *loadingIndicator) Frame() string {
	return l.spinner.View()
}
