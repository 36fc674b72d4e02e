package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across all TUI components
var (
	Green  = lipgloss.Color("10") // user turns
	Red    = lipgloss.Color("9")  // errors
	Grey   = lipgloss.Color("8")  // status line
	Blue   = lipgloss.Color("4")  // model indicator
	Yellow = lipgloss.Color("11") // system notices
	White  = lipgloss.Color("15")
)

// Styles returns styled text helpers bound to a renderer
type Styles struct {
	User      lipgloss.Style
	UserLabel lipgloss.Style
	Assistant lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Button    lipgloss.Style
	Indicator lipgloss.Style
	Spinner   lipgloss.Style
	Status    lipgloss.Style
}

// NewStyles creates a new Styles instance for the given output
func NewStyles(output io.Writer) *Styles {
	r := lipgloss.NewRenderer(output)

	return &Styles{
		User: r.NewStyle().
			Foreground(White).
			PaddingLeft(MessagePadding),

		UserLabel: r.NewStyle().
			Bold(true).
			Foreground(Green),

		Assistant: r.NewStyle().
			PaddingLeft(MessagePadding),

		System: r.NewStyle().
			Italic(true).
			Foreground(Yellow).
			PaddingLeft(MessagePadding),

		Error: r.NewStyle().
			Foreground(Red).
			PaddingLeft(MessagePadding),

		Button: r.NewStyle().
			Bold(true).
			Foreground(Green),

		Indicator: r.NewStyle().
			Bold(true).
			Foreground(Blue),

		Spinner: r.NewStyle().
			Foreground(Blue).
			PaddingLeft(MessagePadding),

		Status: r.NewStyle().
			Foreground(Grey),
	}
}

// DefaultStyles returns styles for stdout, where the chat program renders
func DefaultStyles() *Styles {
	return NewStyles(os.Stdout)
}
