package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const (
	// FallbackWidth is used until the terminal reports its size.
	FallbackWidth = 80
	// MinContentWidth keeps message text readable in narrow terminals.
	MinContentWidth = 20
	// MessagePadding is the left and right padding of a message, in cells.
	MessagePadding = 2
	// TabWidth is the number of spaces lipgloss renders for a tab.
	TabWidth = 4
)

var tabSpaces = strings.Repeat(" ", TabWidth)

// ContentWidth returns the wrap width for messages rendered in a view that is
// available cells wide. A non-positive width means the size is not known yet.
func ContentWidth(available int) int {
	if available <= 0 {
		available = FallbackWidth
	}
	return max(MinContentWidth, available-2*MessagePadding)
}

// Wrap breaks every line of content so no produced line is wider than width
// cells. A line is broken at the last whitespace that fits, or hard-broken at
// width when there is none; the continuation has its leading whitespace removed.
// Tabs are expanded to TabWidth spaces first so measured and drawn widths agree.
func Wrap(content string, width int) string {
	if width <= 0 {
		width = ContentWidth(0)
	}
	content = strings.ReplaceAll(content, "\t", tabSpaces)
	var out []string
	for _, line := range strings.Split(content, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	var out []string
	for runewidth.StringWidth(line) > width {
		fit := fitPrefix(line, width)
		split := lastSpace(line[:fit])
		if split <= 0 {
			split = fit
		}
		out = append(out, line[:split])
		line = strings.TrimLeftFunc(line[split:], unicode.IsSpace)
	}
	return append(out, line)
}

// fitPrefix returns the byte length of the longest prefix of s that is at most
// width cells wide, and always at least one rune.
func fitPrefix(s string, width int) int {
	cells := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if cells+w > width {
			if i == 0 {
				_, size := utf8.DecodeRuneInString(s)
				return size
			}
			return i
		}
		cells += w
	}
	return len(s)
}

// lastSpace returns the byte offset of the last whitespace rune in s, or -1.
func lastSpace(s string) int {
	return strings.LastIndexFunc(s, unicode.IsSpace)
}
