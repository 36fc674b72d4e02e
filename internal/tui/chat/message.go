package chat

import (
	"strings"

	"github.com/samsaffron/term-chat/internal/ui"
)

// EntryKind says how a displayed entry is rendered.
type EntryKind int

const (
	EntryUser EntryKind = iota
	EntryAssistant
	EntrySystem
	EntryError
)

// Entry is one block of the message view. Entries are display state only;
// the conversation sent to providers lives in the model's history.
type Entry struct {
	Kind    EntryKind
	Content string
	// Loading is set on the assistant placeholder until its first fragment.
	Loading bool
}

func userEntry(content string) Entry {
	return Entry{Kind: EntryUser, Content: content}
}

func systemEntry(content string) Entry {
	return Entry{Kind: EntrySystem, Content: content}
}

func placeholderEntry() Entry {
	return Entry{Kind: EntryAssistant, Loading: true}
}

// render draws e at width cells. frame is the loading glyph for a placeholder.
func (e Entry) render(styles *ui.Styles, width int, frame string) string {
	wrapWidth := ui.ContentWidth(width)
	switch e.Kind {
	case EntryUser:
		label := styles.UserLabel.Render("You")
		return styles.User.Render(label + "\n" + ui.Wrap(e.Content, wrapWidth))
	case EntrySystem:
		return styles.System.Render(ui.Wrap(e.Content, wrapWidth))
	case EntryError:
		return styles.Error.Render(ui.Wrap(e.Content, wrapWidth))
	default:
		if e.Loading {
			return styles.Spinner.Render(frame)
		}
		return styles.Assistant.Render(ui.Wrap(e.Content, wrapWidth))
	}
}

// renderEntries joins entries with a blank line between them.
func renderEntries(entries []Entry, styles *ui.Styles, width int, frame string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.render(styles, width, frame))
	}
	return strings.Join(parts, "\n\n")
}
