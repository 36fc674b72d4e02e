package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFilterCommands(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "help"},
		{"/q", "quit"},
		{"exit", "quit"},
		{"ls", "models"},
		{"hlp", "help"},
	}
	for _, tt := range tests {
		got := FilterCommands(tt.query)
		if len(got) == 0 || got[0].Name != tt.want {
			t.Errorf("FilterCommands(%q) = %+v, want first %q", tt.query, got, tt.want)
		}
	}
}

func lastEntry(t *testing.T, m *Model) Entry {
	t.Helper()
	entries := m.Entries()
	if len(entries) == 0 {
		t.Fatal("no entries")
	}
	return entries[len(entries)-1]
}

func TestHelpCommand(t *testing.T) {
	h := newHarness(t, bothKeys(), "")
	send(h.model, "/help")

	e := lastEntry(t, h.model)
	if e.Kind != EntrySystem {
		t.Fatalf("entry = %+v", e)
	}
	for _, want := range []string{"/model [name]", "/models", "/quit", "ctrl+t"} {
		if !strings.Contains(e.Content, want) {
			t.Errorf("help missing %q:\n%s", want, e.Content)
		}
	}
	if len(h.model.History()) != 0 {
		t.Fatal("commands must not be sent to the model")
	}
}

func TestModelCommandSwitches(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "exact-key", arg: "o1-mini", want: "o1-mini"},
		{name: "display-name", arg: "claude-3-7-sonnet", want: "claude-3-7-sonnet-latest"},
		{name: "substring-prefers-shorter", arg: "o1", want: "o1-mini"},
		{name: "fuzzy", arg: "c37", want: "claude-3-7-sonnet-latest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, bothKeys(), "")
			send(h.model, "/model "+tt.arg)
			if got := h.model.Selected(); got != tt.want {
				t.Fatalf("Selected() = %q, want %q", got, tt.want)
			}
			if e := lastEntry(t, h.model); !strings.HasPrefix(e.Content, "Switched to ") {
				t.Fatalf("entry = %+v", e)
			}
		})
	}
}

func TestModelCommandRequiresCredential(t *testing.T) {
	h := newHarness(t, testEnv{"OPENAI_API_KEY": "k"}, "")
	send(h.model, "/model claude-3-7-sonnet-latest")

	if h.model.Selected() != "gpt-4o" {
		t.Fatalf("selection changed to %q", h.model.Selected())
	}
	if e := lastEntry(t, h.model); !strings.Contains(e.Content, "ANTHROPIC_API_KEY") {
		t.Fatalf("entry = %+v", e)
	}

	send(h.model, "/model sonnet")
	if h.model.Selected() != "gpt-4o" {
		t.Fatalf("fuzzy match must skip models without a key, got %q", h.model.Selected())
	}
}

func TestModelCommandWithoutArgsListsAvailable(t *testing.T) {
	h := newHarness(t, testEnv{"ANTHROPIC_API_KEY": "k"}, "")
	send(h.model, "/m")

	e := lastEntry(t, h.model)
	want := "Current model: claude-3-5-sonnet-20241022\nAvailable: claude-3-5-sonnet-20241022, claude-3-7-sonnet-latest"
	if e.Content != want {
		t.Fatalf("entry = %q, want %q", e.Content, want)
	}
}

func TestModelsCommandShowsCredentialState(t *testing.T) {
	h := newHarness(t, testEnv{"OPENAI_API_KEY": "k"}, "")
	send(h.model, "/models")

	e := lastEntry(t, h.model)
	for _, want := range []string{
		"* gpt-4o (openai) ready",
		"  o1-mini (openai) ready",
		"  claude-3-7-sonnet-latest (anthropic) needs ANTHROPIC_API_KEY",
	} {
		if !strings.Contains(e.Content, want) {
			t.Errorf("models output missing %q:\n%s", want, e.Content)
		}
	}
}

func TestUnknownAndAmbiguousCommands(t *testing.T) {
	h := newHarness(t, bothKeys(), "")

	send(h.model, "/mod")
	if e := lastEntry(t, h.model); !strings.Contains(e.Content, "Ambiguous command: /mod") {
		t.Fatalf("entry = %q", e.Content)
	}

	send(h.model, "/zzz")
	if e := lastEntry(t, h.model); !strings.Contains(e.Content, "Unknown command: /zzz") {
		t.Fatalf("entry = %q", e.Content)
	}
}

func TestQuitCommand(t *testing.T) {
	h := newHarness(t, bothKeys(), "")
	cmd := send(h.model, "/quit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
