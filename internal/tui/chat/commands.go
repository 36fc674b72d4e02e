package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// Command represents a slash command.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
}

// AllCommands returns all available slash commands.
func AllCommands() []Command {
	return []Command{
		{
			Name:        "help",
			Aliases:     []string{"h", "?"},
			Description: "Show help and available commands",
			Usage:       "/help",
		},
		{
			Name:        "model",
			Aliases:     []string{"m"},
			Description: "Show or switch the model",
			Usage:       "/model [name]",
		},
		{
			Name:        "models",
			Aliases:     []string{"ls"},
			Description: "List models and whether their API key is set",
			Usage:       "/models",
		},
		{
			Name:        "quit",
			Aliases:     []string{"q", "exit"},
			Description: "Exit chat",
			Usage:       "/quit",
		},
	}
}

// CommandSource implements fuzzy.Source for command searching.
type CommandSource []Command

func (c CommandSource) String(i int) string {
	return c[i].Name
}

func (c CommandSource) Len() int {
	return len(c)
}

// FilterCommands returns commands matching the query using fuzzy search.
func FilterCommands(query string) []Command {
	commands := AllCommands()
	query = strings.ToLower(strings.TrimPrefix(query, "/"))
	if query == "" {
		return commands
	}

	for _, cmd := range commands {
		if cmd.Name == query {
			return []Command{cmd}
		}
		for _, alias := range cmd.Aliases {
			if alias == query {
				return []Command{cmd}
			}
		}
	}

	var result []Command
	for _, match := range fuzzy.FindFrom(query, CommandSource(commands)) {
		result = append(result, commands[match.Index])
	}
	return result
}

// lookupCommand resolves name by exact name, alias, then unique prefix.
func lookupCommand(name string) (Command, []Command) {
	for _, c := range AllCommands() {
		if c.Name == name {
			return c, nil
		}
		for _, alias := range c.Aliases {
			if alias == name {
				return c, nil
			}
		}
	}

	var prefixMatches []Command
	for _, c := range AllCommands() {
		if strings.HasPrefix(c.Name, name) {
			prefixMatches = append(prefixMatches, c)
		}
	}
	if len(prefixMatches) == 1 {
		return prefixMatches[0], nil
	}
	return Command{}, prefixMatches
}

// ExecuteCommand handles slash command execution.
func (m *Model) ExecuteCommand(input string) tea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	cmd, ambiguous := lookupCommand(cmdName)
	if cmd.Name == "" {
		if len(ambiguous) > 1 {
			return m.showSystemMessage(fmt.Sprintf("Ambiguous command: /%s\nDid you mean: %s?", cmdName, commandNames(ambiguous)))
		}
		msg := fmt.Sprintf("Unknown command: /%s\nType /help for available commands.", cmdName)
		if suggestions := FilterCommands(cmdName); len(suggestions) > 0 {
			msg = fmt.Sprintf("Unknown command: /%s\nDid you mean: %s?", cmdName, commandNames(suggestions))
		}
		return m.showSystemMessage(msg)
	}

	switch cmd.Name {
	case "help":
		return m.cmdHelp()
	case "model":
		return m.cmdModel(args)
	case "models":
		return m.cmdModels()
	case "quit":
		return m.quit()
	default:
		return m.showSystemMessage(fmt.Sprintf("Command /%s is not yet implemented.", cmd.Name))
	}
}

func commandNames(cmds []Command) string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, "/"+c.Name)
	}
	return strings.Join(names, ", ")
}

func (m *Model) showSystemMessage(content string) tea.Cmd {
	m.entries = append(m.entries, systemEntry(content))
	m.markDirty()
	return nil
}

func (m *Model) cmdHelp() tea.Cmd {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range AllCommands() {
		b.WriteString("  " + cmd.Usage)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(&b, " (aliases: %s)", strings.Join(cmd.Aliases, ", "))
		}
		fmt.Fprintf(&b, " - %s\n", cmd.Description)
	}

	b.WriteString("\nKeyboard shortcuts:\n")
	for _, binding := range []struct{ keys, desc string }{
		{m.keys.Send.Help().Key, "Send message (or click " + sendLabel + ")"},
		{m.keys.SwitchModel.Help().Key, "Switch to the next model (or click the model label)"},
		{"pgup/pgdown", "Scroll messages"},
		{m.keys.Quit.Help().Key, "Quit"},
	} {
		fmt.Fprintf(&b, "  %s - %s\n", binding.keys, binding.desc)
	}
	return m.showSystemMessage(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) cmdModel(args []string) tea.Cmd {
	if len(args) == 0 {
		available := m.availableKeys()
		if len(available) == 0 {
			return m.showSystemMessage(fmt.Sprintf("Current model: %s\n%s", m.selected, noKeysNotice()))
		}
		return m.showSystemMessage(fmt.Sprintf("Current model: %s\nAvailable: %s", m.selected, strings.Join(available, ", ")))
	}

	query := strings.Join(args, " ")
	if desc, err := m.registry.Resolve(query); err == nil {
		if !m.hasCredential(desc.Provider) {
			return m.showSystemMessage(fmt.Sprintf("Model %s needs %s to be set.", desc.Key, desc.Provider.EnvVar()))
		}
		m.selectModel(desc.Key)
		return m.showSystemMessage("Switched to " + desc.Key + ".")
	}

	match := m.fuzzyMatchModel(query)
	if match == "" {
		return m.showSystemMessage(fmt.Sprintf("No model with an API key matches %q. Try /models.", query))
	}
	m.selectModel(match)
	return m.showSystemMessage("Switched to " + match + ".")
}

// fuzzyMatchModel finds the best credentialed model key for query.
// Substring matches on keys and display names win, shorter keys first;
// otherwise the top fuzzy match is used. Returns "" when nothing matches.
func (m *Model) fuzzyMatchModel(query string) string {
	query = strings.ToLower(query)
	keys := m.availableKeys()

	best := ""
	for _, k := range keys {
		desc := m.registry.MustResolve(k)
		if strings.Contains(strings.ToLower(k), query) || strings.Contains(strings.ToLower(desc.DisplayName), query) {
			if best == "" || len(k) < len(best) {
				best = k
			}
		}
	}
	if best != "" {
		return best
	}

	matches := fuzzy.Find(query, keys)
	if len(matches) > 0 {
		return keys[matches[0].Index]
	}
	return ""
}

func (m *Model) cmdModels() tea.Cmd {
	var b strings.Builder
	b.WriteString("Models:\n")
	for _, k := range m.registry.Keys() {
		desc := m.registry.MustResolve(k)
		marker := " "
		if k == m.selected {
			marker = "*"
		}
		state := "ready"
		if !m.hasCredential(desc.Provider) {
			state = "needs " + desc.Provider.EnvVar()
		}
		fmt.Fprintf(&b, "%s %s (%s) %s\n", marker, k, desc.Provider, state)
	}
	return m.showSystemMessage(strings.TrimRight(b.String(), "\n"))
}
