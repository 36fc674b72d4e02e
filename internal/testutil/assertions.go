package testutil

import (
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// PlainLines strips ANSI from output and splits it into lines with trailing
// padding removed.
func PlainLines(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

// AssertContainsPlain fails if output (after stripping ANSI) does not contain expected.
func AssertContainsPlain(t *testing.T, output, expected string) {
	t.Helper()
	plain := StripANSI(output)
	if !strings.Contains(plain, expected) {
		t.Errorf("output does not contain expected string\nExpected to find: %q\nIn output (plain):\n%s", expected, truncateForError(plain))
	}
}

// AssertNotContainsPlain fails if output (after stripping ANSI) contains unexpected.
func AssertNotContainsPlain(t *testing.T, output, unexpected string) {
	t.Helper()
	plain := StripANSI(output)
	if strings.Contains(plain, unexpected) {
		t.Errorf("output contains unexpected string\nDid not expect to find: %q\nIn output (plain):\n%s", unexpected, truncateForError(plain))
	}
}

// AssertMatchesPlain fails if output (after stripping ANSI) does not match pattern.
func AssertMatchesPlain(t *testing.T, output string, pattern *regexp.Regexp) {
	t.Helper()
	plain := StripANSI(output)
	if !pattern.MatchString(plain) {
		t.Errorf("output does not match pattern\nPattern: %s\nOutput (plain):\n%s", pattern.String(), truncateForError(plain))
	}
}

// AssertMaxWidth fails if any line of output is wider than width cells.
func AssertMaxWidth(t *testing.T, output string, width int) {
	t.Helper()
	for i, line := range strings.Split(output, "\n") {
		if w := ansi.StringWidth(line); w > width {
			t.Errorf("line %d is %d cells wide, limit %d: %q", i, w, width, StripANSI(line))
		}
	}
}

// truncateForError truncates output for error messages to avoid huge logs.
func truncateForError(s string) string {
	const maxLen = 2000
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "\n... [truncated]"
}
