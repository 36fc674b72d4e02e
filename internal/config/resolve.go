package config

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// ResolveValue handles magic schemes in config values:
// - op://vault/item/field -> 1Password secret (via `op read`)
// - $(...) -> shell command output
// - ${VAR} or $VAR -> environment variable
// - literal string -> returned as-is
func ResolveValue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	switch {
	case strings.HasPrefix(value, "op://"):
		return resolveOnePassword(value)
	case strings.HasPrefix(value, "$(") && strings.HasSuffix(value, ")"):
		return resolveCommand(value[2 : len(value)-1])
	default:
		return expandEnv(value), nil
	}
}

// expandEnv expands a whole-value ${VAR} or $VAR
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// resolveOnePassword handles op://vault/item/field?account=... via `op read`
func resolveOnePassword(opURL string) (string, error) {
	u, err := url.Parse(opURL)
	if err != nil {
		return "", fmt.Errorf("1password: invalid URL %s: %w", opURL, err)
	}

	cleanURL := fmt.Sprintf("op://%s%s", u.Host, u.Path)
	args := []string{"read", cleanURL}
	if account := u.Query().Get("account"); account != "" {
		args = append(args, "--account", account)
	}

	output, err := exec.Command("op", args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("1password: failed to read %s: %s", cleanURL, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("1password: failed to read %s: %w (is 'op' installed?)", cleanURL, err)
	}
	return strings.TrimSpace(string(output)), nil
}

func resolveCommand(cmd string) (string, error) {
	output, err := exec.Command("sh", "-c", cmd).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("command failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
