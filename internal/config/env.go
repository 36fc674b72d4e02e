package config

import "strings"

// DebugEnvVar turns on debug logging when set to a true-like value.
const DebugEnvVar = "TERM_CHAT_DEBUG"

// EnvBool reads name through getenv and parses it as a boolean.
// True values: 1, true, yes, on, y
// False values: 0, false, no, off, n
// Empty/unknown values return defaultValue.
func EnvBool(getenv func(string) string, name string, defaultValue bool) bool {
	switch strings.TrimSpace(strings.ToLower(getenv(name))) {
	case "1", "true", "yes", "on", "y":
		return true
	case "0", "false", "no", "off", "n":
		return false
	default:
		return defaultValue
	}
}
