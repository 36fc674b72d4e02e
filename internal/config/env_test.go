package config

import "testing"

func TestEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		defaultValue bool
		want         bool
	}{
		{name: "true-1", raw: "1", want: true},
		{name: "true-on", raw: "on", want: true},
		{name: "false-0", raw: "0", defaultValue: true, want: false},
		{name: "false-off", raw: "off", defaultValue: true, want: false},
		{name: "empty-default-true", raw: "", defaultValue: true, want: true},
		{name: "unknown-default-false", raw: "maybe", want: false},
		{name: "trim-and-case", raw: "  YeS ", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(string) string { return tt.raw }
			if got := EnvBool(getenv, DebugEnvVar, tt.defaultValue); got != tt.want {
				t.Fatalf("EnvBool(%q, %t) = %t, want %t", tt.raw, tt.defaultValue, got, tt.want)
			}
		})
	}
}
