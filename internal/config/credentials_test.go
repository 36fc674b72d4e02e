package config

import "testing"

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestCredentialsLookup(t *testing.T) {
	env := map[string]string{"OPENAI_API_KEY": "sk-env"}
	creds, err := NewCredentialsWithEnv(nil, envFrom(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key, ok := creds.Lookup(ProviderTypeOpenAI)
	if !ok || key != "sk-env" {
		t.Fatalf("openai lookup = (%q, %v)", key, ok)
	}
	if creds.Has(ProviderTypeAnthropic) {
		t.Fatal("anthropic should have no credential")
	}
	if !creds.Any() {
		t.Fatal("expected Any() to be true")
	}
}

func TestCredentialsReadEnvironmentOnEveryLookup(t *testing.T) {
	env := map[string]string{}
	creds, err := NewCredentialsWithEnv(nil, envFrom(env))
	if err != nil {
		t.Fatal(err)
	}
	if creds.Any() {
		t.Fatal("expected no credentials")
	}

	env["ANTHROPIC_API_KEY"] = "sk-ant"
	if !creds.Has(ProviderTypeAnthropic) {
		t.Fatal("expected credential exported after construction to be visible")
	}
}

func TestCredentialsConfigFallback(t *testing.T) {
	t.Setenv("TERM_CHAT_TEST_KEY", "sk-from-var")
	cfg := &Config{
		OpenAI:    ProviderConfig{APIKey: "${TERM_CHAT_TEST_KEY}"},
		Anthropic: ProviderConfig{APIKey: "sk-literal"},
	}
	env := map[string]string{"ANTHROPIC_API_KEY": "sk-env-wins"}

	creds, err := NewCredentialsWithEnv(cfg, envFrom(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key, _ := creds.Lookup(ProviderTypeOpenAI); key != "sk-from-var" {
		t.Fatalf("openai key=%q, want sk-from-var", key)
	}
	if key, _ := creds.Lookup(ProviderTypeAnthropic); key != "sk-env-wins" {
		t.Fatalf("anthropic key=%q, want sk-env-wins", key)
	}
}

func TestResolveValue(t *testing.T) {
	t.Setenv("TERM_CHAT_RESOLVE", "secret")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "  ", want: ""},
		{name: "literal", input: "sk-123", want: "sk-123"},
		{name: "braced env", input: "${TERM_CHAT_RESOLVE}", want: "secret"},
		{name: "bare env", input: "$TERM_CHAT_RESOLVE", want: "secret"},
		{name: "command", input: "$(echo hello)", want: "hello"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveValue(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
