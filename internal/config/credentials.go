package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Credentials looks up API keys per provider. The environment is consulted on
// every call so keys exported after startup are picked up on the next lookup.
type Credentials struct {
	getenv   func(string) string
	fallback map[ProviderType]string
}

// NewCredentials builds a lookup backed by os.Getenv with config keys as fallback.
func NewCredentials(cfg *Config) (*Credentials, error) {
	return NewCredentialsWithEnv(cfg, os.Getenv)
}

// NewCredentialsWithEnv is NewCredentials with an explicit environment source.
func NewCredentialsWithEnv(cfg *Config, getenv func(string) string) (*Credentials, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	c := &Credentials{
		getenv:   getenv,
		fallback: make(map[ProviderType]string),
	}
	if cfg == nil {
		return c, nil
	}
	for _, p := range ProviderTypes() {
		raw := cfg.Provider(p).APIKey
		if raw == "" {
			continue
		}
		key, err := ResolveValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%s api_key: %w", p, err)
		}
		if key != "" {
			c.fallback[p] = key
		}
	}
	return c, nil
}

// Lookup returns the credential for p.
func (c *Credentials) Lookup(p ProviderType) (string, bool) {
	if key := strings.TrimSpace(c.getenv(p.EnvVar())); key != "" {
		return key, true
	}
	key, ok := c.fallback[p]
	return key, ok
}

// Has reports whether a credential exists for p.
func (c *Credentials) Has(p ProviderType) bool {
	_, ok := c.Lookup(p)
	return ok
}

// Any reports whether at least one supported provider has a credential.
func (c *Credentials) Any() bool {
	return slices.ContainsFunc(ProviderTypes(), c.Has)
}
