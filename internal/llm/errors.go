package llm

import (
	"fmt"
	"strings"

	"github.com/samsaffron/term-chat/internal/config"
)

// UnknownModelError is returned when a model key is absent from the registry.
type UnknownModelError struct {
	Key string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model %q", e.Key)
}

// MissingCredentialError is returned when no API key exists for a provider.
type MissingCredentialError struct {
	Provider config.ProviderType
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s API key not found.", strings.ToUpper(string(e.Provider)))
}

// UnsupportedProviderError is returned when no adapter is registered for a provider type.
type UnsupportedProviderError struct {
	Provider config.ProviderType
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("no adapter registered for provider %q", e.Provider)
}
