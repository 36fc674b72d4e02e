package llm

import (
	"fmt"
	"strings"

	"github.com/samsaffron/term-chat/internal/config"
)

// DefaultModel is selected when nothing else is configured or credentialed.
const DefaultModel = "gpt-4o"

// ModelDescriptor maps a model key to the provider that serves it.
type ModelDescriptor struct {
	Key         string
	Provider    config.ProviderType
	WireID      string
	DisplayName string
}

// Label is the bracketed indicator shown next to the input.
func (d ModelDescriptor) Label() string {
	return "[" + d.DisplayName + "]"
}

// Registry is an immutable, insertion-ordered model table.
type Registry struct {
	order []string
	byKey map[string]ModelDescriptor
}

var builtinModels = []ModelDescriptor{
	{Key: "gpt-4o", Provider: config.ProviderTypeOpenAI, WireID: "gpt-4o", DisplayName: "gpt-4o"},
	{Key: "o1-preview", Provider: config.ProviderTypeOpenAI, WireID: "o1-preview", DisplayName: "o1-preview"},
	{Key: "o1-mini", Provider: config.ProviderTypeOpenAI, WireID: "o1-mini", DisplayName: "o1-mini"},
	{Key: "claude-3-5-sonnet-20241022", Provider: config.ProviderTypeAnthropic, WireID: "claude-3-5-sonnet-20241022", DisplayName: "claude-3-5-sonnet"},
	{Key: "claude-3-7-sonnet-latest", Provider: config.ProviderTypeAnthropic, WireID: "claude-3-7-sonnet-latest", DisplayName: "claude-3-7-sonnet"},
}

// DefaultRegistry returns the built-in model table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(builtinModels...)
	if err != nil {
		panic(fmt.Sprintf("builtin model table is invalid: %v", err))
	}
	return r
}

// NewRegistry validates descs and builds a registry preserving their order.
// An empty WireID defaults to the key and an empty DisplayName to the WireID.
func NewRegistry(descs ...ModelDescriptor) (*Registry, error) {
	r := &Registry{byKey: make(map[string]ModelDescriptor, len(descs))}
	for _, d := range descs {
		d.Key = strings.TrimSpace(d.Key)
		if d.Key == "" {
			return nil, fmt.Errorf("model key is empty")
		}
		if !d.Provider.Valid() {
			return nil, fmt.Errorf("model %q: unsupported provider %q", d.Key, d.Provider)
		}
		if _, dup := r.byKey[d.Key]; dup {
			return nil, fmt.Errorf("model %q is defined twice", d.Key)
		}
		if d.WireID == "" {
			d.WireID = d.Key
		}
		if d.DisplayName == "" {
			d.DisplayName = d.WireID
		}
		r.byKey[d.Key] = d
		r.order = append(r.order, d.Key)
	}
	return r, nil
}

// With returns a new registry holding r's models followed by descs.
func (r *Registry) With(descs ...ModelDescriptor) (*Registry, error) {
	all := make([]ModelDescriptor, 0, len(r.order)+len(descs))
	for _, key := range r.order {
		all = append(all, r.byKey[key])
	}
	return NewRegistry(append(all, descs...)...)
}

// FromConfig converts configured extra models into descriptors.
func FromConfig(models []config.ModelConfig) []ModelDescriptor {
	descs := make([]ModelDescriptor, 0, len(models))
	for _, m := range models {
		descs = append(descs, ModelDescriptor{
			Key:         m.Key,
			Provider:    m.Provider,
			WireID:      m.ModelID,
			DisplayName: m.DisplayName,
		})
	}
	return descs
}

// Resolve returns the descriptor for key.
func (r *Registry) Resolve(key string) (ModelDescriptor, error) {
	d, ok := r.byKey[key]
	if !ok {
		return ModelDescriptor{}, &UnknownModelError{Key: key}
	}
	return d, nil
}

// MustResolve is Resolve for keys the caller already validated.
func (r *Registry) MustResolve(key string) ModelDescriptor {
	d, err := r.Resolve(key)
	if err != nil {
		panic(err)
	}
	return d
}

// Keys returns all model keys in insertion order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of models.
func (r *Registry) Len() int {
	return len(r.order)
}

// AvailableKeys returns, in insertion order, the keys whose provider has a credential.
func (r *Registry) AvailableKeys(hasCredential func(config.ProviderType) bool) []string {
	var keys []string
	for _, key := range r.order {
		if hasCredential(r.byKey[key].Provider) {
			keys = append(keys, key)
		}
	}
	return keys
}

// DisplayNames lists the display names served by provider p.
func (r *Registry) DisplayNames(p config.ProviderType) []string {
	var names []string
	for _, key := range r.order {
		if d := r.byKey[key]; d.Provider == p {
			names = append(names, d.DisplayName)
		}
	}
	return names
}
