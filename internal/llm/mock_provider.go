package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samsaffron/term-chat/internal/config"
)

// MockTurn represents a single scripted response.
type MockTurn struct {
	Fragments []string      // Text fragments emitted in order
	Delay     time.Duration // Optional delay before each fragment
	Error     error         // Returned after Fragments have been emitted
	SetupErr  error         // Returned from StreamChat instead of a stream
}

// MockProvider is a scripted provider for tests. It records every request.
type MockProvider struct {
	providerType config.ProviderType
	turns        []MockTurn
	turnIndex    int
	Requests     []ChatRequest
	mu           sync.Mutex
}

// NewMockProvider creates a mock serving the given provider type.
func NewMockProvider(providerType config.ProviderType) *MockProvider {
	return &MockProvider{providerType: providerType}
}

func (m *MockProvider) Type() config.ProviderType {
	return m.providerType
}

// AddTurn adds a response turn and returns the provider for chaining.
func (m *MockProvider) AddTurn(t MockTurn) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return m
}

// AddFragments is a convenience for a turn that streams fragments and ends normally.
func (m *MockProvider) AddFragments(fragments ...string) *MockProvider {
	return m.AddTurn(MockTurn{Fragments: fragments})
}

// AddError adds a turn that streams fragments then fails with err.
func (m *MockProvider) AddError(err error, fragments ...string) *MockProvider {
	return m.AddTurn(MockTurn{Fragments: fragments, Error: err})
}

// RequestCount returns how many streams were opened.
func (m *MockProvider) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request.
func (m *MockProvider) LastRequest() (ChatRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return ChatRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

func (m *MockProvider) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	if m.turnIndex >= len(m.turns) {
		m.mu.Unlock()
		return nil, fmt.Errorf("mock provider: no more turns configured (expected turn %d, have %d)", m.turnIndex, len(m.turns))
	}
	turn := m.turns[m.turnIndex]
	m.turnIndex++
	m.mu.Unlock()

	if turn.SetupErr != nil {
		return nil, turn.SetupErr
	}

	return newFragmentStream(ctx, func(ctx context.Context, emit func(Fragment) error) error {
		for _, text := range turn.Fragments {
			if turn.Delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(turn.Delay):
				}
			}
			if err := emit(TextFragment(text)); err != nil {
				return err
			}
		}
		return turn.Error
	}), nil
}
