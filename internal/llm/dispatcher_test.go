package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/samsaffron/term-chat/internal/config"
)

func drain(t *testing.T, s Stream) []Fragment {
	t.Helper()
	defer s.Close()
	var frags []Fragment
	for {
		frag, err := s.Recv()
		if err == io.EOF {
			return frags
		}
		if err != nil {
			t.Fatalf("dispatcher stream must not return raw errors, got %v", err)
		}
		frags = append(frags, frag)
	}
}

func TestDispatcherRoutesByProviderType(t *testing.T) {
	openai := NewMockProvider(config.ProviderTypeOpenAI).AddFragments("from openai")
	anthropic := NewMockProvider(config.ProviderTypeAnthropic).AddFragments("from anthropic")
	d := NewDispatcher(DefaultRegistry(), nil, openai, anthropic)

	history := History{UserTurn("Hello")}
	s, err := d.Stream(context.Background(), history, "sk-ant", "claude-3-7-sonnet-latest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frags := drain(t, s)
	if len(frags) != 1 || frags[0].Text != "from anthropic" {
		t.Fatalf("fragments=%+v", frags)
	}
	if openai.RequestCount() != 0 {
		t.Fatal("openai adapter should not have been called")
	}

	req, _ := anthropic.LastRequest()
	if req.Model != "claude-3-7-sonnet-latest" || req.Credential != "sk-ant" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(req.History) != 1 || req.History[0] != UserTurn("Hello") {
		t.Fatalf("history=%+v", req.History)
	}
}

func TestDispatcherUnknownModelPropagates(t *testing.T) {
	d := NewDispatcher(DefaultRegistry(), nil, NewMockProvider(config.ProviderTypeOpenAI))
	_, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "nope")
	var unknown *UnknownModelError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownModelError, got %v", err)
	}
}

func TestDispatcherUnregisteredProvider(t *testing.T) {
	d := NewDispatcher(DefaultRegistry(), nil, NewMockProvider(config.ProviderTypeOpenAI))
	_, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "claude-3-7-sonnet-latest")
	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedProviderError, got %v", err)
	}
}

func TestDispatcherConvertsSetupErrorToFragment(t *testing.T) {
	mock := NewMockProvider(config.ProviderTypeOpenAI).AddTurn(MockTurn{SetupErr: errors.New("dial tcp: refused")})
	d := NewDispatcher(DefaultRegistry(), nil, mock)

	s, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "gpt-4o")
	if err != nil {
		t.Fatalf("setup errors must not escape: %v", err)
	}
	frags := drain(t, s)
	if len(frags) != 1 || !frags[0].IsError() {
		t.Fatalf("expected a single error fragment, got %+v", frags)
	}
	if frags[0].Text != "Error: dial tcp: refused" {
		t.Fatalf("text=%q", frags[0].Text)
	}
}

func TestDispatcherConvertsMidStreamErrorToTerminalFragment(t *testing.T) {
	mock := NewMockProvider(config.ProviderTypeOpenAI).AddError(errors.New("connection reset"), "Partial")
	d := NewDispatcher(DefaultRegistry(), nil, mock)

	s, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	frags := drain(t, s)
	if len(frags) != 2 {
		t.Fatalf("expected 2 fragments, got %+v", frags)
	}
	if frags[0].Text != "Partial" || frags[0].IsError() {
		t.Fatalf("first fragment=%+v", frags[0])
	}
	if !frags[1].IsError() || frags[1].Text != "Error: connection reset" {
		t.Fatalf("terminal fragment=%+v", frags[1])
	}

	// exhausted streams keep returning EOF
	if _, err := s.Recv(); err != io.EOF {
		t.Fatalf("expected EOF after terminal fragment, got %v", err)
	}
}

func TestDispatcherConcatenationMatchesFragments(t *testing.T) {
	parts := []string{"The ", "quick ", "brown ", "fox"}
	mock := NewMockProvider(config.ProviderTypeOpenAI).AddFragments(parts...)
	d := NewDispatcher(DefaultRegistry(), nil, mock)

	s, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	text, ok, err := collect(s)
	if err != nil || !ok {
		t.Fatalf("collect() ok=%v err=%v", ok, err)
	}
	if text != strings.Join(parts, "") {
		t.Fatalf("text=%q", text)
	}
}

func TestDispatcherHistoryIsCopied(t *testing.T) {
	mock := NewMockProvider(config.ProviderTypeOpenAI).AddFragments("ok")
	d := NewDispatcher(DefaultRegistry(), nil, mock)

	history := History{UserTurn("first")}
	s, err := d.Stream(context.Background(), history, "k", "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	history[0].Content = "mutated"
	drain(t, s)

	req, _ := mock.LastRequest()
	if req.History[0].Content != "first" {
		t.Fatalf("adapter saw caller mutation: %q", req.History[0].Content)
	}
}

func TestStreamCloseAbandonsInFlightCall(t *testing.T) {
	mock := NewMockProvider(config.ProviderTypeOpenAI).AddTurn(MockTurn{
		Fragments: []string{"a", "b"},
		Delay:     time.Hour,
	})
	d := NewDispatcher(DefaultRegistry(), nil, mock)

	s, err := d.Stream(context.Background(), History{UserTurn("x")}, "k", "gpt-4o")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, err := s.Recv(); err != nil {
				return
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Recv blocked after Close")
	}
}
