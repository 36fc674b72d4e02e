package llm

import (
	"context"

	"github.com/samsaffron/term-chat/internal/config"
)

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// History is an ordered conversation.
type History []Turn

// Clone returns a copy that is safe to hand to a streaming goroutine.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// FragmentKind distinguishes text deltas from the terminal error marker.
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentError
)

// Fragment is one piece of a streamed response.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// TextFragment builds a text delta.
func TextFragment(text string) Fragment {
	return Fragment{Kind: FragmentText, Text: text}
}

// ErrorFragment builds the terminal error marker shown to the user.
func ErrorFragment(err error) Fragment {
	return Fragment{Kind: FragmentError, Text: "Error: " + err.Error()}
}

// IsError reports whether f terminates the stream with an error.
func (f Fragment) IsError() bool {
	return f.Kind == FragmentError
}

// Stream is a single-pass sequence of fragments. Recv returns io.EOF once the
// sequence is exhausted. Close abandons any in-flight network call.
type Stream interface {
	Recv() (Fragment, error)
	Close() error
}

// ChatRequest is what a provider adapter needs to open a stream.
type ChatRequest struct {
	Model      string // wire identifier
	History    History
	Credential string
}

// ChatProvider streams a chat completion for one provider family.
type ChatProvider interface {
	Type() config.ProviderType
	StreamChat(ctx context.Context, req ChatRequest) (Stream, error)
}
