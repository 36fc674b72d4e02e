package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/samsaffron/term-chat/internal/config"
)

// AnthropicProvider streams the Messages API. The conversation is sent as a
// single transcript in one user message under a fixed system instruction.
type AnthropicProvider struct {
	baseURL   string
	system    string
	maxTokens int64
}

// NewAnthropicProvider creates the adapter. Zero values fall back to
// config.DefaultSystemPrompt and config.DefaultMaxTokens.
func NewAnthropicProvider(baseURL, system string, maxTokens int) *AnthropicProvider {
	if strings.TrimSpace(system) == "" {
		system = config.DefaultSystemPrompt
	}
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	return &AnthropicProvider{
		baseURL:   baseURL,
		system:    system,
		maxTokens: int64(maxTokens),
	}
}

func (p *AnthropicProvider) Type() config.ProviderType {
	return config.ProviderTypeAnthropic
}

func (p *AnthropicProvider) client(apiKey string) anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	return anthropic.NewClient(opts...)
}

// StreamChat yields the text of every content_block_delta event.
func (p *AnthropicProvider) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	if len(req.History) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}
	client := p.client(req.Credential)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: p.system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildTranscript(req.History))),
		},
	}

	return newFragmentStream(ctx, func(ctx context.Context, emit func(Fragment) error) error {
		stream := client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
			if !ok || text.Text == "" {
				continue
			}
			if err := emit(TextFragment(text.Text)); err != nil {
				return err
			}
		}
		return stream.Err()
	}), nil
}

// buildTranscript flattens history into "Human:" / "Assistant:" paragraphs.
func buildTranscript(history History) string {
	parts := make([]string, 0, len(history))
	for _, turn := range history {
		if turn.Role == RoleUser {
			parts = append(parts, "Human: "+turn.Content)
		} else {
			parts = append(parts, "Assistant: "+turn.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
