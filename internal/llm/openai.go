package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/samsaffron/term-chat/internal/config"
)

// OpenAIProvider streams Chat Completions from an OpenAI-compatible API.
type OpenAIProvider struct {
	baseURL string
}

// NewOpenAIProvider creates the adapter. An empty baseURL uses the SDK default.
func NewOpenAIProvider(baseURL string) *OpenAIProvider {
	return &OpenAIProvider{baseURL: baseURL}
}

func (p *OpenAIProvider) Type() config.ProviderType {
	return config.ProviderTypeOpenAI
}

func (p *OpenAIProvider) client(apiKey string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	return openai.NewClient(opts...)
}

// StreamChat sends the history verbatim and yields each non-empty content delta.
func (p *OpenAIProvider) StreamChat(ctx context.Context, req ChatRequest) (Stream, error) {
	if len(req.History) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}
	client := p.client(req.Credential)
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: buildOpenAIMessages(req.History),
	}

	return newFragmentStream(ctx, func(ctx context.Context, emit func(Fragment) error) error {
		stream := client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if text := chunk.Choices[0].Delta.Content; text != "" {
				if err := emit(TextFragment(text)); err != nil {
					return err
				}
			}
		}
		if err := stream.Err(); err != nil {
			return err
		}
		return nil
	}), nil
}

func buildOpenAIMessages(history History) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case RoleUser:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		}
	}
	return msgs
}
