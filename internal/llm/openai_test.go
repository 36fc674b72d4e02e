package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func openAIChunk(content string) string {
	payload, _ := json.Marshal(content)
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-4o","choices":[{"index":0,"delta":{"role":"assistant","content":%s},"finish_reason":null}]}`, payload)
}

func TestOpenAIProviderStreamsNonEmptyDeltas(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization=%q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, c := range []string{"", "Hi", "", " there"} {
			fmt.Fprintf(w, "data: %s\n\n", openAIChunk(c))
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL + "/v1/")
	stream, err := p.StreamChat(context.Background(), ChatRequest{
		Model:      "gpt-4o",
		History:    History{UserTurn("Hello"), AssistantTurn("Hey"), UserTurn("Again")},
		Credential: "sk-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for {
		frag, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		got = append(got, frag.Text)
	}
	if strings.Join(got, "|") != "Hi| there" {
		t.Fatalf("fragments=%q, empty deltas must be skipped", got)
	}

	if body["model"] != "gpt-4o" {
		t.Fatalf("model=%v", body["model"])
	}
	if body["stream"] != true {
		t.Fatalf("stream=%v, want true", body["stream"])
	}
	messages, _ := body["messages"].([]any)
	wantRoles := []string{"user", "assistant", "user"}
	wantContent := []string{"Hello", "Hey", "Again"}
	if len(messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(messages))
	}
	for i, raw := range messages {
		msg := raw.(map[string]any)
		if msg["role"] != wantRoles[i] {
			t.Errorf("messages[%d].role=%v, want %s", i, msg["role"], wantRoles[i])
		}
		if msg["content"] != wantContent[i] {
			t.Errorf("messages[%d].content=%v, want %s", i, msg["content"], wantContent[i])
		}
	}
}

func TestOpenAIProviderHTTPErrorSurfacesFromRecv(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL + "/v1/")
	stream, err := p.StreamChat(context.Background(), ChatRequest{
		Model:      "gpt-4o",
		History:    History{UserTurn("Hello")},
		Credential: "bad",
	})
	if err != nil {
		t.Fatalf("unexpected setup error: %v", err)
	}
	if _, err := stream.Recv(); err == nil || err == io.EOF {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestBuildOpenAIMessagesPreservesOrder(t *testing.T) {
	msgs := buildOpenAIMessages(History{UserTurn("a"), AssistantTurn("b"), UserTurn("c")})
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].OfUser == nil || msgs[1].OfAssistant == nil || msgs[2].OfUser == nil {
		t.Fatalf("unexpected role mapping: %+v", msgs)
	}
}
