package llm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
)

// chatServer stands in for the OpenAI API. It records the decoded request
// body and replies with status and body.
func chatServer(t *testing.T, status int, body string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decoding request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const okBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "model": "gpt-4o-2024-08-06",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "  hi there\n"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12}
}`

func TestOpenAIProviderComplete(t *testing.T) {
	var req map[string]any
	srv := chatServer(t, http.StatusOK, okBody, &req)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o")

	resp, err := p.Complete(context.Background(), SingleTurn("gpt-4o", "hello", 300, 0.7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "  hi there\n" {
		t.Errorf("content: got %q", resp.Content)
	}
	if resp.InputTokens != 9 || resp.OutputTokens != 3 {
		t.Errorf("usage: got %d/%d", resp.InputTokens, resp.OutputTokens)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason: got %q", resp.FinishReason)
	}

	if req["model"] != "gpt-4o" {
		t.Errorf("model sent: %v", req["model"])
	}
	if req["max_tokens"] != float64(300) {
		t.Errorf("max_tokens sent: %v", req["max_tokens"])
	}
	if temp, _ := req["temperature"].(float64); math.Abs(temp-0.7) > 1e-6 {
		t.Errorf("temperature sent: %v", req["temperature"])
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg, _ := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "hello" {
		t.Errorf("message sent: %v", msg)
	}
}

func TestOpenAIProviderDefaultModel(t *testing.T) {
	var req map[string]any
	srv := chatServer(t, http.StatusOK, okBody, &req)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o-mini")

	if _, err := p.Complete(context.Background(), SingleTurn("", "hello", 10, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req["model"] != "gpt-4o-mini" {
		t.Errorf("expected provider default model, got %v", req["model"])
	}
}

func TestOpenAIProviderNoChoices(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","model":"gpt-4o","choices":[]}`, nil)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o")

	resp, err := p.Complete(context.Background(), SingleTurn("gpt-4o", "hello", 10, 0))
	if err != nil {
		t.Fatalf("no choices must not be an error: %v", err)
	}
	if resp.Content != "" {
		t.Errorf("expected empty content, got %q", resp.Content)
	}
}

func TestOpenAIProviderAPIError(t *testing.T) {
	body := `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`
	srv := chatServer(t, http.StatusUnauthorized, body, nil)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o")

	_, err := p.Complete(context.Background(), SingleTurn("gpt-4o", "hello", 10, 0))
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error should carry the API message, got %q", err)
	}
}

func TestOpenAIProviderMalformedResponse(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `not json`, nil)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o")

	if _, err := p.Complete(context.Background(), SingleTurn("gpt-4o", "hello", 10, 0)); err == nil {
		t.Fatal("expected error for malformed response")
	}
}

func TestOpenAIProviderContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	p := NewOpenAIProvider("test-key", srv.URL+"/v1", "gpt-4o")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := p.Complete(ctx, SingleTurn("gpt-4o", "hello", 10, 0)); err == nil {
		t.Fatal("expected error when the context deadline passes")
	}
}

func TestSingleTurn(t *testing.T) {
	req := SingleTurn("gpt-4o", "prompt", 300, 0.7)
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != RoleUser || req.Messages[0].Content != "prompt" {
		t.Errorf("unexpected message: %+v", req.Messages[0])
	}
	if req.MaxTokens != 300 || req.Temperature != 0.7 {
		t.Errorf("unexpected params: %+v", req)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	if _, err := NewProvider(config.LLMConfig{Model: "gpt-4o"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestFactoryCreatesOpenAIProvider(t *testing.T) {
	provider, err := NewProvider(config.LLMConfig{APIKey: "test-key", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", provider.Name())
	}
}

func TestEstimateCostUnknownModel(t *testing.T) {
	cost := EstimateCost("unknown-model", 1000, 500)
	if cost != 0 {
		t.Errorf("expected 0 for unknown model, got %f", cost)
	}
}

func TestEstimateCostAccuracy(t *testing.T) {
	// gpt-4o: $2.50/1M input, $10/1M output
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	expected := 12.5
	if cost < expected-0.01 || cost > expected+0.01 {
		t.Errorf("expected cost ~$%.2f, got $%.2f", expected, cost)
	}
}

func TestEstimateCostDatedSnapshot(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		{"gpt-4o-2024-08-06", 12.5},
		{"gpt-4o-mini-2024-07-18", 0.75},
		{"gpt-4.1-mini-2025-04-14", 2.0},
		{"gpt-4o5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := EstimateCost(tt.model, 1_000_000, 1_000_000)
			if got < tt.want-0.001 || got > tt.want+0.001 {
				t.Errorf("EstimateCost(%q) = %f, want %f", tt.model, got, tt.want)
			}
		})
	}
}

func TestResponseCostPrefersReportedModel(t *testing.T) {
	resp := &CompletionResponse{Model: "gpt-4o-mini-2024-07-18", InputTokens: 1_000_000}
	if got := resp.Cost("gpt-4o"); got < 0.149 || got > 0.151 {
		t.Errorf("expected mini input price, got %f", got)
	}
	resp.Model = ""
	if got := resp.Cost("gpt-4o"); got < 2.49 || got > 2.51 {
		t.Errorf("expected requested model price, got %f", got)
	}
}
