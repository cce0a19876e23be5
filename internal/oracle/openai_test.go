package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-categorizer/pkg/openai"
)

func newOpenAI(t *testing.T, h http.HandlerFunc) openai.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return openai.NewClient(openai.NewGateway("sk-test", srv.URL))
}

func TestOpenAISearcher(t *testing.T) {
	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body["model"])
		assert.Equal(t, "about company Acme", body["input"])
		assert.Equal(t, []any{map[string]any{"type": "web_search"}}, body["tools"])

		_, _ = w.Write([]byte(`{"output":[
			{"type":"web_search_call"},
			{"type":"message","content":[{"type":"output_text","text":"Acme makes anvils."}]}
		]}`))
	})

	text, ok := NewOpenAISearcher(client).SearchContext(context.Background(), "about company Acme")
	assert.True(t, ok)
	assert.Equal(t, "Acme makes anvils.", text)
}

func TestOpenAISearcher_Absent(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no message item", http.StatusOK, `{"output":[{"type":"web_search_call"}]}`},
		{"no output_text block", http.StatusOK, `{"output":[{"type":"message","content":[{"type":"refusal"}]}]}`},
		{"blank text", http.StatusOK, `{"output":[{"type":"message","content":[{"type":"output_text","text":"  "}]}]}`},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"malformed", http.StatusOK, `{"output":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			text, ok := NewOpenAISearcher(client).SearchContext(context.Background(), "q")
			assert.False(t, ok)
			assert.Empty(t, text)
		})
	}
}

func TestOpenAIClassifier(t *testing.T) {
	prompts := Prompts{System: "Choose from {categories}", User: "{company_info}|{web_context}"}

	client := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Choose from SaaS, Manufacturing", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Acme|No additional web context available.", req.Messages[1].Content)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.1, *req.Temperature, 1e-9)
		require.NotNil(t, req.MaxTokens)
		assert.Equal(t, 50, *req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Category: Manufacturing "}}]}`))
	})

	got := NewOpenAIClassifier(client, prompts).Classify(
		context.Background(), "Acme", "No additional web context available.", []string{"SaaS", "Manufacturing"})
	assert.Equal(t, "Manufacturing", got)
}

func TestOpenAIClassifier_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`},
		{"unmatched reply", http.StatusOK, `{"choices":[{"message":{"content":"Retail"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOpenAI(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			got := NewOpenAIClassifier(client, Prompts{}).Classify(context.Background(), "Acme", "ctx", []string{"SaaS"})
			assert.Equal(t, "Other", got)
		})
	}
}
