// Package perplexity provides a client for Perplexity's search-grounded
// chat completions.
package perplexity

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
)

const (
	// DefaultBaseURL is the public Perplexity API root.
	DefaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"
)

// Client performs chat completions against the Perplexity API.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest is the request body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// Message represents a single message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the response from POST /chat/completions.
type ChatCompletionResponse struct {
	ID        string   `json:"id"`
	Choices   []Choice `json:"choices"`
	Citations []string `json:"citations,omitempty"`
	Usage     Usage    `json:"usage"`
}

// Answer returns the content of the first choice, if any.
func (r *ChatCompletionResponse) Answer() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	content := r.Choices[0].Message.Content
	return content, content != ""
}

// Choice is a single completion choice.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Option configures the client.
type Option func(*httpClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		if model != "" {
			c.model = model
		}
	}
}

type httpClient struct {
	gw    *gateway.Gateway
	model string
}

// NewGateway builds the gateway Perplexity clients use.
func NewGateway(apiKey, baseURL string, opts ...gateway.Option) *gateway.Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return gateway.New("Perplexity", baseURL, apiKey, opts...)
}

// NewClient creates a Perplexity API client backed by the given gateway.
func NewClient(gw *gateway.Gateway, opts ...Option) Client {
	c := &httpClient{gw: gw, model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	var result ChatCompletionResponse
	if err := c.gw.Do(ctx, http.MethodPost, "/chat/completions", req, nil, &result); err != nil {
		return nil, eris.Wrap(err, "perplexity: chat completion")
	}
	return &result, nil
}
