// Package openai provides the two OpenAI endpoints the categorizer uses:
// web-search-augmented responses and chat completions.
package openai

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
)

// Client performs OpenAI API calls.
type Client interface {
	CreateResponse(ctx context.Context, req ResponseRequest) (*ResponseResult, error)
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Tool enables a built-in tool on a responses request.
type Tool struct {
	Type string `json:"type"`
}

// ResponseRequest is the request body for POST /responses.
type ResponseRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []Tool `json:"tools,omitempty"`
}

// ResponseResult is the response from POST /responses.
type ResponseResult struct {
	ID     string       `json:"id"`
	Output []OutputItem `json:"output"`
}

// OutputItem is one typed item of a response's output array.
type OutputItem struct {
	Type    string         `json:"type"`
	Content []ContentBlock `json:"content,omitempty"`
}

// ContentBlock is one typed content block of a message output item.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OutputText returns the text of the first output_text block of the first
// message item. ok is false if the response has no such block.
func (r *ResponseResult) OutputText() (string, bool) {
	if r == nil {
		return "", false
	}
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, block := range item.Content {
			if block.Type == "output_text" {
				return block.Text, block.Text != ""
			}
		}
		return "", false
	}
	return "", false
}

// ChatCompletionRequest is the request body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the response from POST /chat/completions.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
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

// NewGateway builds the gateway OpenAI clients use.
func NewGateway(apiKey, baseURL string, opts ...gateway.Option) *gateway.Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return gateway.New("OpenAI", baseURL, apiKey, opts...)
}

// NewClient creates an OpenAI client backed by the given gateway.
func NewClient(gw *gateway.Gateway, opts ...Option) Client {
	c := &httpClient{gw: gw, model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreateResponse(ctx context.Context, req ResponseRequest) (*ResponseResult, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var result ResponseResult
	if err := c.gw.Do(ctx, http.MethodPost, "/responses", req, nil, &result); err != nil {
		return nil, eris.Wrap(err, "openai: create response")
	}
	return &result, nil
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var result ChatCompletionResponse
	if err := c.gw.Do(ctx, http.MethodPost, "/chat/completions", req, nil, &result); err != nil {
		return nil, eris.Wrap(err, "openai: chat completion")
	}
	return &result, nil
}
