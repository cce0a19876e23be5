// Package gemini wraps google.golang.org/genai for search-grounded text
// generation.
package gemini

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client generates text grounded in Google Search results.
type Client interface {
	GroundedSearch(ctx context.Context, prompt string) (*SearchResult, error)
}

// SearchResult holds the generated text and the web sources it cites.
type SearchResult struct {
	Text    string
	Sources []string
}

// Config configures the Gemini client.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

type genaiClient struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client using the Gemini API backend.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &genaiClient{client: client, model: model}, nil
}

func (c *genaiClient) GroundedSearch(ctx context.Context, prompt string) (*SearchResult, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools:          []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			CandidateCount: 1,
		},
	)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}
	return &SearchResult{
		Text:    strings.TrimSpace(resp.Text()),
		Sources: groundingSources(resp),
	}, nil
}

func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" || seen[uri] {
			continue
		}
		seen[uri] = true
		out = append(out, uri)
	}
	return out
}
