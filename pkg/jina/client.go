// Package jina provides a client for the Jina AI search API.
package jina

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
)

// DefaultSearchBaseURL is the public Jina search host.
const DefaultSearchBaseURL = "https://s.jina.ai"

// Client defines the Jina search operation.
type Client interface {
	// Search performs a web search via Jina AI Search and returns results.
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResponse is the parsed Jina Search API response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// Digest joins the results into one plain-text block, truncated to at most
// maxChars bytes without splitting a character (0 means no limit).
func (r *SearchResponse) Digest(maxChars int) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	for _, res := range r.Data {
		text := strings.TrimSpace(res.Description)
		if text == "" {
			text = strings.TrimSpace(res.Content)
		}
		if res.Title == "" && text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimSpace(res.Title))
		if res.URL != "" {
			b.WriteString(" (" + res.URL + ")")
		}
		if text != "" {
			b.WriteString("\n" + text)
		}
	}
	out := b.String()
	if maxChars > 0 && len(out) > maxChars {
		for maxChars > 0 && !utf8.RuneStart(out[maxChars]) {
			maxChars--
		}
		out = out[:maxChars]
	}
	return out
}

type httpClient struct {
	gw *gateway.Gateway
}

// NewGateway builds the gateway Jina clients use.
func NewGateway(apiKey, baseURL string, opts ...gateway.Option) *gateway.Gateway {
	if baseURL == "" {
		baseURL = DefaultSearchBaseURL
	}
	return gateway.New("Jina", baseURL, apiKey, opts...)
}

// NewClient creates a Jina search client backed by the given gateway.
func NewClient(gw *gateway.Gateway) Client {
	return &httpClient{gw: gw}
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var result SearchResponse
	err := c.gw.Do(ctx, http.MethodGet, "/"+url.PathEscape(query), nil, nil, &result)
	if err != nil {
		// Jina returns 422 when no results are available for the query.
		var rce *gateway.RemoteCallError
		if errors.As(err, &rce) && rce.StatusCode == http.StatusUnprocessableEntity {
			return &SearchResponse{Code: http.StatusUnprocessableEntity}, nil
		}
		return nil, eris.Wrap(err, "jina: search")
	}
	return &result, nil
}
