// Package gateway provides the authenticated JSON request helper shared by
// every remote API client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// maxLoggedBody caps how much of a failed response body is kept for diagnostics.
const maxLoggedBody = 2048

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Gateway) {
		g.http = hc
	}
}

// Gateway issues bearer-authenticated JSON requests against one base URL.
// It holds no per-call state and makes exactly one attempt per call.
type Gateway struct {
	label   string
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Gateway. label names the remote service in logs and errors.
func New(label, baseURL, token string, opts ...Option) *Gateway {
	g := &Gateway{
		label:   label,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Do sends method to baseURL+path with an optional JSON body and query
// parameters, and decodes the JSON response into out (if non-nil).
func (g *Gateway) Do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	if g.token == "" {
		err := &ConfigurationError{Missing: []string{g.label + " credential"}}
		zap.L().Error("gateway: credential not available", zap.String("label", g.label))
		return err
	}

	target := g.baseURL + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return g.fail(target, 0, nil, eris.Wrap(err, "marshal request"))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return g.fail(target, 0, nil, eris.Wrap(err, "create request"))
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return g.fail(target, 0, nil, eris.Wrap(err, "send request"))
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.fail(target, resp.StatusCode, nil, eris.Wrap(err, "read response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.fail(target, resp.StatusCode, respBody, eris.Errorf("unexpected status %d", resp.StatusCode))
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if out == nil {
		if !json.Valid(respBody) {
			return g.fail(target, resp.StatusCode, respBody, eris.New("malformed response body"))
		}
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return g.fail(target, resp.StatusCode, respBody, eris.Wrap(err, "unmarshal response"))
	}
	return nil
}

// Resolve converts an absolute link returned by the service into a path
// relative to the base URL. ok is false when the link points elsewhere.
func (g *Gateway) Resolve(link string) (string, bool) {
	if !strings.HasPrefix(link, g.baseURL) {
		return "", false
	}
	rest := strings.TrimPrefix(link, g.baseURL)
	if rest != "" && rest[0] != '/' && rest[0] != '?' {
		// Shares a prefix but not the host, e.g. api.example.com.evil.net.
		return "", false
	}
	return rest, true
}

func (g *Gateway) fail(target string, status int, body []byte, err error) error {
	rce := &RemoteCallError{
		Label:      g.label,
		URL:        target,
		StatusCode: status,
		Err:        err,
	}
	if len(body) > 0 {
		rce.Body = truncate(string(body), maxLoggedBody)
	}

	fields := []zap.Field{
		zap.String("label", g.label),
		zap.String("url", target),
		zap.Error(err),
	}
	if status != 0 {
		fields = append(fields, zap.Int("status", status))
	}
	if rce.Body != "" {
		fields = append(fields, zap.String("body", rce.Body))
	}
	zap.L().Warn("gateway: request failed", fields...)
	return rce
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
