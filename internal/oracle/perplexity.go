package oracle

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/pkg/perplexity"
)

// PerplexitySearcher answers the search query with a Perplexity sonar model.
// Citations are appended as a source list.
type PerplexitySearcher struct {
	client perplexity.Client
}

// NewPerplexitySearcher creates a PerplexitySearcher.
func NewPerplexitySearcher(client perplexity.Client) *PerplexitySearcher {
	return &PerplexitySearcher{client: client}
}

func (s *PerplexitySearcher) SearchContext(ctx context.Context, query string) (string, bool) {
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{{Role: "user", Content: query}},
	})
	if err != nil {
		zap.L().Warn("oracle: perplexity search failed", zap.Error(err))
		return "", false
	}
	answer, ok := resp.Answer()
	if !ok {
		return "", false
	}
	return present(withSources(answer, resp.Citations))
}

// withSources appends a source list to text. Sources alone are not context,
// so blank text stays blank.
func withSources(text string, sources []string) string {
	text = strings.TrimSpace(text)
	if text == "" || len(sources) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nSources:")
	for _, s := range sources {
		b.WriteString("\n- ")
		b.WriteString(s)
	}
	return b.String()
}
