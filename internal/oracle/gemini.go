package oracle

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/pkg/gemini"
)

// GeminiSearcher answers the search query with Google Search grounding.
type GeminiSearcher struct {
	client gemini.Client
}

// NewGeminiSearcher creates a GeminiSearcher.
func NewGeminiSearcher(client gemini.Client) *GeminiSearcher {
	return &GeminiSearcher{client: client}
}

func (s *GeminiSearcher) SearchContext(ctx context.Context, query string) (string, bool) {
	res, err := s.client.GroundedSearch(ctx, query)
	if err != nil {
		zap.L().Warn("oracle: gemini search failed", zap.Error(err))
		return "", false
	}
	return present(withSources(res.Text, res.Sources))
}
