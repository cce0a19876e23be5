package oracle

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/pkg/jina"
)

// DefaultJinaMaxChars caps the digest handed to the classifier.
const DefaultJinaMaxChars = 4000

// JinaSearcher builds context from the top Jina search results.
type JinaSearcher struct {
	client   jina.Client
	maxChars int
}

// NewJinaSearcher creates a JinaSearcher. maxChars <= 0 uses DefaultJinaMaxChars.
func NewJinaSearcher(client jina.Client, maxChars int) *JinaSearcher {
	if maxChars <= 0 {
		maxChars = DefaultJinaMaxChars
	}
	return &JinaSearcher{client: client, maxChars: maxChars}
}

func (s *JinaSearcher) SearchContext(ctx context.Context, query string) (string, bool) {
	resp, err := s.client.Search(ctx, query)
	if err != nil {
		zap.L().Warn("oracle: jina search failed", zap.Error(err))
		return "", false
	}
	return present(resp.Digest(s.maxChars))
}
