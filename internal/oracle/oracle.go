// Package oracle turns web search and language-model calls into the two
// answers the pipeline needs: a block of company context and a category.
// Every backend swallows its own failures: a searcher reports absence and a
// classifier falls back to model.FallbackCategory.
package oracle

import (
	"context"
	"strings"

	"github.com/sells-group/contact-categorizer/internal/model"
)

// Searcher retrieves free-text web context for a rendered search query.
type Searcher interface {
	// SearchContext returns the context text, or ok=false when the call
	// failed or produced nothing usable.
	SearchContext(ctx context.Context, query string) (text string, ok bool)
}

// Classifier assigns a company to one of the given categories.
type Classifier interface {
	// Classify returns one of categories or model.FallbackCategory.
	Classify(ctx context.Context, subject, webContext string, categories []string) string
}

// MatchCategory maps a model reply onto the configured categories. An exact
// match on the trimmed reply wins; otherwise the first category, in list
// order, that appears inside the reply. Comparison is case-sensitive.
func MatchCategory(reply string, categories []string) string {
	reply = strings.TrimSpace(reply)
	for _, c := range categories {
		if c == reply {
			return c
		}
	}
	for _, c := range categories {
		if c != "" && strings.Contains(reply, c) {
			return c
		}
	}
	return model.FallbackCategory
}

func present(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
