package oracle

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/model"
	"github.com/sells-group/contact-categorizer/pkg/gateway"
	"github.com/sells-group/contact-categorizer/pkg/openai"
)

const (
	classifyTemperature = 0.1
	classifyMaxTokens   = 50
)

// OpenAISearcher searches the web through the OpenAI Responses API with the
// built-in web_search tool.
type OpenAISearcher struct {
	client openai.Client
}

// NewOpenAISearcher creates an OpenAISearcher.
func NewOpenAISearcher(client openai.Client) *OpenAISearcher {
	return &OpenAISearcher{client: client}
}

func (s *OpenAISearcher) SearchContext(ctx context.Context, query string) (string, bool) {
	resp, err := s.client.CreateResponse(ctx, openai.ResponseRequest{
		Input: query,
		Tools: []openai.Tool{{Type: "web_search"}},
	})
	if err != nil {
		zap.L().Warn("oracle: openai web search failed",
			zap.String("error_class", gateway.ClassifyError(err)),
			zap.Error(err),
		)
		return "", false
	}
	text, ok := resp.OutputText()
	if !ok {
		zap.L().Debug("oracle: openai web search returned no output text", zap.String("response_id", resp.ID))
		return "", false
	}
	return present(text)
}

// OpenAIClassifier classifies companies with a chat completion.
type OpenAIClassifier struct {
	client  openai.Client
	prompts Prompts
}

// NewOpenAIClassifier creates an OpenAIClassifier.
func NewOpenAIClassifier(client openai.Client, prompts Prompts) *OpenAIClassifier {
	return &OpenAIClassifier{client: client, prompts: prompts}
}

func (c *OpenAIClassifier) Classify(ctx context.Context, subject, webContext string, categories []string) string {
	temp := classifyTemperature
	maxTokens := classifyMaxTokens

	resp, err := c.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Messages: []openai.Message{
			{Role: "system", Content: c.prompts.SystemMessage(categories)},
			{Role: "user", Content: c.prompts.UserMessage(subject, webContext, categories)},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		zap.L().Warn("oracle: openai classification failed",
			zap.String("subject", subject),
			zap.String("error_class", gateway.ClassifyError(err)),
			zap.Error(err),
		)
		return model.FallbackCategory
	}
	if len(resp.Choices) == 0 {
		zap.L().Warn("oracle: openai classification returned no choices", zap.String("subject", subject))
		return model.FallbackCategory
	}
	return MatchCategory(resp.Choices[0].Message.Content, categories)
}
