package oracle

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/model"
	"github.com/sells-group/contact-categorizer/pkg/anthropic"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-haiku-4-5-20251001"

// AnthropicClassifier classifies companies with the Messages API.
type AnthropicClassifier struct {
	client  anthropic.Client
	prompts Prompts
	model   string
}

// NewAnthropicClassifier creates an AnthropicClassifier.
func NewAnthropicClassifier(client anthropic.Client, prompts Prompts, modelName string) *AnthropicClassifier {
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}
	return &AnthropicClassifier{client: client, prompts: prompts, model: modelName}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, subject, webContext string, categories []string) string {
	temp := classifyTemperature

	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: classifyMaxTokens,
		System:    c.prompts.SystemMessage(categories),
		Messages: []anthropic.Message{
			{Role: "user", Content: c.prompts.UserMessage(subject, webContext, categories)},
		},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("oracle: anthropic classification failed", zap.String("subject", subject), zap.Error(err))
		return model.FallbackCategory
	}
	resp.Usage.LogCost(c.model, "classify")

	text, ok := resp.Text()
	if !ok {
		return model.FallbackCategory
	}
	return MatchCategory(text, categories)
}
