package config

const redacted = "********"

// Redacted returns a copy of the config with every credential masked.
// Unset credentials stay empty so operators can see what is missing.
func (c *Config) Redacted() Config {
	out := *c
	out.CategoryList = c.Categories()
	mask(&out.HubSpot.Token)
	mask(&out.OpenAI.Key)
	mask(&out.Perplexity.Key)
	mask(&out.Jina.Key)
	mask(&out.Gemini.Key)
	mask(&out.Anthropic.Key)
	if out.Store.Driver == "postgres" {
		mask(&out.Store.DatabaseURL)
	}
	return out
}

func mask(s *string) {
	if *s != "" {
		*s = redacted
	}
}
