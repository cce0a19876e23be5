package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
)

// EnvPrefix is prepended to every config key when read from the environment.
const EnvPrefix = "CATEGORIZER"

// Config holds the full application configuration.
type Config struct {
	HubSpot    HubSpotConfig    `yaml:"hubspot" mapstructure:"hubspot"`
	CRM        CRMConfig        `yaml:"crm" mapstructure:"crm"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Oracle     OracleConfig     `yaml:"oracle" mapstructure:"oracle"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Prompts    PromptsConfig    `yaml:"prompts" mapstructure:"prompts"`
	// CategoryList holds one entry per category. A comma-separated string
	// (env or YAML scalar) is split by Load; YAML list items are kept whole,
	// so they may contain commas. Use Categories() to read it.
	CategoryList []string    `yaml:"categories" mapstructure:"categories"`
	Run          RunConfig   `yaml:"run" mapstructure:"run"`
	Store        StoreConfig `yaml:"store" mapstructure:"store"`
	Log          LogConfig   `yaml:"log" mapstructure:"log"`
}

// HubSpotConfig holds HubSpot API credentials.
type HubSpotConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CRMConfig selects the CRM backend and the list and fields a run works on.
type CRMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	ListID        string `yaml:"list_id" mapstructure:"list_id"`
	CategoryField string `yaml:"category_field" mapstructure:"category_field"`
	ContextField  string `yaml:"context_field" mapstructure:"context_field"`
	MaxPages      int    `yaml:"max_pages" mapstructure:"max_pages"`
}

// SalesforceConfig holds Salesforce JWT bearer flow credentials.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// OracleConfig selects the web-search and classification backends.
type OracleConfig struct {
	Searcher   string `yaml:"searcher" mapstructure:"searcher"`
	Classifier string `yaml:"classifier" mapstructure:"classifier"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// JinaConfig holds Jina AI Search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
	MaxChars      int    `yaml:"max_chars" mapstructure:"max_chars"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PromptsConfig holds the operator-supplied prompt templates.
type PromptsConfig struct {
	System string `yaml:"system" mapstructure:"system"`
	User   string `yaml:"user" mapstructure:"user"`
	Search string `yaml:"search" mapstructure:"search"`
}

// RunConfig controls batch behavior.
type RunConfig struct {
	TestMode bool `yaml:"test_mode" mapstructure:"test_mode"`
}

// StoreConfig configures the run ledger backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the environment variable names earlier
// deployments used. The prefixed name always wins when both are set.
var legacyEnv = map[string]string{
	"hubspot.token":      "HUBSPOT_ACCESS_TOKEN",
	"crm.list_id":        "HUBSPOT_LIST_ID",
	"crm.category_field": "HUBSPOT_CATEGORY_PROPERTY_INTERNAL_NAME",
	"crm.context_field":  "HUBSPOT_COMPANY_CONTEXT_PROPERTY_INTERNAL_NAME",
	"openai.key":         "OPENAI_API_KEY",
	"categories":         "HUBSPOT_CATEGORY_FIELD_NAMES",
	"prompts.system":     "OPENAI_SYSTEM_MESSAGE",
	"prompts.user":       "OPENAI_USER_MESSAGE_TEMPLATE",
	"prompts.search":     "OPENAI_WEB_SEARCH_QUERY_TEMPLATE",
}

// keys lists every config key so that env-only values are picked up by
// Unmarshal, which only sees keys viper already knows about.
var keys = []string{
	"hubspot.token", "hubspot.base_url",
	"crm.provider", "crm.list_id", "crm.category_field", "crm.context_field", "crm.max_pages",
	"salesforce.client_id", "salesforce.username", "salesforce.key_path", "salesforce.login_url",
	"oracle.searcher", "oracle.classifier",
	"openai.key", "openai.base_url", "openai.model",
	"perplexity.key", "perplexity.base_url", "perplexity.model",
	"jina.key", "jina.search_base_url", "jina.max_chars",
	"gemini.key", "gemini.model", "gemini.base_url",
	"anthropic.key", "anthropic.model", "anthropic.base_url",
	"prompts.system", "prompts.user", "prompts.search",
	"categories",
	"run.test_mode",
	"store.driver", "store.database_url",
	"log.level", "log.format",
}

// Load reads configuration from config.yaml (optional) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		names := []string{envName(key)}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	// Defaults
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com")
	v.SetDefault("crm.provider", "hubspot")
	v.SetDefault("crm.max_pages", 20)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("oracle.searcher", "openai")
	v.SetDefault("oracle.classifier", "openai")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("jina.max_chars", 4000)
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("run.test_mode", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "categorizer.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.CategoryList = categoryList(v.Get("categories"))

	return &cfg, nil
}

// categoryList splits string values on commas and keeps list items whole.
func categoryList(raw any) []string {
	switch t := raw.(type) {
	case string:
		return strings.Split(t, ",")
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else if item != nil {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	default:
		return nil
	}
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Categories returns the configured category list: trimmed, with empty
// entries dropped. Order is preserved.
func (c *Config) Categories() []string {
	var out []string
	for _, name := range c.CategoryList {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ValidateCRM checks the settings needed to reach the CRM.
func (c *Config) ValidateCRM() error {
	return missingErr(c.missingCRM())
}

// ValidateMembers checks the settings needed to list members of a CRM list.
func (c *Config) ValidateMembers() error {
	missing := c.missingCRM()
	if c.CRM.ListID == "" {
		missing = append(missing, labeled("crm.list_id"))
	}
	return missingErr(missing)
}

// ValidateContact checks the settings needed to categorize a single contact.
func (c *Config) ValidateContact() error {
	return missingErr(c.missingContact())
}

// Validate checks everything a batch run needs and reports every missing
// setting at once.
func (c *Config) Validate() error {
	missing := c.missingCRM()
	if c.CRM.ListID == "" {
		missing = append(missing, labeled("crm.list_id"))
	}
	missing = append(missing, c.missingPipeline()...)
	return missingErr(missing)
}

// ContextFieldConfigured reports whether web context will be stored.
func (c *Config) ContextFieldConfigured() bool {
	return c.CRM.ContextField != ""
}

func (c *Config) missingContact() []string {
	return append(c.missingCRM(), c.missingPipeline()...)
}

func (c *Config) missingCRM() []string {
	var missing []string
	switch c.CRM.Provider {
	case "", "hubspot":
		if c.HubSpot.Token == "" {
			missing = append(missing, labeled("hubspot.token"))
		}
	case "salesforce":
		if c.Salesforce.ClientID == "" {
			missing = append(missing, labeled("salesforce.client_id"))
		}
		if c.Salesforce.Username == "" {
			missing = append(missing, labeled("salesforce.username"))
		}
		if c.Salesforce.KeyPath == "" {
			missing = append(missing, labeled("salesforce.key_path"))
		}
	default:
		missing = append(missing, "crm.provider (unknown: "+c.CRM.Provider+")")
	}
	return missing
}

func (c *Config) missingPipeline() []string {
	var missing []string
	if c.CRM.CategoryField == "" {
		missing = append(missing, labeled("crm.category_field"))
	}

	openAINeeded := false
	switch c.Oracle.Searcher {
	case "", "openai":
		openAINeeded = true
	case "perplexity":
		if c.Perplexity.Key == "" {
			missing = append(missing, labeled("perplexity.key"))
		}
	case "jina":
		if c.Jina.Key == "" {
			missing = append(missing, labeled("jina.key"))
		}
	case "gemini":
		if c.Gemini.Key == "" {
			missing = append(missing, labeled("gemini.key"))
		}
	default:
		missing = append(missing, "oracle.searcher (unknown: "+c.Oracle.Searcher+")")
	}
	switch c.Oracle.Classifier {
	case "", "openai":
		openAINeeded = true
	case "anthropic":
		if c.Anthropic.Key == "" {
			missing = append(missing, labeled("anthropic.key"))
		}
	default:
		missing = append(missing, "oracle.classifier (unknown: "+c.Oracle.Classifier+")")
	}
	if openAINeeded && c.OpenAI.Key == "" {
		missing = append(missing, labeled("openai.key"))
	}

	if len(c.Categories()) == 0 {
		missing = append(missing, labeled("categories")+" (resulted in empty list)")
	}
	if c.Prompts.System == "" {
		missing = append(missing, labeled("prompts.system"))
	}
	if c.Prompts.User == "" {
		missing = append(missing, labeled("prompts.user"))
	}
	if c.Prompts.Search == "" {
		missing = append(missing, labeled("prompts.search"))
	}
	return missing
}

// labeled renders a key with the legacy env name operators may know it by.
func labeled(key string) string {
	if legacy, ok := legacyEnv[key]; ok {
		return key + " (" + legacy + ")"
	}
	return key
}

func missingErr(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &gateway.ConfigurationError{Missing: missing}
}

// InitLogger sets the global zap logger from the log config.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
