package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/config"
	"github.com/sells-group/contact-categorizer/internal/crm"
	"github.com/sells-group/contact-categorizer/internal/enrich"
	"github.com/sells-group/contact-categorizer/internal/oracle"
	"github.com/sells-group/contact-categorizer/internal/store"
	"github.com/sells-group/contact-categorizer/pkg/anthropic"
	"github.com/sells-group/contact-categorizer/pkg/gemini"
	"github.com/sells-group/contact-categorizer/pkg/hubspot"
	"github.com/sells-group/contact-categorizer/pkg/jina"
	"github.com/sells-group/contact-categorizer/pkg/openai"
	"github.com/sells-group/contact-categorizer/pkg/perplexity"
	"github.com/sells-group/contact-categorizer/pkg/salesforce"
)

// categorizerEnv holds everything the run and contact commands need.
type categorizerEnv struct {
	Store    store.Store // nil when the ledger is disabled
	Pipeline *enrich.Pipeline
}

// Close releases resources held by the environment.
func (e *categorizerEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initPipeline validates config, opens the ledger, and wires the CRM and
// oracle backends into a Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, c *config.Config, validate func() error) (*categorizerEnv, error) {
	if err := validate(); err != nil {
		return nil, err
	}
	if !c.ContextFieldConfigured() {
		zap.L().Warn("crm.context_field (HUBSPOT_COMPANY_CONTEXT_PROPERTY_INTERNAL_NAME) is not set; web context will not be stored")
	}

	members, repo, err := initCRM(c)
	if err != nil {
		return nil, err
	}
	searcher, classifier, err := initOracle(ctx, c)
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx, c)
	if err != nil {
		return nil, err
	}

	deps := enrich.Deps{
		Members:    members,
		Repo:       repo,
		Searcher:   searcher,
		Classifier: classifier,
	}
	if st != nil {
		deps.Ledger = st
	}

	p := enrich.New(deps,
		enrich.Fields{Category: c.CRM.CategoryField, Context: c.CRM.ContextField},
		c.Categories(),
		promptsFrom(c),
	)
	return &categorizerEnv{Store: st, Pipeline: p}, nil
}

func promptsFrom(c *config.Config) oracle.Prompts {
	return oracle.Prompts{
		System: c.Prompts.System,
		User:   c.Prompts.User,
		Search: c.Prompts.Search,
	}
}

// initCRM builds the member source and repository for the configured provider.
func initCRM(c *config.Config) (crm.MemberSource, crm.Repository, error) {
	switch c.CRM.Provider {
	case "", "hubspot":
		client := hubspot.NewClient(hubspot.NewGateway(c.HubSpot.Token, c.HubSpot.BaseURL))
		return crm.NewPaginator(client, c.CRM.MaxPages), crm.NewHubSpotRepository(client), nil
	case "salesforce":
		sf, err := initSalesforce(c)
		if err != nil {
			return nil, nil, err
		}
		return crm.NewSalesforceMembers(sf, c.CRM.MaxPages), crm.NewSalesforceRepository(sf), nil
	default:
		return nil, nil, eris.Errorf("unsupported crm provider: %s", c.CRM.Provider)
	}
}

func initSalesforce(c *config.Config) (salesforce.Client, error) {
	pemData, err := os.ReadFile(c.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}
	return salesforce.Connect(salesforce.Creds{
		LoginURL: c.Salesforce.LoginURL,
		Username: c.Salesforce.Username,
		ClientID: c.Salesforce.ClientID,
		KeyPEM:   string(pemData),
	})
}

// initOracle builds the configured searcher and classifier.
func initOracle(ctx context.Context, c *config.Config) (oracle.Searcher, oracle.Classifier, error) {
	var openaiClient openai.Client
	openAI := func() openai.Client {
		if openaiClient == nil {
			openaiClient = openai.NewClient(
				openai.NewGateway(c.OpenAI.Key, c.OpenAI.BaseURL),
				openai.WithModel(c.OpenAI.Model),
			)
		}
		return openaiClient
	}

	var searcher oracle.Searcher
	switch c.Oracle.Searcher {
	case "", "openai":
		searcher = oracle.NewOpenAISearcher(openAI())
	case "perplexity":
		searcher = oracle.NewPerplexitySearcher(perplexity.NewClient(
			perplexity.NewGateway(c.Perplexity.Key, c.Perplexity.BaseURL),
			perplexity.WithModel(c.Perplexity.Model),
		))
	case "jina":
		searcher = oracle.NewJinaSearcher(jina.NewClient(jina.NewGateway(c.Jina.Key, c.Jina.SearchBaseURL)), c.Jina.MaxChars)
	case "gemini":
		gc, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  c.Gemini.Key,
			Model:   c.Gemini.Model,
			BaseURL: c.Gemini.BaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		searcher = oracle.NewGeminiSearcher(gc)
	default:
		return nil, nil, eris.Errorf("unsupported searcher: %s", c.Oracle.Searcher)
	}

	var classifier oracle.Classifier
	switch c.Oracle.Classifier {
	case "", "openai":
		classifier = oracle.NewOpenAIClassifier(openAI(), promptsFrom(c))
	case "anthropic":
		classifier = oracle.NewAnthropicClassifier(
			anthropic.NewClient(c.Anthropic.Key, anthropic.WithBaseURL(c.Anthropic.BaseURL)),
			promptsFrom(c),
			c.Anthropic.Model,
		)
	default:
		return nil, nil, eris.Errorf("unsupported classifier: %s", c.Oracle.Classifier)
	}

	zap.L().Debug("oracle backends selected",
		zap.String("searcher", c.Oracle.Searcher),
		zap.String("classifier", c.Oracle.Classifier),
	)
	return searcher, classifier, nil
}

// initStore opens and migrates the run ledger. It returns nil when the
// ledger is disabled.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	st, err := store.Open(ctx, c.Store.Driver, c.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// requireStore is initStore for commands that cannot work without a ledger.
func requireStore(ctx context.Context, c *config.Config) (store.Store, error) {
	st, err := initStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run ledger is disabled (store.driver: none)")
	}
	return st, nil
}
