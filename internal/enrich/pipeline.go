// Package enrich runs the per-contact categorization pipeline and the
// sequential batch over a CRM list.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/crm"
	"github.com/sells-group/contact-categorizer/internal/model"
	"github.com/sells-group/contact-categorizer/internal/oracle"
)

// Ledger records run progress. A nil Ledger disables recording.
type Ledger interface {
	CreateRun(ctx context.Context, listID string, testMode bool) (*model.Run, error)
	RecordOutcome(ctx context.Context, runID string, result model.ContactResult) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary model.Summary) error
}

// Fields names the CRM properties the pipeline writes. ContextField may be
// empty; CategoryField is required for a contact to succeed.
type Fields struct {
	Category string
	Context  string
}

// Deps bundles the collaborators of a Pipeline.
type Deps struct {
	Members    crm.MemberSource
	Repo       crm.Repository
	Searcher   oracle.Searcher
	Classifier oracle.Classifier
	Ledger     Ledger
}

// Pipeline categorizes contacts. It holds no per-contact state and never
// caches CRM records between contacts or runs.
type Pipeline struct {
	deps       Deps
	fields     Fields
	categories []string
	prompts    oracle.Prompts
	now        func() time.Time
}

// New creates a Pipeline. The category list is copied so later changes by
// the caller do not affect a run.
func New(deps Deps, fields Fields, categories []string, prompts oracle.Prompts) *Pipeline {
	cats := make([]string, len(categories))
	copy(cats, categories)
	return &Pipeline{
		deps:       deps,
		fields:     fields,
		categories: cats,
		prompts:    prompts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Categories returns a copy of the pipeline's category list.
func (p *Pipeline) Categories() []string {
	out := make([]string, len(p.categories))
	copy(out, p.categories)
	return out
}

// ProcessContact runs fetch, search, context write, classify and category
// write for one contact. It never returns an error; the outcome says how far
// the contact got.
func (p *Pipeline) ProcessContact(ctx context.Context, contactID string) model.ContactResult {
	log := zap.L().With(zap.String("contact_id", contactID))
	res := model.ContactResult{
		ContactID:     contactID,
		ContextStatus: model.ContextNotAttempted,
		ProcessedAt:   p.now(),
	}

	props, ok := p.deps.Repo.Get(ctx, contactID, []string{model.FieldEmail, model.FieldCompany})
	if !ok {
		log.Warn("enrich: skipping contact, fetch failed")
		res.Outcome = model.OutcomeSkippedFetchFailed
		return res
	}

	contact := model.ContactFromProperties(contactID, props)
	identifier := contact.CompanyIdentifier()
	if identifier == "" {
		log.Warn("enrich: skipping contact, no company name or email domain")
		res.Outcome = model.OutcomeSkippedNoIdentifier
		return res
	}
	res.Identifier = identifier
	log = log.With(zap.String("company", identifier))

	query := p.prompts.SearchQuery(contact.SearchSubject())
	webContext, found := p.deps.Searcher.SearchContext(ctx, query)
	if !found {
		log.Info("enrich: no web context found, using fallback")
		webContext = model.FallbackContext
		res.ContextFallback = true
	}

	if p.fields.Context == "" {
		log.Warn("enrich: context field not configured, skipping context storage")
		res.ContextStatus = model.ContextUnconfigured
	} else if p.deps.Repo.Update(ctx, contactID, p.fields.Context, webContext) {
		res.ContextStatus = model.ContextWritten
	} else {
		log.Warn("enrich: failed to store web context, continuing with categorization",
			zap.String("field", p.fields.Context),
		)
		res.ContextStatus = model.ContextWriteFailed
	}

	category := p.deps.Classifier.Classify(ctx, identifier, webContext, p.categories)
	res.Category = category
	log.Info("enrich: category determined", zap.String("category", category))

	switch {
	case p.fields.Category == "":
		log.Error("enrich: category field not configured, cannot store category")
		res.Outcome = model.OutcomeSkippedNoCategoryField
	case p.deps.Repo.Update(ctx, contactID, p.fields.Category, category):
		res.Outcome = model.OutcomeSucceeded
	default:
		log.Error("enrich: failed to store category",
			zap.String("field", p.fields.Category),
			zap.String("category", category),
		)
		res.Outcome = model.OutcomeFailedCategoryWrite
	}
	return res
}

// Run processes every member of a list in order. In test mode it stops
// after the first contact. Contact failures are recorded in the summary and
// never abort the batch; cancellation of ctx stops it between contacts.
func (p *Pipeline) Run(ctx context.Context, listID string, testMode bool) model.Summary {
	log := zap.L().With(zap.String("list_id", listID))
	summary := model.Summary{
		ListID:   listID,
		TestMode: testMode,
		Results:  []model.ContactResult{},
	}

	ledger := p.deps.Ledger
	if ledger != nil {
		run, err := ledger.CreateRun(ctx, listID, testMode)
		if err != nil {
			log.Warn("enrich: could not create run record, continuing without ledger", zap.Error(err))
			ledger = nil
		} else {
			summary.RunID = run.ID
		}
	}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	log = log.With(zap.String("run_id", summary.RunID))

	ids := p.deps.Members.FetchAllMemberIDs(ctx, listID)
	summary.Total = len(ids)
	if len(ids) == 0 {
		log.Info("enrich: no contacts found in list")
		p.complete(ctx, ledger, model.RunStatusComplete, summary)
		return summary
	}
	log.Info("enrich: processing contacts", zap.Int("total", len(ids)), zap.Bool("test_mode", testMode))

	status := model.RunStatusComplete
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn("enrich: run interrupted", zap.Int("processed", i), zap.Error(err))
			status = model.RunStatusFailed
			break
		}

		res := p.ProcessContact(ctx, id)
		summary.Attempted++
		if res.Outcome.Succeeded() {
			summary.Succeeded++
		}
		summary.Results = append(summary.Results, res)

		if ledger != nil {
			if err := ledger.RecordOutcome(ctx, summary.RunID, res); err != nil {
				log.Warn("enrich: failed to record outcome", zap.String("contact_id", id), zap.Error(err))
			}
		}

		if testMode {
			log.Info("enrich: test mode, stopping after first contact")
			break
		}
	}

	log.Info("enrich: run finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("attempted", summary.Attempted),
		zap.Int("total", summary.Total),
	)
	if testMode {
		log.Info("enrich: test mode was on; only the first contact was processed")
	}

	p.complete(ctx, ledger, status, summary)
	return summary
}

func (p *Pipeline) complete(ctx context.Context, ledger Ledger, status model.RunStatus, summary model.Summary) {
	if ledger == nil {
		return
	}
	// The run context may already be cancelled; the final status still needs writing.
	if err := ledger.CompleteRun(context.WithoutCancel(ctx), summary.RunID, status, summary); err != nil {
		zap.L().Warn("enrich: failed to complete run record", zap.String("run_id", summary.RunID), zap.Error(err))
	}
}
