package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/internal/model"
	"github.com/sells-group/contact-categorizer/pkg/salesforce"
)

// salesforceRowsPerPage converts the page bound into a SOQL row limit so
// both CRM backends share one max_pages setting.
const salesforceRowsPerPage = 100

// SalesforceMembers lists the contacts of a Salesforce campaign. The list ID
// is the campaign ID.
type SalesforceMembers struct {
	client   salesforce.Client
	maxPages int
}

// NewSalesforceMembers creates a SalesforceMembers. maxPages <= 0 uses DefaultMaxPages.
func NewSalesforceMembers(client salesforce.Client, maxPages int) *SalesforceMembers {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &SalesforceMembers{client: client, maxPages: maxPages}
}

func (s *SalesforceMembers) FetchAllMemberIDs(ctx context.Context, listID string) []string {
	limit := s.maxPages * salesforceRowsPerPage
	ids, err := salesforce.CampaignContactIDs(ctx, s.client, listID, limit)
	if err != nil {
		zap.L().Warn("crm: campaign members failed", zap.String("list_id", listID), zap.Error(err))
		return []string{}
	}
	if len(ids) >= limit {
		zap.L().Warn("crm: row limit reached, campaign may have more members",
			zap.String("list_id", listID),
			zap.Int("limit", limit),
		)
	}
	zap.L().Info("crm: list members fetched", zap.String("list_id", listID), zap.Int("ids", len(ids)))
	return ids
}

// SalesforceRepository implements Repository over Salesforce Contacts. The
// logical company field maps to the parent Account's name.
type SalesforceRepository struct {
	client salesforce.Client
}

// NewSalesforceRepository creates a SalesforceRepository.
func NewSalesforceRepository(client salesforce.Client) *SalesforceRepository {
	return &SalesforceRepository{client: client}
}

func (r *SalesforceRepository) Get(ctx context.Context, contactID string, fields []string) (map[string]string, bool) {
	c, err := salesforce.FindContactByID(ctx, r.client, contactID)
	if err != nil {
		zap.L().Warn("crm: failed to retrieve contact", zap.String("contact_id", contactID), zap.Error(err))
		return nil, false
	}
	if c == nil {
		zap.L().Warn("crm: contact not found", zap.String("contact_id", contactID))
		return nil, false
	}

	all := map[string]string{
		model.FieldEmail:   c.Email,
		model.FieldCompany: c.AccountName(),
	}
	props := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := all[f]; ok && v != "" {
			props[f] = v
		}
	}
	return props, true
}

func (r *SalesforceRepository) Update(ctx context.Context, contactID, field, value string) bool {
	if err := salesforce.UpdateContact(ctx, r.client, contactID, map[string]any{field: value}); err != nil {
		zap.L().Warn("crm: failed to update contact",
			zap.String("contact_id", contactID),
			zap.String("field", field),
			zap.Error(err),
		)
		return false
	}
	zap.L().Info("crm: updated contact", zap.String("contact_id", contactID), zap.String("field", field))
	return true
}
