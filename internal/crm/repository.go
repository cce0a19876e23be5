package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
	"github.com/sells-group/contact-categorizer/pkg/hubspot"
)

// HubSpotRepository implements Repository over the HubSpot contacts API.
type HubSpotRepository struct {
	client hubspot.Client
}

// NewHubSpotRepository creates a HubSpotRepository.
func NewHubSpotRepository(client hubspot.Client) *HubSpotRepository {
	return &HubSpotRepository{client: client}
}

func (r *HubSpotRepository) Get(ctx context.Context, contactID string, fields []string) (map[string]string, bool) {
	props, err := r.client.GetContact(ctx, contactID, fields)
	if err != nil {
		zap.L().Warn("crm: failed to retrieve contact",
			zap.String("contact_id", contactID),
			zap.String("error_class", gateway.ClassifyError(err)),
			zap.Error(err),
		)
		return nil, false
	}
	zap.L().Debug("crm: retrieved contact", zap.String("contact_id", contactID))
	return props, true
}

func (r *HubSpotRepository) Update(ctx context.Context, contactID, field, value string) bool {
	if err := r.client.UpdateContact(ctx, contactID, map[string]string{field: value}); err != nil {
		zap.L().Warn("crm: failed to update contact",
			zap.String("contact_id", contactID),
			zap.String("field", field),
			zap.String("error_class", gateway.ClassifyError(err)),
			zap.Error(err),
		)
		return false
	}
	zap.L().Info("crm: updated contact",
		zap.String("contact_id", contactID),
		zap.String("field", field),
	)
	return true
}
