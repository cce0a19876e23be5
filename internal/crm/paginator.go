package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
	"github.com/sells-group/contact-categorizer/pkg/hubspot"
)

// Paginator walks HubSpot list memberships page by page.
type Paginator struct {
	client   hubspot.Client
	maxPages int
}

// NewPaginator creates a Paginator. maxPages <= 0 uses DefaultMaxPages.
func NewPaginator(client hubspot.Client, maxPages int) *Paginator {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Paginator{client: client, maxPages: maxPages}
}

// MaxPages returns the page bound in effect.
func (p *Paginator) MaxPages() int { return p.maxPages }

// FetchAllMemberIDs follows next-page links until there are none, a page
// fails, a link points off-host, or the page bound is reached.
func (p *Paginator) FetchAllMemberIDs(ctx context.Context, listID string) []string {
	log := zap.L().With(zap.String("list_id", listID))

	ids := []string{}
	endpoint := hubspot.FirstMembershipEndpoint(listID)
	pages := 0
	var lastPage *hubspot.MembershipPage

	for endpoint != "" {
		if pages >= p.maxPages {
			log.Warn("crm: page limit reached, stopping pagination",
				zap.Int("max_pages", p.maxPages),
				zap.Int("ids", len(ids)),
			)
			break
		}
		pages++

		page, err := p.client.MembershipPage(ctx, endpoint)
		if err != nil {
			log.Warn("crm: membership page failed, stopping pagination",
				zap.Int("page", pages),
				zap.String("error_class", gateway.ClassifyError(err)),
				zap.Error(err),
			)
			break
		}
		lastPage = page

		for _, m := range page.Results {
			if id, ok := m.ID(); ok {
				ids = append(ids, id)
			}
		}

		endpoint = ""
		if link := page.NextLink(); link != "" {
			next, ok := p.client.ResolveLink(link)
			if !ok {
				log.Warn("crm: next page link does not match base URL, stopping pagination",
					zap.String("link", link),
				)
				break
			}
			endpoint = next
		}
	}

	fields := []zap.Field{
		zap.Int("ids", len(ids)),
		zap.Int("pages", pages),
	}
	if lastPage != nil && lastPage.Total != nil {
		fields = append(fields, zap.Int("reported_total", *lastPage.Total))
	}
	log.Info("crm: list members fetched", fields...)
	return ids
}
