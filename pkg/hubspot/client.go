// Package hubspot provides the HubSpot CRM v3 operations used by the
// categorizer: list membership pages and contact property reads/writes.
package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-categorizer/pkg/gateway"
)

const (
	// DefaultBaseURL is the public HubSpot API host.
	DefaultBaseURL = "https://api.hubapi.com"

	// PageSize is the membership page size requested from the list endpoint.
	PageSize = 100
)

// Client defines the HubSpot operations used by the pipeline.
type Client interface {
	// MembershipPage fetches one page of list memberships. endpoint is a
	// path+query relative to the base URL.
	MembershipPage(ctx context.Context, endpoint string) (*MembershipPage, error)
	// GetContact returns the requested properties of a contact.
	GetContact(ctx context.Context, contactID string, properties []string) (map[string]string, error)
	// UpdateContact writes the given properties and leaves all others untouched.
	UpdateContact(ctx context.Context, contactID string, properties map[string]string) error
	// ResolveLink converts an absolute paging link into an endpoint usable by
	// MembershipPage. ok is false when the link is not on the client's host.
	ResolveLink(link string) (endpoint string, ok bool)
}

// MembershipPage is the response of GET /crm/v3/lists/{listId}/memberships.
type MembershipPage struct {
	Results []Member `json:"results"`
	Paging  *Paging  `json:"paging,omitempty"`
	Total   *int     `json:"total,omitempty"`
}

// NextLink returns the next-page link, or "" when this is the last page.
func (p *MembershipPage) NextLink() string {
	if p == nil || p.Paging == nil || p.Paging.Next == nil {
		return ""
	}
	return p.Paging.Next.Link
}

// Member is one list membership record.
type Member struct {
	RecordID json.RawMessage `json:"recordId"`
}

// ID renders the record ID as a string. HubSpot sends it as either a JSON
// string or a number; both are returned verbatim without parsing.
func (m Member) ID() (string, bool) {
	raw := strings.TrimSpace(string(m.RecordID))
	if raw == "" || raw == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(m.RecordID, &s); err == nil {
		return s, s != ""
	}
	return raw, true
}

// Paging holds the cursor for the next page.
type Paging struct {
	Next *NextPage `json:"next,omitempty"`
}

// NextPage is the next-page cursor.
type NextPage struct {
	After string `json:"after,omitempty"`
	Link  string `json:"link,omitempty"`
}

type contactResponse struct {
	ID         string             `json:"id"`
	Properties map[string]*string `json:"properties"`
}

type propertiesEnvelope struct {
	Properties map[string]string `json:"properties"`
}

type httpClient struct {
	gw *gateway.Gateway
}

// NewClient creates a HubSpot client backed by the given gateway.
func NewClient(gw *gateway.Gateway) Client {
	return &httpClient{gw: gw}
}

// NewGateway builds the gateway HubSpot clients use.
func NewGateway(token, baseURL string, opts ...gateway.Option) *gateway.Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return gateway.New("HubSpot", baseURL, token, opts...)
}

// FirstMembershipEndpoint returns the endpoint of the first membership page.
func FirstMembershipEndpoint(listID string) string {
	return fmt.Sprintf("/crm/v3/lists/%s/memberships?limit=%d", url.PathEscape(listID), PageSize)
}

func (c *httpClient) MembershipPage(ctx context.Context, endpoint string) (*MembershipPage, error) {
	var page MembershipPage
	if err := c.gw.Do(ctx, http.MethodGet, endpoint, nil, nil, &page); err != nil {
		return nil, eris.Wrap(err, "hubspot: membership page")
	}
	return &page, nil
}

func (c *httpClient) GetContact(ctx context.Context, contactID string, properties []string) (map[string]string, error) {
	q := url.Values{}
	if len(properties) > 0 {
		q.Set("properties", strings.Join(properties, ","))
	}

	var resp contactResponse
	if err := c.gw.Do(ctx, http.MethodGet, contactPath(contactID), nil, q, &resp); err != nil {
		return nil, eris.Wrapf(err, "hubspot: get contact %s", contactID)
	}

	props := make(map[string]string, len(resp.Properties))
	for k, v := range resp.Properties {
		if v != nil {
			props[k] = *v
		}
	}
	return props, nil
}

func (c *httpClient) UpdateContact(ctx context.Context, contactID string, properties map[string]string) error {
	if len(properties) == 0 {
		return eris.New("hubspot: no properties to update")
	}
	body := propertiesEnvelope{Properties: properties}
	if err := c.gw.Do(ctx, http.MethodPatch, contactPath(contactID), body, nil, nil); err != nil {
		return eris.Wrapf(err, "hubspot: update contact %s", contactID)
	}
	return nil
}

func (c *httpClient) ResolveLink(link string) (string, bool) {
	endpoint, ok := c.gw.Resolve(link)
	if !ok {
		return "", false
	}
	if !strings.Contains(endpoint, "limit=") {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += fmt.Sprintf("%slimit=%d", sep, PageSize)
	}
	return endpoint, true
}

func contactPath(contactID string) string {
	return "/crm/v3/objects/contacts/" + url.PathEscape(contactID)
}
