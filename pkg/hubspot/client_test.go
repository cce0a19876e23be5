package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(NewGateway("test-token", srv.URL)), srv
}

func TestMembershipPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/crm/v3/lists/42/memberships", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"results": [{"recordId": "101"}, {"recordId": 102}, {"membershipTimestamp": "x"}],
			"paging": {"next": {"after": "abc", "link": "https://example.invalid/next"}},
			"total": 3
		}`))
	})

	page, err := c.MembershipPage(context.Background(), FirstMembershipEndpoint("42"))
	require.NoError(t, err)
	require.Len(t, page.Results, 3)

	id, ok := page.Results[0].ID()
	assert.True(t, ok)
	assert.Equal(t, "101", id)

	id, ok = page.Results[1].ID()
	assert.True(t, ok)
	assert.Equal(t, "102", id)

	_, ok = page.Results[2].ID()
	assert.False(t, ok)

	assert.Equal(t, "https://example.invalid/next", page.NextLink())
	require.NotNil(t, page.Total)
	assert.Equal(t, 3, *page.Total)
}

func TestMembershipPage_Error(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"missing scopes"}`))
	})

	page, err := c.MembershipPage(context.Background(), FirstMembershipEndpoint("42"))
	require.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, err.Error(), "membership page")
}

func TestNextLink_LastPage(t *testing.T) {
	var page MembershipPage
	require.NoError(t, json.Unmarshal([]byte(`{"results":[]}`), &page))
	assert.Equal(t, "", page.NextLink())

	var nilPage *MembershipPage
	assert.Equal(t, "", nilPage.NextLink())
}

func TestGetContact(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/501", r.URL.Path)
		assert.Equal(t, "email,company", r.URL.Query().Get("properties"))
		_, _ = w.Write([]byte(`{"id":"501","properties":{"email":"jane@acme.com","company":null,"hs_object_id":"501"}}`))
	})

	props, err := c.GetContact(context.Background(), "501", []string{"email", "company"})
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", props["email"])
	_, hasCompany := props["company"]
	assert.False(t, hasCompany)
}

func TestUpdateContact(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/crm/v3/objects/contacts/501", r.URL.Path)

		var body map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"company_category": "SaaS"}, body["properties"])

		_, _ = w.Write([]byte(`{"id":"501","properties":{"company_category":"SaaS"}}`))
	})

	err := c.UpdateContact(context.Background(), "501", map[string]string{"company_category": "SaaS"})
	require.NoError(t, err)
}

func TestUpdateContact_NoProperties(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	err := c.UpdateContact(context.Background(), "501", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no properties")
}

func TestResolveLink(t *testing.T) {
	c := NewClient(NewGateway("tok", ""))

	endpoint, ok := c.ResolveLink("https://api.hubapi.com/crm/v3/lists/42/memberships?after=abc")
	assert.True(t, ok)
	assert.Equal(t, "/crm/v3/lists/42/memberships?after=abc&limit=100", endpoint)

	endpoint, ok = c.ResolveLink("https://api.hubapi.com/crm/v3/lists/42/memberships?after=abc&limit=25")
	assert.True(t, ok)
	assert.Equal(t, "/crm/v3/lists/42/memberships?after=abc&limit=25", endpoint)

	endpoint, ok = c.ResolveLink("https://api.hubapi.com/crm/v3/lists/42/memberships")
	assert.True(t, ok)
	assert.Equal(t, "/crm/v3/lists/42/memberships?limit=100", endpoint)

	_, ok = c.ResolveLink("https://other.example.com/crm/v3/lists/42/memberships?after=abc")
	assert.False(t, ok)
}
