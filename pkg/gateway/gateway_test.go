package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    string
		wantStatus int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"value":"ok"}`,
		},
		{
			name:       "not_found",
			status:     http.StatusNotFound,
			body:       `{"message":"resource not found"}`,
			wantErr:    "unexpected status 404",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server_error",
			status:     http.StatusInternalServerError,
			body:       `{"message":"boom"}`,
			wantErr:    "unexpected status 500",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "malformed_response",
			status:     http.StatusOK,
			body:       `{invalid json`,
			wantErr:    "unmarshal response",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := New("TestAPI", srv.URL, "test-token")

			var out struct {
				Value string `json:"value"`
			}
			err := g.Do(context.Background(), http.MethodGet, "/things/1", nil, nil, &out)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var rce *RemoteCallError
				require.True(t, errors.As(err, &rce))
				assert.Equal(t, "TestAPI", rce.Label)
				assert.Equal(t, srv.URL+"/things/1", rce.URL)
				assert.Equal(t, tt.wantStatus, rce.StatusCode)
				assert.Equal(t, tt.body, rce.Body)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "ok", out.Value)
		})
	}
}

func TestDo_MissingCredential(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	g := New("HubSpot", srv.URL, "")
	err := g.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "HubSpot credential")
	assert.Equal(t, int32(0), calls.Load())
}

func TestDo_BodyAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/objects/7", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "email,company", r.URL.Query().Get("properties"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "v", payload["k"])

		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := New("TestAPI", srv.URL+"/", "tok")
	q := url.Values{"properties": {"email,company"}}
	err := g.Do(context.Background(), http.MethodPatch, "/objects/7?limit=10", map[string]string{"k": "v"}, q, nil)
	require.NoError(t, err)
}

func TestDo_EmptyBodyAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	g := New("TestAPI", srv.URL, "tok")
	require.NoError(t, g.Do(context.Background(), http.MethodDelete, "/x", nil, nil, nil))
}

func TestDo_MalformedBodyWithoutTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	g := New("TestAPI", srv.URL, "tok")
	err := g.Do(context.Background(), http.MethodPatch, "/x", map[string]string{}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed response body")
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	g := New("TestAPI", addr, "tok")
	err := g.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)

	var rce *RemoteCallError
	require.True(t, errors.As(err, &rce))
	assert.Equal(t, 0, rce.StatusCode)
	assert.Contains(t, err.Error(), "send request")
}

func TestResolve(t *testing.T) {
	g := New("HubSpot", "https://api.hubapi.com", "tok")

	tests := []struct {
		link   string
		want   string
		wantOK bool
	}{
		{"https://api.hubapi.com/crm/v3/lists/1/memberships?after=abc", "/crm/v3/lists/1/memberships?after=abc", true},
		{"https://api.hubapi.com?after=1", "?after=1", true},
		{"https://evil.example.com/crm/v3/lists/1/memberships", "", false},
		{"https://api.hubapi.com.evil.net/crm", "", false},
		{"/crm/v3/lists/1/memberships", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, ok := g.Resolve(tt.link)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WithHTTPClient(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	hc := &http.Client{}
	g := New("Test", srv.URL+"/", "tok", WithHTTPClient(hc))
	assert.Equal(t, "Test", g.label)
	assert.Equal(t, srv.URL, g.baseURL)
	assert.Same(t, hc, g.http)

	require.NoError(t, g.Do(context.Background(), http.MethodGet, "/ping", nil, nil, nil))
	assert.Equal(t, "Bearer tok", gotAuth)
}
