package httpdir

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace-access/internal/ports/workspace"

	"github.com/stretchr/testify/require"
)

// handlerTransport sirve los requests con h en el mismo proceso.
type handlerTransport http.HandlerFunc

func (h handlerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec.Result(), nil
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: "http://workspace.test", APIKey: "secret", Transport: handlerTransport(h)})
	require.NoError(t, err)
	require.True(t, c.IsConfigured())
	return c
}

func TestClient_Role(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/v1/organizations/org-1/members/admin-1/role":
			_ = json.NewEncoder(w).Encode(map[string]bool{"is_admin": true})
		case "/v1/organizations/org-1/members/u-9/role":
			_ = json.NewEncoder(w).Encode(map[string]bool{})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	role, err := c.Role(ctx, "org-1", "admin-1")
	require.NoError(t, err)
	require.True(t, role.IsAdmin && role.IsMember)

	role, err = c.Role(ctx, "org-1", "u-9")
	require.NoError(t, err)
	require.False(t, role.IsMember)

	_, err = c.Role(ctx, "org-x", "u-1")
	require.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestClient_LookupAndRelated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/resources/project/p-1":
			_, _ = w.Write([]byte(`{"id":"p-1","name":"Apollo","organization_id":"org-1","parent":{"type":"Team","id":"t-1"}}`))
		case "/v1/projects/p-1/related":
			_, _ = w.Write([]byte(`{"items":[{"type":"phase","id":"ph-1"},{"type":"sprint","id":""}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	res, err := c.Lookup("project").Lookup(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, "Apollo", res.Name)
	require.Equal(t, &workspace.ResourceRef{Type: "team", ID: "t-1"}, res.Parent)

	refs, err := c.Lookup("project").(workspace.RelatedLister).ListRelated(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, []workspace.ResourceRef{{Type: "phase", ID: "ph-1"}}, refs)

	_, err = c.Lookup("sprint").Lookup(ctx, "s-1")
	require.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestClient_OrganizationLookup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/organizations/org-1" {
			_, _ = w.Write([]byte(`{"id":"org-1","name":"Acme"}`))
			return
		}
		http.NotFound(w, r)
	})
	ctx := context.Background()

	org, err := c.Lookup("Organization").Lookup(ctx, "org-1")
	require.NoError(t, err)
	require.Equal(t, workspace.ResourceRef{Type: "organization", ID: "org-1"}, org.Ref)
	require.Equal(t, "Acme", org.Name)
	require.Equal(t, "org-1", org.OrganizationID)
	require.Nil(t, org.Parent)

	_, err = c.Lookup("organization").Lookup(ctx, "org-x")
	require.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestClient_UpstreamErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/resources/team/t-1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()

	_, err := c.Lookup("team").Lookup(ctx, "t-1")
	require.ErrorIs(t, err, ErrDirectoryUnauthorized)

	_, err = c.Role(ctx, "org-1", "u-1")
	require.ErrorIs(t, err, ErrDirectoryUpstream)
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)
	require.False(t, c.IsConfigured())

	_, err = c.Role(context.Background(), "org-1", "u-1")
	require.ErrorIs(t, err, ErrDirectoryNotConfigured)
}
