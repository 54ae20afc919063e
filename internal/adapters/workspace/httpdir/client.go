package httpdir

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"workspace-access/internal/platform/httpclient"
	"workspace-access/internal/ports/workspace"
)

var (
	ErrDirectoryNotConfigured = errors.New("workspace directory not configured")
	ErrDirectoryUnauthorized  = errors.New("workspace directory unauthorized")
	ErrDirectoryUpstream      = errors.New("workspace directory upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	// Transport opcional; nil usa http.DefaultTransport.
	Transport http.RoundTripper
}

// Client consulta el servicio de workspace (organizaciones, membresías, recursos).
type Client struct {
	http      *httpclient.Client
	hasAPIKey bool
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	hc, err := httpclient.New(cfg.BaseURL,
		httpclient.WithTimeout(timeout),
		httpclient.WithTransport(cfg.Transport),
		httpclient.WithHeader(h, apiKey),
	)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, hasAPIKey: apiKey != ""}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http.BaseURL() != "" && c.hasAPIKey
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if !c.IsConfigured() {
		return ErrDirectoryNotConfigured
	}
	err := c.http.GetJSON(ctx, path, out)
	if err == nil {
		return nil
	}

	switch httpclient.StatusOf(err) {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, workspace.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrDirectoryUnauthorized
	}
	return fmt.Errorf("%w: %v", ErrDirectoryUpstream, err)
}

type roleResponse struct {
	IsSuperAdmin bool `json:"is_super_admin"`
	IsAdmin      bool `json:"is_admin"`
	IsMember     bool `json:"is_member"`
}

// Role: GET /v1/organizations/{org}/members/{user}/role.
// 404 significa organización inexistente; un no-miembro responde 200 con todo en false.
func (c *Client) Role(ctx context.Context, organizationID, userID string) (workspace.OrgRole, error) {
	var out roleResponse
	path := fmt.Sprintf("/v1/organizations/%s/members/%s/role", url.PathEscape(organizationID), url.PathEscape(userID))
	if err := c.get(ctx, path, &out); err != nil {
		return workspace.OrgRole{}, err
	}
	return workspace.OrgRole{
		IsSuperAdmin: out.IsSuperAdmin,
		IsAdmin:      out.IsAdmin,
		IsMember:     out.IsMember || out.IsAdmin || out.IsSuperAdmin,
	}, nil
}

type refPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type resourceResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	OrganizationID string      `json:"organization_id"`
	Parent         *refPayload `json:"parent,omitempty"`
}

type relatedResponse struct {
	Items []refPayload `json:"items"`
}

// Lookup devuelve el ResourceLookup de un tipo; el de "project" también lista relacionados.
func (c *Client) Lookup(resourceType string) workspace.ResourceLookup {
	t := strings.ToLower(strings.TrimSpace(resourceType))
	switch t {
	case "organization":
		return organizationLookup{c: c}
	case "project":
		return projectLookup{typeLookup{c: c, resourceType: t}}
	}
	return typeLookup{c: c, resourceType: t}
}

type organizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// organizationLookup es la raíz de la cadena de dueños: no tiene parent.
type organizationLookup struct {
	c *Client
}

// Lookup: GET /v1/organizations/{id}.
func (l organizationLookup) Lookup(ctx context.Context, organizationID string) (workspace.Resource, error) {
	var out organizationResponse
	if err := l.c.get(ctx, "/v1/organizations/"+url.PathEscape(organizationID), &out); err != nil {
		return workspace.Resource{}, err
	}
	return workspace.Resource{
		Ref:            workspace.ResourceRef{Type: "organization", ID: organizationID},
		Name:           out.Name,
		OrganizationID: organizationID,
	}, nil
}

type typeLookup struct {
	c            *Client
	resourceType string
}

// Lookup: GET /v1/resources/{type}/{id}.
func (l typeLookup) Lookup(ctx context.Context, resourceID string) (workspace.Resource, error) {
	var out resourceResponse
	path := fmt.Sprintf("/v1/resources/%s/%s", url.PathEscape(l.resourceType), url.PathEscape(resourceID))
	if err := l.c.get(ctx, path, &out); err != nil {
		return workspace.Resource{}, err
	}

	id := strings.TrimSpace(out.ID)
	if id == "" {
		id = resourceID
	}
	res := workspace.Resource{
		Ref:            workspace.ResourceRef{Type: l.resourceType, ID: id},
		Name:           out.Name,
		OrganizationID: out.OrganizationID,
	}
	if out.Parent != nil && out.Parent.ID != "" {
		res.Parent = &workspace.ResourceRef{Type: strings.ToLower(out.Parent.Type), ID: out.Parent.ID}
	}
	return res, nil
}

type projectLookup struct {
	typeLookup
}

// ListRelated: GET /v1/projects/{id}/related.
func (l projectLookup) ListRelated(ctx context.Context, projectID string) ([]workspace.ResourceRef, error) {
	var out relatedResponse
	if err := l.c.get(ctx, fmt.Sprintf("/v1/projects/%s/related", url.PathEscape(projectID)), &out); err != nil {
		return nil, err
	}
	refs := make([]workspace.ResourceRef, 0, len(out.Items))
	for _, it := range out.Items {
		if it.ID == "" {
			continue
		}
		refs = append(refs, workspace.ResourceRef{Type: strings.ToLower(it.Type), ID: it.ID})
	}
	return refs, nil
}
