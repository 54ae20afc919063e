package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workspace-access/internal/platform/httpclient"
	"workspace-access/internal/ports/auth"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

// Config del cliente Odin.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration

	// Transport opcional (tests, proxy corporativo).
	Transport http.RoundTripper
}

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

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
}

// VerifyToken: POST /v1/tokens/verify.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	// algunos IAM esperan el token también en Authorization
	headers := map[string]string{"Authorization": "Bearer " + token}

	var out verifyResponse
	err := c.http.PostJSON(ctx, "/v1/tokens/verify", headers, verifyRequest{Token: token}, &out)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, ErrOdinUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrOdinUpstream)
	}

	return auth.Claims{
		UserID:         out.UserID,
		Email:          strings.TrimSpace(out.Email),
		OrganizationID: strings.TrimSpace(out.OrganizationID),
	}, nil
}
