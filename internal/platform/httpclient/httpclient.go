package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	// respuestas más grandes se truncan (errores) o fallan al decodificar
	maxBodyBytes = 1 << 20
)

var ErrNoBaseURL = errors.New("httpclient: base url not set")

// Client es el cliente JSON que comparten los adapters hacia servicios vecinos
// (Odin, directorio de workspace). Todos los paths son relativos a baseURL.
type Client struct {
	hc      *http.Client
	baseURL string
	headers http.Header
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithTransport reemplaza el RoundTripper (tests, proxies, mTLS).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.hc.Transport = rt
		}
	}
}

// WithHeader agrega un header fijo a cada request (p.ej. la API key).
// Claves o valores vacíos se ignoran.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key != "" && value != "" {
			c.headers.Set(key, value)
		}
	}
}

// New valida baseURL si viene. Un baseURL vacío deja el cliente "no configurado".
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		hc:      &http.Client{Timeout: DefaultTimeout},
		headers: http.Header{},
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		u, err := url.ParseRequestURI(baseURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("httpclient: invalid base url %q", baseURL)
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusOf devuelve el status de un *HTTPError envuelto en err, o 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, in, out any) error {
	return c.DoJSON(ctx, http.MethodPost, path, headers, in, out)
}

// DoJSON manda in como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
// Los headers por request pisan a los fijos del cliente.
func (c *Client) DoJSON(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	if c == nil || c.hc == nil {
		return errors.New("httpclient: nil client")
	}
	if c.baseURL == "" {
		return ErrNoBaseURL
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if strings.TrimSpace(k) != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}
