package odin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type handlerTransport http.HandlerFunc

func (h handlerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec.Result(), nil
}

func newOdin(t *testing.T) *Verifier {
	t.Helper()
	odin := handlerTransport(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/verify" || r.Header.Get("X-Api-Key") != "key" || r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(verifyResponse{UserID: " u-1 ", Email: "u1@example.com", OrganizationID: "org-1"})
		case "anon":
			_ = json.NewEncoder(w).Encode(verifyResponse{})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	c, err := NewClient(Config{BaseURL: "http://odin.test", APIKey: "key", Transport: odin})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewVerifier(c)
}

func TestVerifier_Verify(t *testing.T) {
	v := newOdin(t)
	ctx := context.Background()

	claims, err := v.Verify(ctx, "good")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.OrganizationID != "org-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := v.Verify(ctx, "bad"); !errors.Is(err, ErrOdinUnauthorized) {
		t.Fatalf("expected ErrOdinUnauthorized, got %v", err)
	}
	if _, err := v.Verify(ctx, "anon"); !errors.Is(err, ErrOdinUpstream) {
		t.Fatalf("expected ErrOdinUpstream, got %v", err)
	}
	if _, err := v.Verify(ctx, "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestVerifier_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := NewVerifier(c).Verify(context.Background(), "tok"); !errors.Is(err, ErrOdinNotConfigured) {
		t.Fatalf("expected ErrOdinNotConfigured, got %v", err)
	}
}
