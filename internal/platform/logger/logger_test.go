package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStdLogger_JSON_IncludesBaseAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Format: FormatJSON, App: "workspace-access", Output: &buf})

	l.With(map[string]any{"request_id": "r-1"}).Info("grant issued", map[string]any{
		"grant_id": "g-1",
		"err":      errors.New("boom"),
	})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if entry["app"] != "workspace-access" || entry["request_id"] != "r-1" || entry["grant_id"] != "g-1" {
		t.Fatalf("missing fields: %#v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %#v", entry["err"])
	}
	if entry["level"] != "info" {
		t.Fatalf("expected level info, got %v", entry["level"])
	}
}

func TestStdLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Output: &buf})

	l.Info("ignored", nil)
	l.Debug("ignored", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}

	l.Warn("kept", map[string]any{"k": "v"})
	if !strings.Contains(buf.String(), "msg=kept") || !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestFromContext_FallsBack(t *testing.T) {
	fallback := Nop()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}

	var buf bytes.Buffer
	reqLogger := New(Options{Output: &buf})
	ctx := WithContext(context.Background(), reqLogger)
	FromContext(ctx, fallback).Info("from ctx", nil)
	if !strings.Contains(buf.String(), "from ctx") {
		t.Fatalf("expected request logger to be used")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if ParseLevel("WARNING") != Warn || ParseLevel("nope") != Info {
		t.Fatalf("unexpected level parsing")
	}
	if ParseFormat(" JSON ") != FormatJSON || ParseFormat("") != FormatText {
		t.Fatalf("unexpected format parsing")
	}
}
