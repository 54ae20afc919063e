package access

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CheckAccess(ctx, CheckInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if res.HasAccess || res.HasRequiredPermission {
		t.Fatalf("expected no access: %+v", res)
	}

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionEdit})

	cases := []struct {
		required Permission
		want     bool
	}{
		{"", true},
		{PermissionView, true},
		{PermissionEdit, true},
		{PermissionAdmin, false},
	}
	for _, tc := range cases {
		res, err := f.svc.CheckAccess(ctx, CheckInput{UserID: "u-1", ResourceType: "DOCUMENT", ResourceID: "doc-1", Required: tc.required})
		if err != nil {
			t.Fatalf("CheckAccess(%q): %v", tc.required, err)
		}
		if !res.HasAccess || res.GrantID != g.ID || res.Permission != PermissionEdit {
			t.Fatalf("unexpected result: %+v", res)
		}
		if res.HasRequiredPermission != tc.want {
			t.Fatalf("required=%q: got %v want %v", tc.required, res.HasRequiredPermission, tc.want)
		}
	}

	if _, err := f.svc.CheckAccess(ctx, CheckInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Required: "owner"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckAccess_HasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	for i := 0; i < 3; i++ {
		if _, err := f.svc.CheckAccess(ctx, CheckInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"}); err != nil {
			t.Fatalf("CheckAccess: %v", err)
		}
	}

	got, _ := f.repo.GetByID(ctx, g.ID)
	if got.AccessCount != 0 || len(got.AuditLog) != 1 || got.Version != g.Version {
		t.Fatalf("check must not mutate the grant: %+v", got)
	}
}

func TestCheckAccess_ExpiredButNotSwept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exp := f.clock.Now().Add(time.Hour)
	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", ExpiresAt: &exp})
	f.clock.Advance(2 * time.Hour)

	res, err := f.svc.CheckAccess(ctx, CheckInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if !res.IsExpired || res.HasAccess || res.HasRequiredPermission {
		t.Fatalf("expired grant must not grant access: %+v", res)
	}
}

func TestRecordAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})

	for i := 0; i < 2; i++ {
		if _, err := f.svc.RecordAccess(ctx, g.ID, "u-1"); err != nil {
			t.Fatalf("RecordAccess: %v", err)
		}
		f.clock.Advance(time.Minute)
	}
	got, _ := f.repo.GetByID(ctx, g.ID)
	if got.AccessCount != 2 || got.LastAccessedAt == nil {
		t.Fatalf("usage not recorded: %+v", got)
	}
	if len(got.AuditLog) != 1 {
		t.Fatalf("usage must not be audited, got %d entries", len(got.AuditLog))
	}

	if _, err := f.svc.RecordAccess(ctx, g.ID, "u-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Revoke(ctx, RevokeInput{GrantID: g.ID, RequesterID: "admin-1"}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := f.svc.RecordAccess(ctx, g.ID, "u-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on inactive grant, got %v", err)
	}
}
