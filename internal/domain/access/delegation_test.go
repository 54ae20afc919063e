package access

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelegate_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionEdit, CanDelegate: true})

	out, err := f.svc.Delegate(ctx, DelegateInput{GrantID: g.ID, RequesterID: "u-1", TargetUserID: "u-2", Permission: PermissionView})
	if err != nil {
		t.Fatalf("Delegate: %v", err)
	}
	if len(out.Delegations) != 1 {
		t.Fatalf("expected 1 delegation, got %d", len(out.Delegations))
	}
	d := out.Delegations[0]
	if d.TargetUserID != "u-2" || d.Permission != PermissionView || d.DelegatedBy != "u-1" || d.Revoked {
		t.Fatalf("unexpected delegation: %+v", d)
	}
	if last := out.AuditLog[len(out.AuditLog)-1]; last.Action != AuditDelegated || last.Details["targetUserId"] != "u-2" {
		t.Fatalf("audit: %+v", last)
	}

	// El techo se evalúa antes que la identidad: incluso un admin recibe Conflict.
	if _, err := f.svc.Delegate(ctx, DelegateInput{GrantID: g.ID, RequesterID: "admin-1", TargetUserID: "u-2", Permission: PermissionAdmin}); !errors.Is(err, ErrConflict) {
		t.Fatalf("ceiling: expected ErrConflict, got %v", err)
	}
	if _, err := f.svc.Delegate(ctx, DelegateInput{GrantID: g.ID, RequesterID: "admin-1", TargetUserID: "u-2", Permission: PermissionView}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner: expected ErrForbidden, got %v", err)
	}
}

func TestDelegate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	delegable := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionEdit, CanDelegate: true})
	locked := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "project", ResourceID: "p-1", Permission: PermissionEdit})
	revoked := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "phase", ResourceID: "ph-1", Permission: PermissionEdit, CanDelegate: true})
	if _, err := f.svc.Revoke(ctx, RevokeInput{GrantID: revoked.ID, RequesterID: "admin-1"}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	past := f.clock.Now().Add(-time.Minute)

	cases := []struct {
		name string
		in   DelegateInput
		want error
	}{
		{"cannot delegate", DelegateInput{GrantID: locked.ID, RequesterID: "u-1", TargetUserID: "u-2", Permission: PermissionView}, ErrForbidden},
		{"inactive grant", DelegateInput{GrantID: revoked.ID, RequesterID: "u-1", TargetUserID: "u-2", Permission: PermissionView}, ErrConflict},
		{"self delegation", DelegateInput{GrantID: delegable.ID, RequesterID: "u-1", TargetUserID: "u-1", Permission: PermissionView}, ErrInvalidInput},
		{"target not member", DelegateInput{GrantID: delegable.ID, RequesterID: "u-1", TargetUserID: "stranger", Permission: PermissionView}, ErrForbidden},
		{"past expiry", DelegateInput{GrantID: delegable.ID, RequesterID: "u-1", TargetUserID: "u-2", Permission: PermissionView, ExpiresAt: &past}, ErrInvalidInput},
		{"bad permission", DelegateInput{GrantID: delegable.ID, RequesterID: "u-1", TargetUserID: "u-2", Permission: "owner"}, ErrInvalidInput},
		{"missing grant", DelegateInput{GrantID: "nope", RequesterID: "u-1", TargetUserID: "u-2", Permission: PermissionView}, ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Delegate(ctx, tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRevokeDelegation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionAdmin, CanDelegate: true})
	for _, target := range []string{"u-2", "u-3"} {
		if _, err := f.svc.Delegate(ctx, DelegateInput{GrantID: g.ID, RequesterID: "u-1", TargetUserID: target, Permission: PermissionEdit}); err != nil {
			t.Fatalf("Delegate(%s): %v", target, err)
		}
	}

	if _, err := f.svc.RevokeDelegation(ctx, g.ID, "u-2", "u-3"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unrelated member: expected ErrForbidden, got %v", err)
	}

	out, err := f.svc.RevokeDelegation(ctx, g.ID, "u-2", "u-1")
	if err != nil {
		t.Fatalf("owner RevokeDelegation: %v", err)
	}
	if !out.Delegations[0].Revoked || out.Delegations[0].RevokedAt == nil {
		t.Fatalf("expected first delegation revoked: %+v", out.Delegations[0])
	}
	if out.Delegations[1].Revoked {
		t.Fatalf("other delegation must stay live")
	}

	if _, err := f.svc.RevokeDelegation(ctx, g.ID, "u-2", "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("already revoked: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.RevokeDelegation(ctx, g.ID, "u-3", "admin-1"); err != nil {
		t.Fatalf("admin RevokeDelegation: %v", err)
	}
}

func TestActiveDelegation(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g := Grant{Delegations: []Delegation{
		{TargetUserID: "u-2", Permission: PermissionView, ExpiresAt: ptrTime(now.Add(-time.Hour))},
		{TargetUserID: "u-2", Permission: PermissionEdit},
		{TargetUserID: "u-3", Permission: PermissionView, Revoked: true},
	}}

	d, ok := ActiveDelegation(g, "u-2", now)
	if !ok || d.Permission != PermissionEdit {
		t.Fatalf("expected live edit delegation, got %+v ok=%v", d, ok)
	}
	if _, ok := ActiveDelegation(g, "u-3", now); ok {
		t.Fatalf("revoked delegation must not be live")
	}
	if _, ok := ActiveDelegation(g, "u-4", now); ok {
		t.Fatalf("unknown user must not have a delegation")
	}
}
