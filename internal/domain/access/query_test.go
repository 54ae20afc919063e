package access

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUserAccess_GroupsByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "phase", ResourceID: "ph-1"})
	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "phase", ResourceID: "ph-2"})
	revoked := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "sprint", ResourceID: "s-1"})
	if _, err := f.svc.Revoke(ctx, RevokeInput{GrantID: revoked.ID, RequesterID: "admin-1"}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	grouped, err := f.svc.UserAccess(ctx, "org-1", "u-1", "u-1")
	if err != nil {
		t.Fatalf("UserAccess: %v", err)
	}
	if len(grouped[ResourceDocument]) != 1 || len(grouped[ResourcePhase]) != 2 || len(grouped[ResourceSprint]) != 0 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}

	if _, err := f.svc.UserAccess(ctx, "org-1", "u-1", "u-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.UserAccess(ctx, "org-1", "u-1", "admin-1"); err != nil {
		t.Fatalf("admin UserAccess: %v", err)
	}
	if _, err := f.svc.UserAccess(ctx, "org-x", "u-1", "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResourceAccess_GroupsByPermission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionAdmin})
	f.grant(t, GrantInput{UserID: "u-2", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionView})
	f.grant(t, GrantInput{UserID: "u-3", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionView})

	grouped, err := f.svc.ResourceAccess(ctx, "org-1", "document", "doc-1", "admin-1")
	if err != nil {
		t.Fatalf("ResourceAccess: %v", err)
	}
	if len(grouped[PermissionAdmin]) != 1 || len(grouped[PermissionView]) != 2 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
	if edit, ok := grouped[PermissionEdit]; !ok || len(edit) != 0 {
		t.Fatalf("every permission bucket should be present")
	}
}

func TestMyAccessAndListGrants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	f.grant(t, GrantInput{OrganizationID: "org-2", RequesterID: "admin-2", UserID: "u-1", ResourceType: "document", ResourceID: "doc-2"})
	f.grant(t, GrantInput{UserID: "u-2", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionEdit})

	mine, err := f.svc.MyAccess(ctx, "u-1")
	if err != nil || len(mine) != 2 {
		t.Fatalf("MyAccess: %d err=%v", len(mine), err)
	}

	items, err := f.svc.ListGrants(ctx, "admin-1", ListFilter{OrganizationID: "org-1", Permission: PermissionEdit})
	if err != nil {
		t.Fatalf("ListGrants: %v", err)
	}
	if len(items) != 1 || items[0].UserID != "u-2" {
		t.Fatalf("unexpected list: %+v", items)
	}
	if _, err := f.svc.ListGrants(ctx, "u-1", ListFilter{OrganizationID: "org-1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGetGrant_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})

	if _, err := f.svc.GetGrant(ctx, g.ID, "u-1"); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if _, err := f.svc.GetGrant(ctx, g.ID, "admin-1"); err != nil {
		t.Fatalf("admin: %v", err)
	}
	if _, err := f.svc.GetGrant(ctx, g.ID, "u-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.GetGrant(ctx, "missing", "admin-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soon := f.clock.Now().Add(time.Hour)
	f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1", Permission: PermissionEdit})
	f.grant(t, GrantInput{UserID: "u-2", ResourceType: "document", ResourceID: "doc-1", ExpiresAt: &soon})
	r := f.grant(t, GrantInput{UserID: "u-3", ResourceType: "phase", ResourceID: "ph-1"})
	if _, err := f.svc.Revoke(ctx, RevokeInput{GrantID: r.ID, RequesterID: "admin-1"}); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	f.clock.Advance(2 * time.Hour)

	st, err := f.svc.Stats(ctx, "org-1", "admin-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 3 || st.Active != 2 || st.Inactive != 1 || st.Expired != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.ByPermission[PermissionEdit] != 1 || st.ByPermission[PermissionView] != 1 || st.ByResource[ResourceDocument] != 2 {
		t.Fatalf("unexpected breakdown: %+v", st)
	}
}

func TestTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})

	out, err := f.svc.AddTag(ctx, g.ID, " vip ", "admin-1")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if !out.HasTag("vip") || len(out.AuditLog) != 2 {
		t.Fatalf("unexpected: tags=%v audit=%d", out.Tags, len(out.AuditLog))
	}

	again, err := f.svc.AddTag(ctx, g.ID, "vip", "admin-1")
	if err != nil {
		t.Fatalf("AddTag again: %v", err)
	}
	if len(again.Tags) != 1 || len(again.AuditLog) != 2 {
		t.Fatalf("AddTag must be idempotent: tags=%v audit=%d", again.Tags, len(again.AuditLog))
	}

	removed, err := f.svc.RemoveTag(ctx, g.ID, "vip", "admin-1")
	if err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	if removed.HasTag("vip") || removed.AuditLog[len(removed.AuditLog)-1].Action != AuditTagRemoved {
		t.Fatalf("unexpected: %+v", removed)
	}

	if _, err := f.svc.AddTag(ctx, g.ID, "x", "u-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.AddTag(ctx, g.ID, " ", "admin-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
