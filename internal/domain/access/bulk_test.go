package access

import (
	"context"
	"errors"
	"testing"
)

func TestBulkGrant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.grant(t, GrantInput{UserID: "u-2", ResourceType: "document", ResourceID: "doc-1"})

	res, err := f.svc.BulkGrant(ctx, BulkGrantInput{
		OrganizationID: "org-1",
		RequesterID:    "admin-1",
		UserIDs:        []string{"u-1", "u-2", "stranger", " ", "u-3"},
		ResourceType:   "document",
		ResourceID:     "doc-1",
		Permission:     PermissionEdit,
	})
	if err != nil {
		t.Fatalf("BulkGrant: %v", err)
	}
	if len(res.Success) != 2 {
		t.Fatalf("expected 2 created, got %d", len(res.Success))
	}
	if len(res.Updated) != 1 || res.Updated[0].UserID != "u-2" || res.Updated[0].Permission != PermissionEdit {
		t.Fatalf("expected u-2 updated, got %+v", res.Updated)
	}
	if len(res.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %+v", res.Failed)
	}
	if res.Failed[0].ID != "stranger" || res.Failed[0].Reason != "not a member of the organization" {
		t.Fatalf("unexpected failure: %+v", res.Failed[0])
	}

	acts := f.activity.actions()
	if acts[len(acts)-1] != "bulk_access_granted" {
		t.Fatalf("expected summary activity, got %v", acts)
	}
}

func TestBulkGrant_WholeRequestFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := BulkGrantInput{
		OrganizationID: "org-1",
		RequesterID:    "admin-1",
		UserIDs:        []string{"u-1"},
		ResourceType:   "document",
		ResourceID:     "doc-1",
		Permission:     PermissionView,
	}

	in := base
	in.RequesterID = "u-1"
	if _, err := f.svc.BulkGrant(ctx, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	in = base
	in.ResourceID = "missing"
	if _, err := f.svc.BulkGrant(ctx, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	in = base
	in.UserIDs = nil
	if _, err := f.svc.BulkGrant(ctx, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBulkRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.grant(t, GrantInput{UserID: "u-1", ResourceType: "document", ResourceID: "doc-1"})
	b := f.grant(t, GrantInput{UserID: "u-2", ResourceType: "document", ResourceID: "doc-1"})
	foreign := f.grant(t, GrantInput{OrganizationID: "org-2", RequesterID: "admin-2", UserID: "u-1", ResourceType: "document", ResourceID: "doc-2"})

	res, err := f.svc.BulkRevoke(ctx, BulkRevokeInput{
		OrganizationID: "org-1",
		RequesterID:    "admin-1",
		AccessIDs:      []string{a.ID, b.ID, a.ID, "missing", foreign.ID},
		Reason:         "cleanup",
	})
	if err != nil {
		t.Fatalf("BulkRevoke: %v", err)
	}
	if len(res.Success) != 2 {
		t.Fatalf("expected 2 revoked, got %v", res.Success)
	}

	reasons := map[string]string{}
	for _, fl := range res.Failed {
		reasons[fl.ID] = fl.Reason
	}
	if reasons[a.ID] != "already revoked" {
		t.Fatalf("duplicate id: %q", reasons[a.ID])
	}
	if reasons["missing"] != "not found" || reasons[foreign.ID] != "not found" {
		t.Fatalf("unexpected failures: %v", reasons)
	}

	got, _ := f.repo.GetByID(ctx, foreign.ID)
	if !got.IsActive {
		t.Fatalf("grant of another organization must not be revoked")
	}
}
