package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workspace-access/internal/adapters/storage/memory"
	"workspace-access/internal/domain/access"

	"github.com/stretchr/testify/require"
)

func newGrant(id, user string) access.Grant {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return access.Grant{
		ID:             id,
		OrganizationID: "org-1",
		UserID:         user,
		ResourceType:   access.ResourceDocument,
		ResourceID:     "doc-1",
		Permission:     access.PermissionView,
		AccessType:     access.AccessDirect,
		GrantedAt:      now,
		IsActive:       true,
		Tags:           []string{"a"},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestGrantRepo_CreateRejectsSecondActive(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newGrant("g1", "u-1")))

	err := repo.Create(ctx, newGrant("g2", "u-1"))
	if !errors.Is(err, access.ErrDuplicateActive) {
		t.Fatalf("expected ErrDuplicateActive, got %v", err)
	}

	// Inactivo no compite por la tupla.
	inactive := newGrant("g3", "u-1")
	inactive.IsActive = false
	require.NoError(t, repo.Create(ctx, inactive))
}

func TestGrantRepo_UpdateIsCompareAndSwap(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	g := newGrant("g1", "u-1")
	require.NoError(t, repo.Create(ctx, g))

	g.Permission = access.PermissionEdit
	require.NoError(t, repo.Update(ctx, g))

	stored, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	if stored.Version != 2 || stored.Permission != access.PermissionEdit {
		t.Fatalf("unexpected stored grant: %+v", stored)
	}

	// g todavía tiene Version 1
	if err := repo.Update(ctx, g); !errors.Is(err, access.ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}

	missing := newGrant("nope", "u-1")
	if err := repo.Update(ctx, missing); !errors.Is(err, access.ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
}

func TestGrantRepo_ReactivationRespectsUniqueness(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	old := newGrant("g1", "u-1")
	require.NoError(t, repo.Create(ctx, old))
	old.IsActive = false
	require.NoError(t, repo.Update(ctx, old))
	old.Version++

	require.NoError(t, repo.Create(ctx, newGrant("g2", "u-1")))

	old.IsActive = true
	if err := repo.Update(ctx, old); !errors.Is(err, access.ErrDuplicateActive) {
		t.Fatalf("expected ErrDuplicateActive, got %v", err)
	}

	active, err := repo.GetActive(ctx, old.Key())
	require.NoError(t, err)
	if active.ID != "g2" {
		t.Fatalf("expected g2 active, got %s", active.ID)
	}
}

func TestGrantRepo_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newGrant("g1", "u-1")))

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	got.Tags[0] = "mutated"

	again, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	if again.Tags[0] != "a" {
		t.Fatalf("store shares memory with callers")
	}
}

func TestGrantRepo_ListFilterAndLimit(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	for i, u := range []string{"u-1", "u-2", "u-3"} {
		g := newGrant("g"+u, u)
		g.GrantedAt = g.GrantedAt.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, g))
	}

	items, err := repo.List(ctx, access.ListFilter{OrganizationID: "org-1", ActiveOnly: true, Limit: 2})
	require.NoError(t, err)
	if len(items) != 2 || items[0].UserID != "u-1" {
		t.Fatalf("unexpected list: %+v", items)
	}

	items, err = repo.List(ctx, access.ListFilter{UserID: "u-3"})
	require.NoError(t, err)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestGrantRepo_DeactivateExpired(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := newGrant("g1", "u-1")
	expired.ExpiresAt = &past
	live := newGrant("g2", "u-2")
	live.ExpiresAt = &future
	otherOrg := newGrant("g3", "u-3")
	otherOrg.OrganizationID = "org-2"
	otherOrg.ExpiresAt = &past

	for _, g := range []access.Grant{expired, live, otherOrg} {
		require.NoError(t, repo.Create(ctx, g))
	}

	n, err := repo.DeactivateExpired(ctx, "org-1", now)
	require.NoError(t, err)
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}

	n, err = repo.DeactivateExpired(ctx, "", now)
	require.NoError(t, err)
	if n != 1 {
		t.Fatalf("expected org-2 grant on global sweep, got %d", n)
	}

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	if got.IsActive || got.Version != 2 {
		t.Fatalf("unexpected swept grant: %+v", got)
	}
	if _, err := repo.GetActive(ctx, got.Key()); !errors.Is(err, access.ErrGrantNotFound) {
		t.Fatalf("swept grant should leave the active index, got %v", err)
	}
}

func TestGrantRepo_ConcurrentCreateSingleWinner(t *testing.T) {
	t.Parallel()

	repo := memory.NewAccessGrantsRepo()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := newGrant("g"+string(rune('a'+i)), "u-1")
			if err := repo.Create(ctx, g); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", winners)
	}
}
