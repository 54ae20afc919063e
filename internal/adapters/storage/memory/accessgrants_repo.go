package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"workspace-access/internal/domain/access"
)

// grantRepo guarda copias (Clone) para que nadie comparta slices con el store.
// active es el índice único por tupla: como mucho un grant activo por Key.
type grantRepo struct {
	mu     sync.RWMutex
	byID   map[string]access.Grant
	active map[access.Key]string
}

func NewAccessGrantsRepo() access.Repository {
	return &grantRepo{
		byID:   make(map[string]access.Grant),
		active: make(map[access.Key]string),
	}
}

func (r *grantRepo) Create(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}
	if g.IsActive {
		if _, taken := r.active[g.Key()]; taken {
			return access.ErrDuplicateActive
		}
		r.active[g.Key()] = g.ID
	}
	r.byID[g.ID] = g.Clone()
	return nil
}

func (r *grantRepo) Update(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[g.ID]
	if !ok {
		return access.ErrGrantNotFound
	}
	if stored.Version != g.Version {
		return access.ErrStaleVersion
	}

	k := g.Key()
	if g.IsActive {
		if holder, taken := r.active[k]; taken && holder != g.ID {
			return access.ErrDuplicateActive
		}
		r.active[k] = g.ID
	} else if r.active[k] == g.ID {
		delete(r.active, k)
	}

	next := g.Clone()
	next.Version = g.Version + 1
	r.byID[g.ID] = next
	return nil
}

func (r *grantRepo) GetByID(ctx context.Context, id string) (access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return access.Grant{}, access.ErrGrantNotFound
	}
	return g.Clone(), nil
}

func (r *grantRepo) GetActive(ctx context.Context, k access.Key) (access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[k]
	if !ok {
		return access.Grant{}, access.ErrGrantNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *grantRepo) List(ctx context.Context, f access.ListFilter) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if f.Matches(g) {
			out = append(out, g.Clone())
		}
	}

	// orden estable: más viejos primero, como el ORDER BY de postgres
	sort.Slice(out, func(i, j int) bool {
		if out[i].GrantedAt.Equal(out[j].GrantedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].GrantedAt.Before(out[j].GrantedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *grantRepo) DeactivateExpired(ctx context.Context, organizationID string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, id := range r.active {
		g := r.byID[id]
		if organizationID != "" && g.OrganizationID != organizationID {
			continue
		}
		if g.ExpiresAt == nil || !g.ExpiresAt.Before(now) {
			continue
		}
		g.IsActive = false
		g.UpdatedAt = now
		g.Version++
		r.byID[id] = g
		delete(r.active, k)
		n++
	}
	return n, nil
}
