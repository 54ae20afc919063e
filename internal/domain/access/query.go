package access

import (
	"context"
	"sort"
	"strings"
	"time"

	"workspace-access/internal/ports/workspace"
)

func (s *Service) GetGrant(ctx context.Context, grantID, requesterID string) (Grant, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return Grant{}, invalid("requester required")
	}
	g, err := s.load(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}
	if err := s.requireOwnerOrAdmin(ctx, g, requesterID); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// ListGrants lista grants de una organización. Solo admins.
func (s *Service) ListGrants(ctx context.Context, requesterID string, filter ListFilter) ([]Grant, error) {
	filter.OrganizationID = strings.TrimSpace(filter.OrganizationID)
	if filter.OrganizationID == "" {
		return nil, invalid("organizationId required")
	}
	if filter.Permission != "" && !filter.Permission.Valid() {
		return nil, invalid("permission must be view, edit or admin")
	}
	filter.ResourceType = NormalizeResourceType(string(filter.ResourceType))
	filter.InheritedFrom = NormalizeResourceType(string(filter.InheritedFrom))

	if err := s.requireAdmin(ctx, filter.OrganizationID, requesterID); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internal("list grants", err)
	}
	sortRecentFirst(items)
	return items, nil
}

// UserAccess agrupa por resourceType los grants activos de un usuario.
// El propio usuario o un admin.
func (s *Service) UserAccess(ctx context.Context, orgID, userID, requesterID string) (map[ResourceType][]Grant, error) {
	orgID = strings.TrimSpace(orgID)
	userID = strings.TrimSpace(userID)
	requesterID = strings.TrimSpace(requesterID)
	if orgID == "" || userID == "" || requesterID == "" {
		return nil, invalid("organizationId and userId are required")
	}
	if requesterID == userID {
		if _, err := s.roleOf(ctx, orgID, userID); err != nil {
			return nil, err
		}
	} else if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, ListFilter{OrganizationID: orgID, UserID: userID, ActiveOnly: true})
	if err != nil {
		return nil, internal("list grants", err)
	}
	sortRecentFirst(items)

	out := map[ResourceType][]Grant{}
	for _, g := range items {
		out[g.ResourceType] = append(out[g.ResourceType], g)
	}
	return out, nil
}

// ResourceAccess agrupa por permiso quién tiene acceso activo a un recurso.
func (s *Service) ResourceAccess(ctx context.Context, orgID, resourceType, resourceID, requesterID string) (map[Permission][]Grant, error) {
	orgID = strings.TrimSpace(orgID)
	resourceID = strings.TrimSpace(resourceID)
	rt := NormalizeResourceType(resourceType)
	if orgID == "" || rt == "" || resourceID == "" {
		return nil, invalid("organizationId, resourceType and resourceId are required")
	}
	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return nil, err
	}

	items, err := s.repo.List(ctx, ListFilter{OrganizationID: orgID, ResourceType: rt, ResourceID: resourceID, ActiveOnly: true})
	if err != nil {
		return nil, internal("list grants", err)
	}
	sortRecentFirst(items)

	out := make(map[Permission][]Grant, 3)
	for _, p := range Permissions() {
		out[p] = []Grant{}
	}
	for _, g := range items {
		out[g.Permission] = append(out[g.Permission], g)
	}
	return out, nil
}

// MyAccess: grants activos del usuario en todas sus organizaciones.
func (s *Service) MyAccess(ctx context.Context, userID string) ([]Grant, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, invalid("user required")
	}
	items, err := s.repo.List(ctx, ListFilter{UserID: userID, ActiveOnly: true})
	if err != nil {
		return nil, internal("list grants", err)
	}
	sortRecentFirst(items)
	return items, nil
}

type Stats struct {
	Total        int
	Active       int
	Inactive     int
	Expired      int
	ByPermission map[Permission]int
	ByAccessType map[AccessType]int
	ByResource   map[ResourceType]int
}

// Stats resume los grants de la organización. Expired cuenta activos con expiresAt pasado (aún sin barrer).
func (s *Service) Stats(ctx context.Context, orgID, requesterID string) (Stats, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return Stats{}, invalid("organizationId required")
	}
	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return Stats{}, err
	}
	items, err := s.repo.List(ctx, ListFilter{OrganizationID: orgID})
	if err != nil {
		return Stats{}, internal("list grants", err)
	}

	now := s.now()
	st := Stats{
		ByPermission: map[Permission]int{},
		ByAccessType: map[AccessType]int{},
		ByResource:   map[ResourceType]int{},
	}
	for _, g := range items {
		st.Total++
		if !g.IsActive {
			st.Inactive++
			continue
		}
		st.Active++
		if g.Expired(now) {
			st.Expired++
		}
		st.ByPermission[g.Permission]++
		st.ByAccessType[g.AccessType]++
		st.ByResource[g.ResourceType]++
	}
	return st, nil
}

// AddTag es idempotente: un tag repetido no se duplica ni se audita.
func (s *Service) AddTag(ctx context.Context, grantID, tag, requesterID string) (Grant, error) {
	return s.changeTag(ctx, grantID, tag, requesterID, true)
}

func (s *Service) RemoveTag(ctx context.Context, grantID, tag, requesterID string) (Grant, error) {
	return s.changeTag(ctx, grantID, tag, requesterID, false)
}

func (s *Service) changeTag(ctx context.Context, grantID, tag, requesterID string, add bool) (g Grant, err error) {
	op := "remove_tag"
	if add {
		op = "add_tag"
	}
	defer func() { s.observe(op, err) }()

	tag = strings.TrimSpace(tag)
	requesterID = strings.TrimSpace(requesterID)
	if tag == "" || requesterID == "" {
		return Grant{}, invalid("tag required")
	}
	g, err = s.load(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}
	if err := s.requireAdmin(ctx, g.OrganizationID, requesterID); err != nil {
		return Grant{}, err
	}
	if g.HasTag(tag) == add {
		return g, nil
	}

	now := s.now()
	action := AuditTagRemoved
	if add {
		g.Tags = append(g.Tags, tag)
		action = AuditTagAdded
	} else {
		kept := g.Tags[:0]
		for _, t := range g.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		g.Tags = kept
	}
	g.UpdatedAt = now
	appendAudit(&g, action, requesterID, now, map[string]any{"tag": tag})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "access_" + action,
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details:        map[string]any{"accessId": g.ID, "tag": tag},
	})
	return g, nil
}

func sortRecentFirst(items []Grant) {
	sort.SliceStable(items, func(i, j int) bool {
		return laterOf(items[i]).After(laterOf(items[j]))
	})
}

func laterOf(g Grant) time.Time {
	if g.UpdatedAt.After(g.GrantedAt) {
		return g.UpdatedAt
	}
	return g.GrantedAt
}
