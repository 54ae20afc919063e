package access

import (
	"context"
	"sort"
	"strings"
	"time"
)

type CheckInput struct {
	UserID       string
	ResourceType string
	ResourceID   string

	// Required vacío: cualquier permiso alcanza.
	Required Permission
}

type CheckResult struct {
	HasAccess             bool
	GrantID               string
	Permission            Permission
	AccessType            AccessType
	IsInherited           bool
	CanDelegate           bool
	ExpiresAt             *time.Time
	IsExpired             bool
	HasRequiredPermission bool
}

// CheckAccess es de solo lectura: no toca contadores ni audit log.
// Un grant activo pero vencido (todavía sin barrer) no da acceso.
func (s *Service) CheckAccess(ctx context.Context, in CheckInput) (res CheckResult, err error) {
	defer func() { s.observe("check", err) }()

	userID := strings.TrimSpace(in.UserID)
	resourceID := strings.TrimSpace(in.ResourceID)
	resourceType := NormalizeResourceType(in.ResourceType)
	if userID == "" || resourceID == "" || resourceType == "" {
		return CheckResult{}, invalid("userId, resourceType and resourceId are required")
	}
	if in.Required != "" && !in.Required.Valid() {
		return CheckResult{}, invalid("requiredPermission must be view, edit or admin")
	}

	items, err := s.repo.List(ctx, ListFilter{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActiveOnly:   true,
	})
	if err != nil {
		return CheckResult{}, internal("list grants", err)
	}
	if len(items) == 0 {
		return CheckResult{}, nil
	}

	// Más de uno solo es posible entre organizaciones distintas; gana el más reciente.
	sort.SliceStable(items, func(i, j int) bool { return items[i].UpdatedAt.After(items[j].UpdatedAt) })
	g := items[0]
	now := s.now()

	res = CheckResult{
		GrantID:     g.ID,
		Permission:  g.Permission,
		AccessType:  g.AccessType,
		IsInherited: g.IsInherited,
		CanDelegate: g.CanDelegate,
		ExpiresAt:   cloneTime(g.ExpiresAt),
		IsExpired:   g.Expired(now),
	}
	res.HasAccess = !res.IsExpired
	res.HasRequiredPermission = res.HasAccess && (in.Required == "" || g.Permission.AtLeast(in.Required))
	return res, nil
}

// RecordAccess suma un uso al grant. Solo el dueño registra su propio uso.
func (s *Service) RecordAccess(ctx context.Context, grantID, userID string) (g Grant, err error) {
	defer func() { s.observe("record_access", err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Grant{}, invalid("user required")
	}
	g, err = s.load(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}
	if g.UserID != userID {
		return Grant{}, forbidden("only the grant owner can record usage")
	}
	if !g.IsActive {
		return Grant{}, conflict("grant is not active")
	}

	now := s.now()
	g.AccessCount++
	g.LastAccessedAt = &now
	g.UpdatedAt = now

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}
	return g, nil
}
