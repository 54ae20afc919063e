package access

import (
	"context"
	"strings"
	"time"

	"workspace-access/internal/ports/workspace"
)

type DelegateInput struct {
	GrantID      string
	RequesterID  string
	TargetUserID string
	Permission   Permission
	ExpiresAt    *time.Time
}

// Delegate agrega una delegación al grant del requester.
// El techo de permiso se chequea antes que la identidad del requester.
func (s *Service) Delegate(ctx context.Context, in DelegateInput) (g Grant, err error) {
	defer func() { s.observe("delegate", err) }()

	requesterID := strings.TrimSpace(in.RequesterID)
	targetID := strings.TrimSpace(in.TargetUserID)
	if requesterID == "" || targetID == "" {
		return Grant{}, invalid("requester and targetUserId are required")
	}
	if !in.Permission.Valid() {
		return Grant{}, invalid("permission must be view, edit or admin")
	}

	g, err = s.load(ctx, in.GrantID)
	if err != nil {
		return Grant{}, err
	}

	if in.Permission.Rank() > g.Permission.Rank() {
		return Grant{}, conflict("cannot delegate a permission above the grant's own")
	}
	if g.UserID != requesterID {
		return Grant{}, forbidden("only the grant owner can delegate")
	}
	if !g.CanDelegate {
		return Grant{}, forbidden("grant does not allow delegation")
	}
	if !g.IsActive {
		return Grant{}, conflict("grant is not active")
	}
	if targetID == g.UserID {
		return Grant{}, invalid("cannot delegate to the grant owner")
	}
	if err := s.requireMember(ctx, g.OrganizationID, targetID); err != nil {
		return Grant{}, err
	}

	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return Grant{}, invalid("expiresAt must be in the future")
	}

	g.Delegations = append(g.Delegations, Delegation{
		TargetUserID: targetID,
		Permission:   in.Permission,
		DelegatedBy:  requesterID,
		DelegatedAt:  now,
		ExpiresAt:    cloneTime(in.ExpiresAt),
	})
	g.UpdatedAt = now
	appendAudit(&g, AuditDelegated, requesterID, now, map[string]any{
		"targetUserId": targetID,
		"permission":   string(in.Permission),
		"expiresAt":    timeValue(in.ExpiresAt),
	})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "access_delegated",
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details: map[string]any{
			"accessId":     g.ID,
			"targetUserId": targetID,
			"permission":   string(in.Permission),
		},
	})
	return g, nil
}

// RevokeDelegation marca revocada la delegación vigente más reciente hacia targetUserID.
// Pueden hacerlo el dueño del grant o un admin de la organización.
func (s *Service) RevokeDelegation(ctx context.Context, grantID, targetUserID, requesterID string) (g Grant, err error) {
	defer func() { s.observe("revoke_delegation", err) }()

	requesterID = strings.TrimSpace(requesterID)
	targetUserID = strings.TrimSpace(targetUserID)
	if requesterID == "" || targetUserID == "" {
		return Grant{}, invalid("requester and target user are required")
	}

	g, err = s.load(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}
	if err := s.requireOwnerOrAdmin(ctx, g, requesterID); err != nil {
		return Grant{}, err
	}

	idx := -1
	for i := len(g.Delegations) - 1; i >= 0; i-- {
		if g.Delegations[i].TargetUserID == targetUserID && !g.Delegations[i].Revoked {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Grant{}, notFound("delegation to " + targetUserID)
	}

	now := s.now()
	g.Delegations[idx].Revoked = true
	g.Delegations[idx].RevokedAt = &now
	g.UpdatedAt = now
	appendAudit(&g, AuditDelegationRevoked, requesterID, now, map[string]any{"targetUserId": targetUserID})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "delegation_revoked",
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details:        map[string]any{"accessId": g.ID, "targetUserId": targetUserID},
	})
	return g, nil
}

// ActiveDelegation devuelve la delegación vigente más reciente hacia userID.
// No mira IsActive del grant: una delegación sobre un grant revocado sigue "viva" acá.
func ActiveDelegation(g Grant, userID string, now time.Time) (Delegation, bool) {
	for i := len(g.Delegations) - 1; i >= 0; i-- {
		d := g.Delegations[i]
		if d.TargetUserID == userID && d.Live(now) {
			return d, true
		}
	}
	return Delegation{}, false
}
