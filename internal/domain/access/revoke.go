package access

import (
	"context"
	"strings"

	"workspace-access/internal/platform/metrics"
	"workspace-access/internal/ports/workspace"
)

type RevokeInput struct {
	GrantID     string
	RequesterID string
	Reason      string

	// Cascade sobre un grant de proyecto revoca los heredados activos del mismo usuario.
	Cascade bool
}

type RevokeResult struct {
	Grant         Grant
	Cascaded      []string
	CascadeFailed []BulkFailure
}

func (s *Service) Revoke(ctx context.Context, in RevokeInput) (res RevokeResult, err error) {
	defer func() { s.observe("revoke", err) }()

	requesterID := strings.TrimSpace(in.RequesterID)
	if requesterID == "" {
		return RevokeResult{}, invalid("requester required")
	}
	g, err := s.load(ctx, in.GrantID)
	if err != nil {
		return RevokeResult{}, err
	}
	if err := s.requireAdmin(ctx, g.OrganizationID, requesterID); err != nil {
		return RevokeResult{}, err
	}
	if !g.IsActive {
		return RevokeResult{}, conflict("grant is already inactive")
	}

	reason := strings.TrimSpace(in.Reason)
	s.markRevoked(&g, requesterID, reason, nil)
	if err := s.save(ctx, &g); err != nil {
		return RevokeResult{}, err
	}
	res.Grant = g

	if in.Cascade && g.ResourceType == ResourceProject {
		res.Cascaded, res.CascadeFailed = s.revokeInherited(ctx, g, requesterID, reason)
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "access_revoked",
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details: map[string]any{
			"accessId": g.ID,
			"userId":   g.UserID,
			"reason":   reason,
			"cascaded": len(res.Cascaded),
		},
	})
	return res, nil
}

func (s *Service) markRevoked(g *Grant, by, reason string, extra map[string]any) {
	now := s.now()
	g.IsActive = false
	g.RevokedAt = &now
	g.RevokedBy = by
	g.RevocationReason = reason
	g.UpdatedAt = now

	details := map[string]any{"reason": reason}
	for k, v := range extra {
		details[k] = v
	}
	appendAudit(g, AuditRevoked, by, now, details)
}

// revokeInherited revoca cada heredado del proyecto por separado; un fallo no frena al resto.
func (s *Service) revokeInherited(ctx context.Context, parent Grant, by, reason string) ([]string, []BulkFailure) {
	children, err := s.repo.List(ctx, ListFilter{
		OrganizationID:  parent.OrganizationID,
		UserID:          parent.UserID,
		InheritedFrom:   ResourceProject,
		InheritedFromID: parent.ResourceID,
		ActiveOnly:      true,
	})
	if err != nil {
		metrics.CascadeRevocations.WithLabelValues("failed").Inc()
		s.logFor(ctx).Error("list inherited grants failed", map[string]any{"access_id": parent.ID, "err": err})
		return nil, []BulkFailure{{ID: parent.ID, Reason: "list inherited grants: " + err.Error()}}
	}

	var (
		done   []string
		failed []BulkFailure
	)
	for _, c := range children {
		if c.ID == parent.ID {
			continue
		}
		s.markRevoked(&c, by, reason, map[string]any{"cascadeFrom": parent.ID})
		if err := s.save(ctx, &c); err != nil {
			metrics.CascadeRevocations.WithLabelValues("failed").Inc()
			s.logFor(ctx).Warn("cascade revoke failed", map[string]any{"access_id": c.ID, "err": err})
			failed = append(failed, BulkFailure{ID: c.ID, Reason: err.Error()})
			continue
		}
		metrics.CascadeRevocations.WithLabelValues("revoked").Inc()
		done = append(done, c.ID)
	}
	return done, failed
}

// Restore reactiva un grant inactivo que no esté vencido.
// Para reanudar uno vencido primero hay que extender expiresAt con UpdatePermission.
func (s *Service) Restore(ctx context.Context, grantID, requesterID, reason string) (g Grant, err error) {
	defer func() { s.observe("restore", err) }()

	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return Grant{}, invalid("requester required")
	}
	g, err = s.load(ctx, grantID)
	if err != nil {
		return Grant{}, err
	}
	if err := s.requireAdmin(ctx, g.OrganizationID, requesterID); err != nil {
		return Grant{}, err
	}
	if g.IsActive {
		return Grant{}, conflict("grant is already active")
	}

	now := s.now()
	if g.Expired(now) {
		return Grant{}, conflict("grant has expired; extend expiresAt before restoring")
	}

	reason = strings.TrimSpace(reason)
	g.IsActive = true
	g.RestoredAt = &now
	g.RestoredBy = requesterID
	g.UpdatedAt = now
	appendAudit(&g, AuditRestored, requesterID, now, map[string]any{"reason": reason})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "access_restored",
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details:        map[string]any{"accessId": g.ID, "userId": g.UserID, "reason": reason},
	})
	return g, nil
}
