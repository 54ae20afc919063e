package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"workspace-access/internal/ports/workspace"
)

// BulkFailure: ID es el userId o accessId que falló.
type BulkFailure struct {
	ID     string
	Reason string
}

type BulkGrantInput struct {
	OrganizationID string
	RequesterID    string
	UserIDs        []string
	ResourceType   string
	ResourceID     string
	Permission     Permission
	ExpiresAt      *time.Time
}

type BulkGrantResult struct {
	Success []Grant
	Updated []Grant
	Failed  []BulkFailure
}

// BulkGrant procesa usuario por usuario. Sin atomicidad entre usuarios.
func (s *Service) BulkGrant(ctx context.Context, in BulkGrantInput) (res BulkGrantResult, err error) {
	defer func() { s.observe("bulk_grant", err) }()

	orgID := strings.TrimSpace(in.OrganizationID)
	requesterID := strings.TrimSpace(in.RequesterID)
	resourceID := strings.TrimSpace(in.ResourceID)
	resourceType := NormalizeResourceType(in.ResourceType)
	if orgID == "" || requesterID == "" || resourceID == "" || resourceType == "" {
		return BulkGrantResult{}, invalid("organizationId, resourceType and resourceId are required")
	}
	if len(in.UserIDs) == 0 {
		return BulkGrantResult{}, invalid("userIds must not be empty")
	}
	if !in.Permission.Valid() {
		return BulkGrantResult{}, invalid("permission must be view, edit or admin")
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return BulkGrantResult{}, invalid("expiresAt must be in the future")
	}

	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return BulkGrantResult{}, err
	}
	resource, err := s.lookupInOrg(ctx, orgID, resourceType, resourceID)
	if err != nil {
		return BulkGrantResult{}, err
	}
	md := s.metadataFor(ctx, resource)

	for _, raw := range in.UserIDs {
		userID := strings.TrimSpace(raw)
		if userID == "" {
			res.Failed = append(res.Failed, BulkFailure{ID: raw, Reason: "empty user id"})
			continue
		}
		if err := s.requireMember(ctx, orgID, userID); err != nil {
			reason := "membership lookup failed"
			if errors.Is(err, ErrForbidden) {
				reason = "not a member of the organization"
			}
			res.Failed = append(res.Failed, BulkFailure{ID: userID, Reason: reason})
			continue
		}

		g, outcome, err := s.issue(ctx, issueSpec{
			key:        Key{OrganizationID: orgID, UserID: userID, ResourceType: resourceType, ResourceID: resourceID},
			permission: in.Permission,
			accessType: AccessDirect,
			expiresAt:  in.ExpiresAt,
			metadata:   md,
			grantedBy:  requesterID,
		})
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: userID, Reason: err.Error()})
			continue
		}
		if outcome == issueCreated {
			res.Success = append(res.Success, g)
		} else {
			res.Updated = append(res.Updated, g)
		}
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: orgID,
		ActorID:        requesterID,
		Action:         "bulk_access_granted",
		ResourceType:   string(resourceType),
		ResourceID:     resourceID,
		Details: map[string]any{
			"permission": string(in.Permission),
			"created":    len(res.Success),
			"updated":    len(res.Updated),
			"failed":     len(res.Failed),
		},
	})
	return res, nil
}

type BulkRevokeInput struct {
	OrganizationID string
	RequesterID    string
	AccessIDs      []string
	Reason         string
}

type BulkRevokeResult struct {
	Success []string
	Failed  []BulkFailure
}

// BulkRevoke no hace cascada; cada id se reporta por separado.
func (s *Service) BulkRevoke(ctx context.Context, in BulkRevokeInput) (res BulkRevokeResult, err error) {
	defer func() { s.observe("bulk_revoke", err) }()

	orgID := strings.TrimSpace(in.OrganizationID)
	requesterID := strings.TrimSpace(in.RequesterID)
	if orgID == "" || requesterID == "" {
		return BulkRevokeResult{}, invalid("organizationId required")
	}
	if len(in.AccessIDs) == 0 {
		return BulkRevokeResult{}, invalid("accessIds must not be empty")
	}
	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return BulkRevokeResult{}, err
	}

	reason := strings.TrimSpace(in.Reason)
	for _, raw := range in.AccessIDs {
		id := strings.TrimSpace(raw)
		g, err := s.load(ctx, id)
		if err != nil {
			msg := "not found"
			if !errors.Is(err, ErrNotFound) {
				msg = err.Error()
			}
			res.Failed = append(res.Failed, BulkFailure{ID: raw, Reason: msg})
			continue
		}
		if g.OrganizationID != orgID {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: "not found"})
			continue
		}
		if !g.IsActive {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: "already revoked"})
			continue
		}

		s.markRevoked(&g, requesterID, reason, map[string]any{"bulk": true})
		if err := s.save(ctx, &g); err != nil {
			res.Failed = append(res.Failed, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		res.Success = append(res.Success, id)
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: orgID,
		ActorID:        requesterID,
		Action:         "bulk_access_revoked",
		ResourceType:   string(ResourceOrganization),
		ResourceID:     orgID,
		Details: map[string]any{
			"revoked": len(res.Success),
			"failed":  len(res.Failed),
			"reason":  reason,
		},
	})
	return res, nil
}
