package access

import (
	"context"
	"strings"
	"time"

	"workspace-access/internal/platform/metrics"
	"workspace-access/internal/ports/workspace"
)

// SystemActor firma las acciones del barrido periódico.
const SystemActor = "system"

type CleanupResult struct {
	Deactivated int64
	SweptAt     time.Time
}

// CleanupExpired desactiva los grants vencidos de una organización.
// El store lo hace en un solo paso: expiresAt < now AND isActive.
func (s *Service) CleanupExpired(ctx context.Context, orgID, requesterID string) (res CleanupResult, err error) {
	defer func() { s.observe("cleanup_expired", err) }()

	orgID = strings.TrimSpace(orgID)
	requesterID = strings.TrimSpace(requesterID)
	if orgID == "" || requesterID == "" {
		return CleanupResult{}, invalid("organizationId required")
	}
	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return CleanupResult{}, err
	}

	res, err = s.sweep(ctx, orgID)
	if err != nil {
		return CleanupResult{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: orgID,
		ActorID:        requesterID,
		Action:         "expired_access_cleaned",
		ResourceType:   string(ResourceOrganization),
		ResourceID:     orgID,
		Details:        map[string]any{"deactivated": res.Deactivated},
	})
	return res, nil
}

// SweepExpired barre todas las organizaciones. Lo usa el worker periódico.
// Una pasada que desactiva algo deja un único evento de resumen firmado por SystemActor.
func (s *Service) SweepExpired(ctx context.Context) (res CleanupResult, err error) {
	defer func() { s.observe("sweep_expired", err) }()

	res, err = s.sweep(ctx, "")
	if err != nil || res.Deactivated == 0 {
		return res, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		ActorID: SystemActor,
		Action:  "expired_access_swept",
		Details: map[string]any{
			"deactivated": res.Deactivated,
			"sweptAt":     res.SweptAt,
		},
	})
	return res, nil
}

func (s *Service) sweep(ctx context.Context, orgID string) (CleanupResult, error) {
	now := s.now()
	n, err := s.repo.DeactivateExpired(ctx, orgID, now)
	if err != nil {
		return CleanupResult{}, internal("deactivate expired grants", err)
	}
	metrics.ExpiredSwept.Add(float64(n))

	if n > 0 {
		s.logFor(ctx).Info("expired grants deactivated", map[string]any{
			"org_id": orgID,
			"count":  n,
		})
	}
	return CleanupResult{Deactivated: n, SweptAt: now}, nil
}
