package access

import (
	"context"
	"strings"
	"time"
)

const defaultAuditLimit = 50

// appendAudit agrega al final y recorta las más viejas por encima de MaxAuditEntries.
func appendAudit(g *Grant, action, performedBy string, at time.Time, details map[string]any) {
	g.AuditLog = append(g.AuditLog, AuditEntry{
		Action:      action,
		PerformedBy: performedBy,
		Timestamp:   at,
		Details:     details,
	})
	if over := len(g.AuditLog) - MaxAuditEntries; over > 0 {
		g.AuditLog = append([]AuditEntry(nil), g.AuditLog[over:]...)
	}
}

// GetAuditHistory devuelve las entradas más recientes primero.
func (s *Service) GetAuditHistory(ctx context.Context, grantID, requesterID string, limit int) ([]AuditEntry, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, invalid("requester required")
	}
	g, err := s.load(ctx, grantID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, g, requesterID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > len(g.AuditLog) {
		limit = len(g.AuditLog)
	}

	out := make([]AuditEntry, 0, limit)
	for i := len(g.AuditLog) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, g.AuditLog[i])
	}
	return out, nil
}
