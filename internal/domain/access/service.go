package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workspace-access/internal/platform/logger"
	"workspace-access/internal/platform/metrics"
	"workspace-access/internal/ports/workspace"

	"github.com/google/uuid"
)

// Taxonomía de errores del motor. Siempre se envuelven con contexto: usar errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

func invalid(msg string) error   { return fmt.Errorf("%w: %s", ErrInvalidInput, msg) }
func forbidden(msg string) error { return fmt.Errorf("%w: %s", ErrForbidden, msg) }
func notFound(what string) error { return fmt.Errorf("%w: %s", ErrNotFound, what) }
func conflict(msg string) error  { return fmt.Errorf("%w: %s", ErrConflict, msg) }
func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// Deps son los colaboradores externos. Activity, Locker y Logger son opcionales.
type Deps struct {
	Roles     workspace.OrgRoles
	Resources *Registry
	Activity  workspace.ActivityLog
	Locker    Locker
	Logger    logger.Logger
}

type Service struct {
	repo      Repository
	roles     workspace.OrgRoles
	resources *Registry
	activity  workspace.ActivityLog
	locker    Locker
	log       logger.Logger

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, deps Deps) *Service {
	s := &Service{
		repo:      repo,
		roles:     deps.Roles,
		resources: deps.Resources,
		activity:  deps.Activity,
		locker:    deps.Locker,
		log:       deps.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	if s.locker == nil {
		s.locker = NewKeyedLocker()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

func (s *Service) logFor(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx, s.log)
}

// roleOf traduce "organización inexistente" a ErrNotFound.
func (s *Service) roleOf(ctx context.Context, orgID, userID string) (workspace.OrgRole, error) {
	if s.roles == nil {
		return workspace.OrgRole{}, internal("org roles", errors.New("not configured"))
	}
	role, err := s.roles.Role(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return workspace.OrgRole{}, notFound("organization " + orgID)
		}
		return workspace.OrgRole{}, internal("org role lookup", err)
	}
	return role, nil
}

func (s *Service) requireAdmin(ctx context.Context, orgID, requesterID string) error {
	role, err := s.roleOf(ctx, orgID, requesterID)
	if err != nil {
		return err
	}
	if !role.CanAdminister() {
		return forbidden("requester is not an organization admin")
	}
	return nil
}

func (s *Service) requireMember(ctx context.Context, orgID, userID string) error {
	role, err := s.roleOf(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !role.IsMember {
		return forbidden("user is not a member of the organization")
	}
	return nil
}

// requireOwnerOrAdmin: el dueño del grant o un admin de su organización.
func (s *Service) requireOwnerOrAdmin(ctx context.Context, g Grant, requesterID string) error {
	if g.UserID == requesterID {
		return nil
	}
	return s.requireAdmin(ctx, g.OrganizationID, requesterID)
}

func (s *Service) load(ctx context.Context, grantID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	if grantID == "" {
		return Grant{}, invalid("grant id required")
	}
	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		if errors.Is(err, ErrGrantNotFound) {
			return Grant{}, notFound("grant " + grantID)
		}
		return Grant{}, internal("load grant", err)
	}
	return g, nil
}

// save persiste con compare-and-swap y deja g.Version alineado con lo guardado.
func (s *Service) save(ctx context.Context, g *Grant) error {
	if err := s.repo.Update(ctx, *g); err != nil {
		switch {
		case errors.Is(err, ErrStaleVersion):
			return conflict("grant was modified concurrently")
		case errors.Is(err, ErrDuplicateActive):
			return conflict("another active grant exists for this user and resource")
		case errors.Is(err, ErrGrantNotFound):
			return notFound("grant " + g.ID)
		default:
			return internal("update grant", err)
		}
	}
	g.Version++
	return nil
}

// recordActivity es fire-and-forget: un fallo del sink se loguea y no afecta la operación.
func (s *Service) recordActivity(ctx context.Context, ev workspace.ActivityEvent) {
	if s.activity == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now()
	}
	if err := s.activity.Append(ctx, ev); err != nil {
		metrics.ActivityLogFailures.Inc()
		s.logFor(ctx).Warn("activity log append failed", map[string]any{
			"action": ev.Action,
			"org_id": ev.OrganizationID,
			"err":    err,
		})
	}
}

func (s *Service) observe(operation string, err error) {
	metrics.ObserveOperation(operation, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// normalizeTags: trim, sin vacíos, sin duplicados; respeta el orden de llegada.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, raw := range in {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func unionTags(existing, incoming []string) []string {
	return normalizeTags(append(append([]string(nil), existing...), incoming...))
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
