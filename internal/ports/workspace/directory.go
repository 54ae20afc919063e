package workspace

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound lo devuelven los colaboradores cuando la organización o el recurso no existen.
var ErrNotFound = errors.New("workspace: not found")

// ResourceRef identifica un recurso por (tipo, id).
type ResourceRef struct {
	Type string
	ID   string
}

// Resource es lo mínimo que el motor necesita de un recurso externo.
// Parent apunta al dueño inmediato (project -> team -> department -> organization).
type Resource struct {
	Ref            ResourceRef
	Name           string
	OrganizationID string
	Parent         *ResourceRef
}

// ResourceLookup resuelve recursos de UN tipo. Se registran por tipo al arrancar.
type ResourceLookup interface {
	Lookup(ctx context.Context, resourceID string) (Resource, error)
}

// RelatedLister lo implementa el lookup de proyectos: fases, sprints y carpetas del proyecto.
type RelatedLister interface {
	ListRelated(ctx context.Context, projectID string) ([]ResourceRef, error)
}

// OrgRole es el rol del usuario dentro de la organización.
type OrgRole struct {
	IsSuperAdmin bool
	IsAdmin      bool
	IsMember     bool
}

// CanAdminister: super-admin o admin.
func (r OrgRole) CanAdminister() bool {
	return r.IsSuperAdmin || r.IsAdmin
}

// OrgRoles consulta membresía/rol. Devuelve ErrNotFound si la organización no existe.
type OrgRoles interface {
	Role(ctx context.Context, organizationID, userID string) (OrgRole, error)
}

// ActivityEvent es el registro transversal (independiente del audit log por grant).
type ActivityEvent struct {
	OrganizationID string
	ActorID        string
	Action         string
	ResourceType   string
	ResourceID     string
	Details        map[string]any
	OccurredAt     time.Time
}

// ActivityLog es fire-and-forget: quien llama loguea el error y sigue.
type ActivityLog interface {
	Append(ctx context.Context, ev ActivityEvent) error
}
