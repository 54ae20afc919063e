package access

import (
	"context"
	"errors"
	"time"
)

// Errores que deben devolver las implementaciones de Repository.
var (
	ErrGrantNotFound   = errors.New("grant not found")
	ErrDuplicateActive = errors.New("active grant already exists for tuple")
	ErrStaleVersion    = errors.New("grant version changed")
)

// Repository es el Grant Store.
//
// Contrato:
//   - Create falla con ErrDuplicateActive si g.IsActive y ya hay un activo para g.Key().
//   - Update es compare-and-swap sobre Version: guarda solo si la versión almacenada es g.Version,
//     y la deja en g.Version+1. Si no, ErrStaleVersion. Activar un grant cuando ya hay otro activo
//     para la misma tupla devuelve ErrDuplicateActive.
//   - GetByID / GetActive devuelven ErrGrantNotFound.
//   - DeactivateExpired con organizationID vacío barre todas las organizaciones.
type Repository interface {
	Create(ctx context.Context, g Grant) error
	Update(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)
	GetActive(ctx context.Context, key Key) (Grant, error)
	List(ctx context.Context, filter ListFilter) ([]Grant, error)
	DeactivateExpired(ctx context.Context, organizationID string, now time.Time) (int64, error)
}

// ListFilter: campos vacíos no filtran.
type ListFilter struct {
	OrganizationID  string
	UserID          string
	ResourceType    ResourceType
	ResourceID      string
	InheritedFrom   ResourceType
	InheritedFromID string
	Permission      Permission
	ActiveOnly      bool
	Limit           int
}

// Matches lo usan los repos que filtran en memoria.
func (f ListFilter) Matches(g Grant) bool {
	if f.OrganizationID != "" && g.OrganizationID != f.OrganizationID {
		return false
	}
	if f.UserID != "" && g.UserID != f.UserID {
		return false
	}
	if f.ResourceType != "" && g.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && g.ResourceID != f.ResourceID {
		return false
	}
	if f.InheritedFrom != "" && g.InheritedFrom != f.InheritedFrom {
		return false
	}
	if f.InheritedFromID != "" && g.InheritedFromID != f.InheritedFromID {
		return false
	}
	if f.Permission != "" && g.Permission != f.Permission {
		return false
	}
	if f.ActiveOnly && !g.IsActive {
		return false
	}
	return true
}
