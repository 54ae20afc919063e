package access

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"workspace-access/internal/ports/workspace"
)

// MaxAncestorDepth acota la caminata por la cadena de dueños.
const MaxAncestorDepth = 8

// Registry mapea resourceType -> lookup. Se valida al arrancar, no en cada request.
type Registry struct {
	lookups map[ResourceType]workspace.ResourceLookup
}

func NewRegistry(lookups map[ResourceType]workspace.ResourceLookup) (*Registry, error) {
	if len(lookups) == 0 {
		return nil, errors.New("resource registry: no lookups registered")
	}

	out := make(map[ResourceType]workspace.ResourceLookup, len(lookups))
	for t, l := range lookups {
		nt := NormalizeResourceType(string(t))
		if nt == "" {
			return nil, errors.New("resource registry: empty resource type")
		}
		if l == nil {
			return nil, fmt.Errorf("resource registry: nil lookup for %q", nt)
		}
		out[nt] = l
	}

	if p, ok := out[ResourceProject]; ok {
		if _, ok := p.(workspace.RelatedLister); !ok {
			return nil, errors.New("resource registry: project lookup must list related resources")
		}
	}

	return &Registry{lookups: out}, nil
}

func (r *Registry) Types() []ResourceType {
	out := make([]ResourceType, 0, len(r.lookups))
	for t := range r.lookups {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) Supports(t ResourceType) bool {
	_, ok := r.lookups[t]
	return ok
}

// Lookup devuelve ErrNotFound (dominio) si el recurso no existe.
func (r *Registry) Lookup(ctx context.Context, t ResourceType, id string) (workspace.Resource, error) {
	l, ok := r.lookups[t]
	if !ok {
		return workspace.Resource{}, invalid(fmt.Sprintf("unsupported resource type %q", t))
	}
	res, err := l.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			return workspace.Resource{}, notFound(fmt.Sprintf("%s %s", t, id))
		}
		return workspace.Resource{}, internal("resource lookup", err)
	}
	return res, nil
}

// Related: fases, sprints y carpetas de un proyecto.
func (r *Registry) Related(ctx context.Context, projectID string) ([]workspace.ResourceRef, error) {
	l, ok := r.lookups[ResourceProject]
	if !ok {
		return nil, invalid("project resources are not registered")
	}
	lister := l.(workspace.RelatedLister)
	refs, err := lister.ListRelated(ctx, projectID)
	if err != nil {
		return nil, internal("list related resources", err)
	}
	return refs, nil
}

// ResolveMetadata arma el snapshot (nombre, path, department/team/project) del recurso.
// Ancestros que no se pueden resolver cortan la caminata; no es un error.
func (r *Registry) ResolveMetadata(ctx context.Context, res workspace.Resource) (Metadata, []string) {
	md := Metadata{ResourceName: res.Name}
	var warnings []string

	chain := []workspace.Resource{res}
	parent := res.Parent
	for depth := 0; parent != nil; depth++ {
		if depth >= MaxAncestorDepth {
			warnings = append(warnings, "ancestor depth cap reached")
			break
		}
		p, err := r.Lookup(ctx, NormalizeResourceType(parent.Type), parent.ID)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ancestor %s/%s: %v", parent.Type, parent.ID, err))
			break
		}
		chain = append(chain, p)
		parent = p.Parent
	}

	names := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		switch NormalizeResourceType(c.Ref.Type) {
		case ResourceDepartment:
			md.Department = c.Name
		case ResourceTeam:
			md.Team = c.Name
		case ResourceProject:
			md.Project = c.Name
		}
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		md.ResourcePath = "/" + res.Name
	} else {
		md.ResourcePath = "/" + strings.Join(names, "/")
	}
	return md, warnings
}
