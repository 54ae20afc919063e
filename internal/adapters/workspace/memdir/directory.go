package memdir

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"workspace-access/internal/ports/workspace"
)

// Directory es un directorio de organizaciones/recursos en memoria.
// Sirve para dev (sin WORKSPACE_BASE_URL) y para tests end-to-end.
type Directory struct {
	mu        sync.RWMutex
	members   map[string]map[string]workspace.OrgRole
	resources map[string]map[string]workspace.Resource
	related   map[string][]workspace.ResourceRef
}

func New() *Directory {
	return &Directory{
		members:   map[string]map[string]workspace.OrgRole{},
		resources: map[string]map[string]workspace.Resource{},
		related:   map[string][]workspace.ResourceRef{},
	}
}

// AddOrganization registra la organización también como recurso "organization",
// raíz de la cadena de dueños de departamentos.
func (d *Directory) AddOrganization(orgID, name string) {
	d.mu.Lock()
	if _, ok := d.members[orgID]; !ok {
		d.members[orgID] = map[string]workspace.OrgRole{}
	}
	d.mu.Unlock()

	d.AddResource(workspace.Resource{
		Ref:            workspace.ResourceRef{Type: "organization", ID: orgID},
		Name:           name,
		OrganizationID: orgID,
	})
}

// SetRole agrega la organización si no existía.
func (d *Directory) SetRole(orgID, userID string, role workspace.OrgRole) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.members[orgID]
	if !ok {
		m = map[string]workspace.OrgRole{}
		d.members[orgID] = m
	}
	m[userID] = role
}

func (d *Directory) AddResource(res workspace.Resource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := normalizeType(res.Ref.Type)
	byID, ok := d.resources[t]
	if !ok {
		byID = map[string]workspace.Resource{}
		d.resources[t] = byID
	}
	byID[res.Ref.ID] = res
}

func (d *Directory) SetRelated(projectID string, refs ...workspace.ResourceRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.related[projectID] = append([]workspace.ResourceRef(nil), refs...)
}

// Role: organización desconocida => ErrNotFound; usuario desconocido => rol vacío.
func (d *Directory) Role(ctx context.Context, organizationID, userID string) (workspace.OrgRole, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.members[organizationID]
	if !ok {
		return workspace.OrgRole{}, fmt.Errorf("organization %s: %w", organizationID, workspace.ErrNotFound)
	}
	return m[userID], nil
}

// Lookup devuelve el ResourceLookup de un tipo. El de "project" además lista relacionados.
func (d *Directory) Lookup(resourceType string) workspace.ResourceLookup {
	t := normalizeType(resourceType)
	if t == "project" {
		return projectLookup{typeLookup{d: d, resourceType: t}}
	}
	return typeLookup{d: d, resourceType: t}
}

type typeLookup struct {
	d            *Directory
	resourceType string
}

func (l typeLookup) Lookup(ctx context.Context, resourceID string) (workspace.Resource, error) {
	l.d.mu.RLock()
	defer l.d.mu.RUnlock()
	res, ok := l.d.resources[l.resourceType][resourceID]
	if !ok {
		return workspace.Resource{}, fmt.Errorf("%s %s: %w", l.resourceType, resourceID, workspace.ErrNotFound)
	}
	return res, nil
}

type projectLookup struct {
	typeLookup
}

func (l projectLookup) ListRelated(ctx context.Context, projectID string) ([]workspace.ResourceRef, error) {
	l.d.mu.RLock()
	defer l.d.mu.RUnlock()
	if _, ok := l.d.resources[l.resourceType][projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, workspace.ErrNotFound)
	}
	return append([]workspace.ResourceRef(nil), l.d.related[projectID]...), nil
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Seed es el formato JSON de WORKSPACE_SEED_FILE.
type Seed struct {
	Organizations []SeedOrganization   `json:"organizations"`
	Resources     []SeedResource       `json:"resources"`
	Related       map[string][]SeedRef `json:"related"`
}

type SeedOrganization struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Members []SeedMember `json:"members"`
}

// SeedMember.Role: superadmin | admin | member.
type SeedMember struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SeedResource struct {
	Type           string `json:"type"`
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
	ParentType     string `json:"parent_type,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
}

type SeedRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	var s Seed
	if err := json.Unmarshal(raw, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// Apply carga el seed en el directorio.
func (d *Directory) Apply(s Seed) error {
	for _, o := range s.Organizations {
		if strings.TrimSpace(o.ID) == "" {
			return fmt.Errorf("seed: organization without id")
		}
		d.AddOrganization(o.ID, o.Name)
		for _, m := range o.Members {
			role, err := parseRole(m.Role)
			if err != nil {
				return fmt.Errorf("seed: org %s user %s: %w", o.ID, m.UserID, err)
			}
			d.SetRole(o.ID, m.UserID, role)
		}
	}

	for _, r := range s.Resources {
		if r.Type == "" || r.ID == "" {
			return fmt.Errorf("seed: resource without type/id")
		}
		res := workspace.Resource{
			Ref:            workspace.ResourceRef{Type: normalizeType(r.Type), ID: r.ID},
			Name:           r.Name,
			OrganizationID: r.OrganizationID,
		}
		if r.ParentType != "" && r.ParentID != "" {
			res.Parent = &workspace.ResourceRef{Type: normalizeType(r.ParentType), ID: r.ParentID}
		}
		d.AddResource(res)
	}

	for projectID, refs := range s.Related {
		out := make([]workspace.ResourceRef, 0, len(refs))
		for _, r := range refs {
			out = append(out, workspace.ResourceRef{Type: normalizeType(r.Type), ID: r.ID})
		}
		d.SetRelated(projectID, out...)
	}
	return nil
}

func parseRole(s string) (workspace.OrgRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "superadmin", "super_admin":
		return workspace.OrgRole{IsSuperAdmin: true, IsAdmin: true, IsMember: true}, nil
	case "admin":
		return workspace.OrgRole{IsAdmin: true, IsMember: true}, nil
	case "member", "":
		return workspace.OrgRole{IsMember: true}, nil
	default:
		return workspace.OrgRole{}, fmt.Errorf("unknown role %q", s)
	}
}
