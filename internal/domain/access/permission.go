package access

import "strings"

// Permission es la escala fija view < edit < admin.
type Permission string

const (
	PermissionView  Permission = "view"
	PermissionEdit  Permission = "edit"
	PermissionAdmin Permission = "admin"
)

// Rank devuelve la posición en la escala; 0 si el valor no es válido.
func (p Permission) Rank() int {
	switch p {
	case PermissionView:
		return 1
	case PermissionEdit:
		return 2
	case PermissionAdmin:
		return 3
	default:
		return 0
	}
}

func (p Permission) Valid() bool { return p.Rank() > 0 }

// AtLeast responde si p cubre required. Un valor inválido nunca cubre nada.
func (p Permission) AtLeast(required Permission) bool {
	if !p.Valid() || !required.Valid() {
		return false
	}
	return p.Rank() >= required.Rank()
}

// Permissions en orden ascendente (útil para agrupar).
func Permissions() []Permission {
	return []Permission{PermissionView, PermissionEdit, PermissionAdmin}
}

func ParsePermission(raw string) (Permission, error) {
	p := Permission(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", invalid("permission must be view, edit or admin")
	}
	return p, nil
}

// AccessType clasifica la procedencia del grant.
type AccessType string

const (
	AccessDirect    AccessType = "direct"
	AccessInherited AccessType = "inherited"
	AccessDelegated AccessType = "delegated"
)

func (a AccessType) Valid() bool {
	switch a {
	case AccessDirect, AccessInherited, AccessDelegated:
		return true
	default:
		return false
	}
}

// ResourceType es un tag abierto; estos son los que conoce la plataforma hoy.
type ResourceType string

const (
	ResourceOrganization ResourceType = "organization"
	ResourceDepartment   ResourceType = "department"
	ResourceTeam         ResourceType = "team"
	ResourceProject      ResourceType = "project"
	ResourcePhase        ResourceType = "phase"
	ResourceSprint       ResourceType = "sprint"
	ResourceFolder       ResourceType = "folder"
	ResourceDocument     ResourceType = "document"
	ResourceSheet        ResourceType = "sheet"
	ResourceSlide        ResourceType = "slide"
	ResourceBug          ResourceType = "bug"
	ResourceRequirement  ResourceType = "requirement"
)

func NormalizeResourceType(raw string) ResourceType {
	return ResourceType(strings.ToLower(strings.TrimSpace(raw)))
}
