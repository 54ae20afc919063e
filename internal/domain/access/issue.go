package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"workspace-access/internal/ports/workspace"
)

type GrantInput struct {
	OrganizationID string
	RequesterID    string
	UserID         string
	ResourceType   string
	ResourceID     string
	Permission     Permission
	AccessType     AccessType
	CanDelegate    bool
	ExpiresAt      *time.Time
	Notes          string
	Tags           []string

	// Solo aplica a proyectos: crea grants heredados en fases, sprints y carpetas.
	AutoGrantRelated bool
}

type GrantResult struct {
	Grant   Grant
	Created bool

	Related        []Grant
	RelatedSkipped []string
	RelatedFailed  []BulkFailure
}

type issueOutcome int

const (
	issueCreated issueOutcome = iota + 1
	issueUpdated
	issueSkipped
)

// issueSpec es lo que necesita issue() para crear o fusionar un grant en una tupla.
type issueSpec struct {
	key             Key
	permission      Permission
	accessType      AccessType
	inheritedFrom   ResourceType
	inheritedFromID string
	canDelegate     bool
	expiresAt       *time.Time
	notes           string
	tags            []string
	metadata        Metadata
	grantedBy       string

	// keepExisting: si ya hay un activo no se toca (propagación a recursos relacionados).
	keepExisting bool
}

func (s *Service) Grant(ctx context.Context, in GrantInput) (res GrantResult, err error) {
	defer func() { s.observe("grant", err) }()

	orgID := strings.TrimSpace(in.OrganizationID)
	requesterID := strings.TrimSpace(in.RequesterID)
	userID := strings.TrimSpace(in.UserID)
	resourceID := strings.TrimSpace(in.ResourceID)
	resourceType := NormalizeResourceType(in.ResourceType)

	if orgID == "" || requesterID == "" || userID == "" || resourceID == "" || resourceType == "" {
		return GrantResult{}, invalid("organizationId, userId, resourceType and resourceId are required")
	}
	if !in.Permission.Valid() {
		return GrantResult{}, invalid("permission must be view, edit or admin")
	}
	accessType := in.AccessType
	if accessType == "" {
		accessType = AccessDirect
	}
	if !accessType.Valid() {
		return GrantResult{}, invalid("accessType must be direct, inherited or delegated")
	}
	// inheritedFrom lo fija la propagación; no se acepta desde afuera.
	if accessType == AccessInherited {
		return GrantResult{}, invalid("inherited grants are only created by propagation")
	}
	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return GrantResult{}, invalid("expiresAt must be in the future")
	}

	if err := s.requireAdmin(ctx, orgID, requesterID); err != nil {
		return GrantResult{}, err
	}
	if err := s.requireMember(ctx, orgID, userID); err != nil {
		return GrantResult{}, err
	}

	resource, err := s.lookupInOrg(ctx, orgID, resourceType, resourceID)
	if err != nil {
		return GrantResult{}, err
	}
	md := s.metadataFor(ctx, resource)

	g, outcome, err := s.issue(ctx, issueSpec{
		key:         Key{OrganizationID: orgID, UserID: userID, ResourceType: resourceType, ResourceID: resourceID},
		permission:  in.Permission,
		accessType:  accessType,
		canDelegate: in.CanDelegate,
		expiresAt:   in.ExpiresAt,
		notes:       strings.TrimSpace(in.Notes),
		tags:        in.Tags,
		metadata:    md,
		grantedBy:   requesterID,
	})
	if err != nil {
		return GrantResult{}, err
	}
	res = GrantResult{Grant: g, Created: outcome == issueCreated}

	action := "access_granted"
	if !res.Created {
		action = "access_updated"
	}
	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: orgID,
		ActorID:        requesterID,
		Action:         action,
		ResourceType:   string(resourceType),
		ResourceID:     resourceID,
		Details: map[string]any{
			"accessId":   g.ID,
			"userId":     userID,
			"permission": string(g.Permission),
		},
	})

	if in.AutoGrantRelated && resourceType == ResourceProject {
		s.propagateToRelated(ctx, g, requesterID, &res)
	}
	return res, nil
}

// propagateToRelated es best-effort: el grant del proyecto ya quedó persistido.
// Los heredados nuevos quedan a nombre de quien pidió este Grant, no del emisor original.
func (s *Service) propagateToRelated(ctx context.Context, parent Grant, requesterID string, res *GrantResult) {
	log := s.logFor(ctx).With(map[string]any{"project_id": parent.ResourceID, "user_id": parent.UserID})

	refs, err := s.resources.Related(ctx, parent.ResourceID)
	if err != nil {
		log.Warn("list related resources failed", map[string]any{"err": err})
		res.RelatedFailed = append(res.RelatedFailed, BulkFailure{ID: parent.ResourceID, Reason: err.Error()})
		return
	}

	for _, ref := range refs {
		rt := NormalizeResourceType(ref.Type)
		md := Metadata{ResourceName: ref.ID, ResourcePath: "/" + ref.ID}
		if s.resources.Supports(rt) {
			r, err := s.resources.Lookup(ctx, rt, ref.ID)
			if err != nil {
				log.Warn("related resource lookup failed", map[string]any{"resource_type": rt, "resource_id": ref.ID, "err": err})
				res.RelatedFailed = append(res.RelatedFailed, BulkFailure{ID: ref.ID, Reason: err.Error()})
				continue
			}
			md = s.metadataFor(ctx, r)
		}

		g, outcome, err := s.issue(ctx, issueSpec{
			key:             Key{OrganizationID: parent.OrganizationID, UserID: parent.UserID, ResourceType: rt, ResourceID: ref.ID},
			permission:      parent.Permission,
			accessType:      AccessInherited,
			inheritedFrom:   ResourceProject,
			inheritedFromID: parent.ResourceID,
			expiresAt:       cloneTime(parent.ExpiresAt),
			metadata:        md,
			grantedBy:       requesterID,
			keepExisting:    true,
		})
		if err != nil {
			log.Warn("inherited grant failed", map[string]any{"resource_type": rt, "resource_id": ref.ID, "err": err})
			res.RelatedFailed = append(res.RelatedFailed, BulkFailure{ID: ref.ID, Reason: err.Error()})
			continue
		}
		if outcome == issueSkipped {
			res.RelatedSkipped = append(res.RelatedSkipped, ref.ID)
			continue
		}
		res.Related = append(res.Related, g)
	}
}

// issue crea o fusiona el grant activo de la tupla bajo el lock de la tupla.
// Si otro proceso gana la carrera del Create, se fusiona sobre el ganador una sola vez.
func (s *Service) issue(ctx context.Context, spec issueSpec) (Grant, issueOutcome, error) {
	unlock, err := s.locker.Lock(ctx, spec.key.String())
	if err != nil {
		return Grant{}, 0, internal("lock grant tuple", err)
	}
	defer unlock()

	existing, err := s.repo.GetActive(ctx, spec.key)
	switch {
	case err == nil:
		return s.mergeInto(ctx, existing, spec)
	case errors.Is(err, ErrGrantNotFound):
	default:
		return Grant{}, 0, internal("get active grant", err)
	}

	g := s.newGrant(spec)
	if err := s.repo.Create(ctx, g); err != nil {
		if !errors.Is(err, ErrDuplicateActive) {
			return Grant{}, 0, internal("create grant", err)
		}
		winner, gerr := s.repo.GetActive(ctx, spec.key)
		if gerr != nil {
			return Grant{}, 0, conflict("concurrent issuance for the same user and resource")
		}
		return s.mergeInto(ctx, winner, spec)
	}
	return g, issueCreated, nil
}

func (s *Service) newGrant(spec issueSpec) Grant {
	now := s.now()
	g := Grant{
		ID:             s.newID(),
		OrganizationID: spec.key.OrganizationID,
		UserID:         spec.key.UserID,
		ResourceType:   spec.key.ResourceType,
		ResourceID:     spec.key.ResourceID,
		Permission:     spec.permission,
		AccessType:     spec.accessType,
		GrantedBy:      spec.grantedBy,
		GrantedAt:      now,
		CanDelegate:    spec.canDelegate,
		ExpiresAt:      cloneTime(spec.expiresAt),
		IsActive:       true,
		Metadata:       spec.metadata,
		Tags:           normalizeTags(spec.tags),
		Notes:          spec.notes,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	details := map[string]any{
		"permission": string(spec.permission),
		"accessType": string(spec.accessType),
	}
	if spec.accessType == AccessInherited {
		g.InheritedFrom = spec.inheritedFrom
		g.InheritedFromID = spec.inheritedFromID
		g.IsInherited = true
		details["inheritedFrom"] = string(spec.inheritedFrom)
		details["inheritedFromId"] = spec.inheritedFromID
	}
	appendAudit(&g, AuditGranted, spec.grantedBy, now, details)
	return g
}

// mergeInto: re-emitir sobre un activo actualiza permiso y une lo demás.
// Valores vacíos del nuevo pedido no pisan lo existente.
func (s *Service) mergeInto(ctx context.Context, g Grant, spec issueSpec) (Grant, issueOutcome, error) {
	if spec.keepExisting {
		return g, issueSkipped, nil
	}

	now := s.now()
	from := g.Permission

	g.Permission = spec.permission
	g.CanDelegate = g.CanDelegate || spec.canDelegate
	if spec.expiresAt != nil {
		g.ExpiresAt = cloneTime(spec.expiresAt)
	}
	if spec.notes != "" {
		g.Notes = spec.notes
	}
	g.Tags = unionTags(g.Tags, spec.tags)
	g.Metadata = mergeMetadata(g.Metadata, spec.metadata)
	g.UpdatedAt = now

	appendAudit(&g, AuditAccessUpdated, spec.grantedBy, now, map[string]any{
		"from": string(from),
		"to":   string(spec.permission),
	})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, 0, err
	}
	return g, issueUpdated, nil
}

func mergeMetadata(old, incoming Metadata) Metadata {
	out := old
	if incoming.ResourceName != "" {
		out.ResourceName = incoming.ResourceName
	}
	if incoming.ResourcePath != "" {
		out.ResourcePath = incoming.ResourcePath
	}
	if incoming.Department != "" {
		out.Department = incoming.Department
	}
	if incoming.Team != "" {
		out.Team = incoming.Team
	}
	if incoming.Project != "" {
		out.Project = incoming.Project
	}
	return out
}

// lookupInOrg: un recurso de otra organización se reporta como inexistente.
func (s *Service) lookupInOrg(ctx context.Context, orgID string, t ResourceType, id string) (workspace.Resource, error) {
	if s.resources == nil {
		return workspace.Resource{}, internal("resource registry", errors.New("not configured"))
	}
	r, err := s.resources.Lookup(ctx, t, id)
	if err != nil {
		return workspace.Resource{}, err
	}
	if r.OrganizationID != "" && r.OrganizationID != orgID {
		return workspace.Resource{}, notFound(string(t) + " " + id)
	}
	return r, nil
}

func (s *Service) metadataFor(ctx context.Context, r workspace.Resource) Metadata {
	md, warnings := s.resources.ResolveMetadata(ctx, r)
	if len(warnings) > 0 {
		s.logFor(ctx).Debug("partial resource metadata", map[string]any{
			"resource_type": r.Ref.Type,
			"resource_id":   r.Ref.ID,
			"warnings":      warnings,
		})
	}
	return md
}

type UpdateInput struct {
	GrantID     string
	RequesterID string
	Permission  Permission
	Reason      string

	// nil = sin cambios. Tags no-nil reemplaza el set completo.
	ExpiresAt   *time.Time
	CanDelegate *bool
	Notes       *string
	Tags        []string
}

func (s *Service) UpdatePermission(ctx context.Context, in UpdateInput) (g Grant, err error) {
	defer func() { s.observe("update_permission", err) }()

	if !in.Permission.Valid() {
		return Grant{}, invalid("permission must be view, edit or admin")
	}
	requesterID := strings.TrimSpace(in.RequesterID)
	if requesterID == "" {
		return Grant{}, invalid("requester required")
	}

	g, err = s.load(ctx, in.GrantID)
	if err != nil {
		return Grant{}, err
	}
	if err := s.requireAdmin(ctx, g.OrganizationID, requesterID); err != nil {
		return Grant{}, err
	}

	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return Grant{}, invalid("expiresAt must be in the future")
	}

	from := g.Permission
	g.Permission = in.Permission
	if in.ExpiresAt != nil {
		g.ExpiresAt = cloneTime(in.ExpiresAt)
	}
	if in.CanDelegate != nil {
		g.CanDelegate = *in.CanDelegate
	}
	if in.Notes != nil {
		g.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Tags != nil {
		g.Tags = normalizeTags(in.Tags)
	}
	g.UpdatedAt = now

	appendAudit(&g, AuditPermissionUpdated, requesterID, now, map[string]any{
		"from":   string(from),
		"to":     string(in.Permission),
		"reason": strings.TrimSpace(in.Reason),
	})

	if err := s.save(ctx, &g); err != nil {
		return Grant{}, err
	}

	s.recordActivity(ctx, workspace.ActivityEvent{
		OrganizationID: g.OrganizationID,
		ActorID:        requesterID,
		Action:         "permission_updated",
		ResourceType:   string(g.ResourceType),
		ResourceID:     g.ResourceID,
		Details: map[string]any{
			"accessId": g.ID,
			"userId":   g.UserID,
			"from":     string(from),
			"to":       string(in.Permission),
		},
	})
	return g, nil
}
