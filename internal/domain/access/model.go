package access

import "time"

// MaxAuditEntries acota el audit log por grant; se descartan las entradas más viejas.
const MaxAuditEntries = 5000

// Key identifica la tupla sobre la que existe, como mucho, un grant activo.
type Key struct {
	OrganizationID string
	UserID         string
	ResourceType   ResourceType
	ResourceID     string
}

func (k Key) String() string {
	return k.OrganizationID + "|" + k.UserID + "|" + string(k.ResourceType) + "|" + k.ResourceID
}

// Metadata es un snapshot calculado al crear el grant; no se recalcula si el padre cambia de nombre.
type Metadata struct {
	ResourceName string `json:"resourceName,omitempty"`
	ResourcePath string `json:"resourcePath,omitempty"`
	Department   string `json:"department,omitempty"`
	Team         string `json:"team,omitempty"`
	Project      string `json:"project,omitempty"`
}

type Delegation struct {
	TargetUserID string     `json:"targetUserId"`
	Permission   Permission `json:"permission"`
	DelegatedBy  string     `json:"delegatedBy"`
	DelegatedAt  time.Time  `json:"delegatedAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Revoked      bool       `json:"revoked"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
}

// Live: no revocada y no vencida.
func (d Delegation) Live(now time.Time) bool {
	if d.Revoked {
		return false
	}
	return d.ExpiresAt == nil || d.ExpiresAt.After(now)
}

type AuditEntry struct {
	Action      string         `json:"action"`
	PerformedBy string         `json:"performedBy"`
	Timestamp   time.Time      `json:"timestamp"`
	Details     map[string]any `json:"details,omitempty"`
}

const (
	AuditGranted           = "granted"
	AuditAccessUpdated     = "access_updated"
	AuditPermissionUpdated = "permission_updated"
	AuditRevoked           = "revoked"
	AuditRestored          = "restored"
	AuditDelegated         = "delegated"
	AuditDelegationRevoked = "delegation_revoked"
	AuditTagAdded          = "tag_added"
	AuditTagRemoved        = "tag_removed"
)

// Grant da a un usuario un nivel de permiso sobre un recurso.
type Grant struct {
	ID string

	OrganizationID string
	UserID         string
	ResourceType   ResourceType
	ResourceID     string

	Permission Permission
	AccessType AccessType

	GrantedBy string
	GrantedAt time.Time

	// Solo con AccessType = inherited.
	InheritedFrom   ResourceType
	InheritedFromID string
	IsInherited     bool

	CanDelegate bool
	Delegations []Delegation

	ExpiresAt *time.Time
	IsActive  bool

	RevokedAt        *time.Time
	RevokedBy        string
	RevocationReason string
	RestoredAt       *time.Time
	RestoredBy       string

	Metadata Metadata
	Tags     []string
	Notes    string

	AccessCount    int64
	LastAccessedAt *time.Time

	AuditLog []AuditEntry

	// Version se usa como compare-and-swap en Repository.Update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g Grant) Key() Key {
	return Key{
		OrganizationID: g.OrganizationID,
		UserID:         g.UserID,
		ResourceType:   g.ResourceType,
		ResourceID:     g.ResourceID,
	}
}

// Expired: expiresAt ya pasó. Es un flag ortogonal a IsActive.
func (g Grant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

func (g Grant) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone copia profunda: los repos in-memory no deben compartir slices/punteros con quien llama.
func (g Grant) Clone() Grant {
	out := g
	out.ExpiresAt = cloneTime(g.ExpiresAt)
	out.RevokedAt = cloneTime(g.RevokedAt)
	out.RestoredAt = cloneTime(g.RestoredAt)
	out.LastAccessedAt = cloneTime(g.LastAccessedAt)

	if g.Tags != nil {
		out.Tags = append([]string(nil), g.Tags...)
	}
	if g.Delegations != nil {
		out.Delegations = make([]Delegation, len(g.Delegations))
		for i, d := range g.Delegations {
			d.ExpiresAt = cloneTime(d.ExpiresAt)
			d.RevokedAt = cloneTime(d.RevokedAt)
			out.Delegations[i] = d
		}
	}
	if g.AuditLog != nil {
		out.AuditLog = make([]AuditEntry, len(g.AuditLog))
		for i, e := range g.AuditLog {
			if e.Details != nil {
				details := make(map[string]any, len(e.Details))
				for k, v := range e.Details {
					details[k] = v
				}
				e.Details = details
			}
			out.AuditLog[i] = e
		}
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
