package mongodb

import (
	"time"

	"workspace-access/internal/domain/access"
)

type grantDocument struct {
	ID string `bson:"_id"`

	OrganizationID string `bson:"organizationId"`
	UserID         string `bson:"userId"`
	ResourceType   string `bson:"resourceType"`
	ResourceID     string `bson:"resourceId"`

	Permission string `bson:"permission"`
	AccessType string `bson:"accessType"`

	GrantedBy string    `bson:"grantedBy"`
	GrantedAt time.Time `bson:"grantedAt"`

	InheritedFrom   string `bson:"inheritedFrom,omitempty"`
	InheritedFromID string `bson:"inheritedFromId,omitempty"`
	IsInherited     bool   `bson:"isInherited"`

	CanDelegate bool                 `bson:"canDelegate"`
	Delegations []delegationDocument `bson:"delegations"`

	ExpiresAt *time.Time `bson:"expiresAt"`
	IsActive  bool       `bson:"isActive"`

	RevokedAt        *time.Time `bson:"revokedAt,omitempty"`
	RevokedBy        string     `bson:"revokedBy,omitempty"`
	RevocationReason string     `bson:"revocationReason,omitempty"`
	RestoredAt       *time.Time `bson:"restoredAt,omitempty"`
	RestoredBy       string     `bson:"restoredBy,omitempty"`

	Metadata metadataDocument `bson:"metadata"`
	Tags     []string         `bson:"tags"`
	Notes    string           `bson:"notes,omitempty"`

	AccessCount    int64      `bson:"accessCount"`
	LastAccessedAt *time.Time `bson:"lastAccessedAt,omitempty"`

	AuditLog []auditDocument `bson:"auditLog"`

	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type delegationDocument struct {
	TargetUserID string     `bson:"targetUserId"`
	Permission   string     `bson:"permission"`
	DelegatedBy  string     `bson:"delegatedBy"`
	DelegatedAt  time.Time  `bson:"delegatedAt"`
	ExpiresAt    *time.Time `bson:"expiresAt,omitempty"`
	Revoked      bool       `bson:"revoked"`
	RevokedAt    *time.Time `bson:"revokedAt,omitempty"`
}

type metadataDocument struct {
	ResourceName string `bson:"resourceName,omitempty"`
	ResourcePath string `bson:"resourcePath,omitempty"`
	Department   string `bson:"department,omitempty"`
	Team         string `bson:"team,omitempty"`
	Project      string `bson:"project,omitempty"`
}

type auditDocument struct {
	Action      string         `bson:"action"`
	PerformedBy string         `bson:"performedBy"`
	Timestamp   time.Time      `bson:"timestamp"`
	Details     map[string]any `bson:"details,omitempty"`
}

// toDocument normaliza los tiempos a UTC: Mongo guarda milisegundos en UTC.
func toDocument(g access.Grant) grantDocument {
	doc := grantDocument{
		ID:               g.ID,
		OrganizationID:   g.OrganizationID,
		UserID:           g.UserID,
		ResourceType:     string(g.ResourceType),
		ResourceID:       g.ResourceID,
		Permission:       string(g.Permission),
		AccessType:       string(g.AccessType),
		GrantedBy:        g.GrantedBy,
		GrantedAt:        g.GrantedAt.UTC(),
		InheritedFrom:    string(g.InheritedFrom),
		InheritedFromID:  g.InheritedFromID,
		IsInherited:      g.IsInherited,
		CanDelegate:      g.CanDelegate,
		Delegations:      make([]delegationDocument, 0, len(g.Delegations)),
		ExpiresAt:        utcPtr(g.ExpiresAt),
		IsActive:         g.IsActive,
		RevokedAt:        utcPtr(g.RevokedAt),
		RevokedBy:        g.RevokedBy,
		RevocationReason: g.RevocationReason,
		RestoredAt:       utcPtr(g.RestoredAt),
		RestoredBy:       g.RestoredBy,
		Metadata:         metadataDocument(g.Metadata),
		Tags:             append([]string{}, g.Tags...),
		Notes:            g.Notes,
		AccessCount:      g.AccessCount,
		LastAccessedAt:   utcPtr(g.LastAccessedAt),
		AuditLog:         make([]auditDocument, 0, len(g.AuditLog)),
		Version:          g.Version,
		CreatedAt:        g.CreatedAt.UTC(),
		UpdatedAt:        g.UpdatedAt.UTC(),
	}
	for _, d := range g.Delegations {
		doc.Delegations = append(doc.Delegations, delegationDocument{
			TargetUserID: d.TargetUserID,
			Permission:   string(d.Permission),
			DelegatedBy:  d.DelegatedBy,
			DelegatedAt:  d.DelegatedAt.UTC(),
			ExpiresAt:    utcPtr(d.ExpiresAt),
			Revoked:      d.Revoked,
			RevokedAt:    utcPtr(d.RevokedAt),
		})
	}
	for _, e := range g.AuditLog {
		doc.AuditLog = append(doc.AuditLog, auditDocument{
			Action:      e.Action,
			PerformedBy: e.PerformedBy,
			Timestamp:   e.Timestamp.UTC(),
			Details:     e.Details,
		})
	}
	return doc
}

func (d grantDocument) toGrant() access.Grant {
	g := access.Grant{
		ID:               d.ID,
		OrganizationID:   d.OrganizationID,
		UserID:           d.UserID,
		ResourceType:     access.ResourceType(d.ResourceType),
		ResourceID:       d.ResourceID,
		Permission:       access.Permission(d.Permission),
		AccessType:       access.AccessType(d.AccessType),
		GrantedBy:        d.GrantedBy,
		GrantedAt:        d.GrantedAt,
		InheritedFrom:    access.ResourceType(d.InheritedFrom),
		InheritedFromID:  d.InheritedFromID,
		IsInherited:      d.IsInherited,
		CanDelegate:      d.CanDelegate,
		ExpiresAt:        d.ExpiresAt,
		IsActive:         d.IsActive,
		RevokedAt:        d.RevokedAt,
		RevokedBy:        d.RevokedBy,
		RevocationReason: d.RevocationReason,
		RestoredAt:       d.RestoredAt,
		RestoredBy:       d.RestoredBy,
		Metadata:         access.Metadata(d.Metadata),
		Tags:             d.Tags,
		Notes:            d.Notes,
		AccessCount:      d.AccessCount,
		LastAccessedAt:   d.LastAccessedAt,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for _, dd := range d.Delegations {
		g.Delegations = append(g.Delegations, access.Delegation{
			TargetUserID: dd.TargetUserID,
			Permission:   access.Permission(dd.Permission),
			DelegatedBy:  dd.DelegatedBy,
			DelegatedAt:  dd.DelegatedAt,
			ExpiresAt:    dd.ExpiresAt,
			Revoked:      dd.Revoked,
			RevokedAt:    dd.RevokedAt,
		})
	}
	for _, e := range d.AuditLog {
		g.AuditLog = append(g.AuditLog, access.AuditEntry{
			Action:      e.Action,
			PerformedBy: e.PerformedBy,
			Timestamp:   e.Timestamp,
			Details:     e.Details,
		})
	}
	return g
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
