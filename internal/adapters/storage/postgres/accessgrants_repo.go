package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"workspace-access/internal/domain/access"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation es el SQLSTATE de Postgres para unique_violation.
const uniqueViolation = "23505"

type AccessGrantsRepo struct {
	db *sql.DB
}

func NewAccessGrantsRepo(db *sql.DB) *AccessGrantsRepo {
	return &AccessGrantsRepo{db: db}
}

var _ access.Repository = (*AccessGrantsRepo)(nil)

const grantColumns = `
	id, organization_id, user_id, resource_type, resource_id,
	permission, access_type, granted_by, granted_at,
	inherited_from, inherited_from_id, is_inherited,
	can_delegate, delegations, expires_at, is_active,
	revoked_at, revoked_by, revocation_reason, restored_at, restored_by,
	metadata, tags, notes, access_count, last_accessed_at,
	audit_log, version, created_at, updated_at`

func (r *AccessGrantsRepo) Create(ctx context.Context, g access.Grant) error {
	enc, err := encodeGrant(g)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO access_grants (`+grantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
	`,
		g.ID,
		g.OrganizationID,
		g.UserID,
		string(g.ResourceType),
		g.ResourceID,
		string(g.Permission),
		string(g.AccessType),
		g.GrantedBy,
		g.GrantedAt,
		string(g.InheritedFrom),
		g.InheritedFromID,
		g.IsInherited,
		g.CanDelegate,
		enc.delegations,
		toNullTime(g.ExpiresAt),
		g.IsActive,
		toNullTime(g.RevokedAt),
		g.RevokedBy,
		g.RevocationReason,
		toNullTime(g.RestoredAt),
		g.RestoredBy,
		enc.metadata,
		enc.tags,
		g.Notes,
		g.AccessCount,
		toNullTime(g.LastAccessedAt),
		enc.auditLog,
		g.Version,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return access.ErrDuplicateActive
	}
	return err
}

// Update: compare-and-swap sobre version. La clave de la tupla es inmutable y no se reescribe.
func (r *AccessGrantsRepo) Update(ctx context.Context, g access.Grant) error {
	enc, err := encodeGrant(g)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET
			permission = $3,
			access_type = $4,
			can_delegate = $5,
			delegations = $6,
			expires_at = $7,
			is_active = $8,
			revoked_at = $9,
			revoked_by = $10,
			revocation_reason = $11,
			restored_at = $12,
			restored_by = $13,
			metadata = $14,
			tags = $15,
			notes = $16,
			access_count = $17,
			last_accessed_at = $18,
			audit_log = $19,
			updated_at = $20,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		g.ID,
		g.Version,
		string(g.Permission),
		string(g.AccessType),
		g.CanDelegate,
		enc.delegations,
		toNullTime(g.ExpiresAt),
		g.IsActive,
		toNullTime(g.RevokedAt),
		g.RevokedBy,
		g.RevocationReason,
		toNullTime(g.RestoredAt),
		g.RestoredBy,
		enc.metadata,
		enc.tags,
		g.Notes,
		g.AccessCount,
		toNullTime(g.LastAccessedAt),
		enc.auditLog,
		g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return access.ErrDuplicateActive
		}
		return err
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM access_grants WHERE id = $1)`, g.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return access.ErrGrantNotFound
	}
	return access.ErrStaleVersion
}

func (r *AccessGrantsRepo) GetByID(ctx context.Context, id string) (access.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return access.Grant{}, access.ErrGrantNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+grantColumns+` FROM access_grants WHERE id = $1`, id)
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Grant{}, access.ErrGrantNotFound
	}
	return g, err
}

func (r *AccessGrantsRepo) GetActive(ctx context.Context, k access.Key) (access.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE organization_id = $1
		  AND user_id = $2
		  AND resource_type = $3
		  AND resource_id = $4
		  AND is_active
	`, k.OrganizationID, k.UserID, string(k.ResourceType), k.ResourceID)

	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Grant{}, access.ErrGrantNotFound
	}
	return g, err
}

func (r *AccessGrantsRepo) List(ctx context.Context, f access.ListFilter) ([]access.Grant, error) {
	where, args := buildListWhere(f)

	q := `SELECT ` + grantColumns + ` FROM access_grants` + where + ` ORDER BY granted_at ASC, id ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]access.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeactivateExpired es un único UPDATE: el filtro is_active evita tocar dos veces el mismo grant.
func (r *AccessGrantsRepo) DeactivateExpired(ctx context.Context, organizationID string, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE access_grants
		SET is_active = false, updated_at = $1, version = version + 1
		WHERE is_active
		  AND expires_at IS NOT NULL
		  AND expires_at < $1
		  AND ($2 = '' OR organization_id = $2)
	`, now, organizationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// buildListWhere arma el WHERE con placeholders numerados; campos vacíos no filtran.
func buildListWhere(f access.ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if f.OrganizationID != "" {
		add("organization_id", f.OrganizationID)
	}
	if f.UserID != "" {
		add("user_id", f.UserID)
	}
	if f.ResourceType != "" {
		add("resource_type", string(f.ResourceType))
	}
	if f.ResourceID != "" {
		add("resource_id", f.ResourceID)
	}
	if f.InheritedFrom != "" {
		add("inherited_from", string(f.InheritedFrom))
	}
	if f.InheritedFromID != "" {
		add("inherited_from_id", f.InheritedFromID)
	}
	if f.Permission != "" {
		add("permission", string(f.Permission))
	}
	if f.ActiveOnly {
		conds = append(conds, "is_active")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(s rowScanner) (access.Grant, error) {
	var (
		g                                   access.Grant
		resourceType, permission, accessTyp string
		inheritedFrom                       string
		delegations, metadata, auditLog     []byte
		tags                                []byte
		expiresAt, revokedAt, restoredAt    sql.NullTime
		lastAccessedAt                      sql.NullTime
	)

	if err := s.Scan(
		&g.ID,
		&g.OrganizationID,
		&g.UserID,
		&resourceType,
		&g.ResourceID,
		&permission,
		&accessTyp,
		&g.GrantedBy,
		&g.GrantedAt,
		&inheritedFrom,
		&g.InheritedFromID,
		&g.IsInherited,
		&g.CanDelegate,
		&delegations,
		&expiresAt,
		&g.IsActive,
		&revokedAt,
		&g.RevokedBy,
		&g.RevocationReason,
		&restoredAt,
		&g.RestoredBy,
		&metadata,
		&tags,
		&g.Notes,
		&g.AccessCount,
		&lastAccessedAt,
		&auditLog,
		&g.Version,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return access.Grant{}, err
	}

	g.ResourceType = access.ResourceType(resourceType)
	g.Permission = access.Permission(permission)
	g.AccessType = access.AccessType(accessTyp)
	g.InheritedFrom = access.ResourceType(inheritedFrom)
	g.ExpiresAt = fromNullTime(expiresAt)
	g.RevokedAt = fromNullTime(revokedAt)
	g.RestoredAt = fromNullTime(restoredAt)
	g.LastAccessedAt = fromNullTime(lastAccessedAt)

	if err := decodeJSON(delegations, &g.Delegations); err != nil {
		return access.Grant{}, fmt.Errorf("decode delegations: %w", err)
	}
	if err := decodeJSON(metadata, &g.Metadata); err != nil {
		return access.Grant{}, fmt.Errorf("decode metadata: %w", err)
	}
	if err := decodeJSON(auditLog, &g.AuditLog); err != nil {
		return access.Grant{}, fmt.Errorf("decode audit log: %w", err)
	}
	if err := decodeJSON(tags, &g.Tags); err != nil {
		return access.Grant{}, fmt.Errorf("decode tags: %w", err)
	}
	return g, nil
}

// encodedGrant son las columnas jsonb; se pasan como texto y Postgres las castea.
type encodedGrant struct {
	delegations string
	metadata    string
	tags        string
	auditLog    string
}

func encodeGrant(g access.Grant) (encodedGrant, error) {
	delegations := g.Delegations
	if delegations == nil {
		delegations = []access.Delegation{}
	}
	auditLog := g.AuditLog
	if auditLog == nil {
		auditLog = []access.AuditEntry{}
	}

	d, err := json.Marshal(delegations)
	if err != nil {
		return encodedGrant{}, fmt.Errorf("encode delegations: %w", err)
	}
	m, err := json.Marshal(g.Metadata)
	if err != nil {
		return encodedGrant{}, fmt.Errorf("encode metadata: %w", err)
	}
	a, err := json.Marshal(auditLog)
	if err != nil {
		return encodedGrant{}, fmt.Errorf("encode audit log: %w", err)
	}
	t, err := json.Marshal(tagsOrEmpty(g.Tags))
	if err != nil {
		return encodedGrant{}, fmt.Errorf("encode tags: %w", err)
	}
	return encodedGrant{delegations: string(d), metadata: string(m), tags: string(t), auditLog: string(a)}, nil
}

func decodeJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// helpers
func tagsOrEmpty(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	return in
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
