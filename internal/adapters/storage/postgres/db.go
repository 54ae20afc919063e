package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// schema es idempotente. El índice parcial access_grants_active_key es el que
// sostiene "como mucho un grant activo por tupla" aunque haya varias réplicas.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS access_grants (
		id                TEXT PRIMARY KEY,
		organization_id   TEXT NOT NULL,
		user_id           TEXT NOT NULL,
		resource_type     TEXT NOT NULL,
		resource_id       TEXT NOT NULL,
		permission        TEXT NOT NULL,
		access_type       TEXT NOT NULL,
		granted_by        TEXT NOT NULL,
		granted_at        TIMESTAMPTZ NOT NULL,
		inherited_from    TEXT NOT NULL DEFAULT '',
		inherited_from_id TEXT NOT NULL DEFAULT '',
		is_inherited      BOOLEAN NOT NULL DEFAULT false,
		can_delegate      BOOLEAN NOT NULL DEFAULT false,
		delegations       JSONB NOT NULL DEFAULT '[]',
		expires_at        TIMESTAMPTZ NULL,
		is_active         BOOLEAN NOT NULL DEFAULT true,
		revoked_at        TIMESTAMPTZ NULL,
		revoked_by        TEXT NOT NULL DEFAULT '',
		revocation_reason TEXT NOT NULL DEFAULT '',
		restored_at       TIMESTAMPTZ NULL,
		restored_by       TEXT NOT NULL DEFAULT '',
		metadata          JSONB NOT NULL DEFAULT '{}',
		tags              JSONB NOT NULL DEFAULT '[]',
		notes             TEXT NOT NULL DEFAULT '',
		access_count      BIGINT NOT NULL DEFAULT 0,
		last_accessed_at  TIMESTAMPTZ NULL,
		audit_log         JSONB NOT NULL DEFAULT '[]',
		version           BIGINT NOT NULL DEFAULT 1,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS access_grants_active_key
		ON access_grants (organization_id, user_id, resource_type, resource_id)
		WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS access_grants_user_resource
		ON access_grants (user_id, resource_type, resource_id)`,
	`CREATE INDEX IF NOT EXISTS access_grants_inherited_from
		ON access_grants (inherited_from_id)
		WHERE inherited_from_id <> ''`,
	`CREATE INDEX IF NOT EXISTS access_grants_expiring
		ON access_grants (expires_at)
		WHERE is_active AND expires_at IS NOT NULL`,
}

// Migrate crea la tabla e índices de access_grants si no existen.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
