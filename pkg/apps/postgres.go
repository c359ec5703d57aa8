// pkg/apps/postgres.go
package apps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgDirectory implements Directory backed by PostgreSQL.
type pgDirectory struct {
	dbPool *pgxpool.Pool      // Connection pool to PostgreSQL
	log    *zap.SugaredLogger // Logger for diagnostic output
}

// NewPostgresDirectory constructs a PostgreSQL-backed app directory.
func NewPostgresDirectory(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Directory {
	return &pgDirectory{dbPool: dbPool, log: log}
}

// HashSecret returns the hex SHA-256 digest stored in place of raw secrets.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS apps (
  id uuid PRIMARY KEY,
  owner_id uuid,
  name text,
  doc_id text,
  secret_hash text UNIQUE,
  authorized_origin text,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS usage_events (
	id BIGSERIAL PRIMARY KEY,
	app_id uuid NOT NULL,
	owner_id uuid,
	kind text,
	request_id text,
	status_code int,
	duration_ms int,
	created_at timestamptz NOT NULL DEFAULT NOW()
);
-- Backfill / ensure new columns exist (for upgrades)
ALTER TABLE apps ADD COLUMN IF NOT EXISTS doc_id text;
ALTER TABLE apps ADD COLUMN IF NOT EXISTS authorized_origin text;
CREATE INDEX IF NOT EXISTS usage_events_app_idx ON usage_events(app_id, created_at);
`)
	return err
}

// SeedEntry is one app in the APP_SEED_JSON / APP_SEED_FILE payload.
// Raw secrets appear only in seeds; the table stores their hash.
type SeedEntry struct {
	ID               string `json:"id" yaml:"id"`
	OwnerID          string `json:"owner_id" yaml:"owner_id"`
	Name             string `json:"name" yaml:"name"`
	DocID            string `json:"doc_id" yaml:"doc_id"`
	Secret           string `json:"secret" yaml:"secret"`
	AuthorizedOrigin string `json:"authorized_origin" yaml:"authorized_origin"`
}

// SeedFromEnv ingests initial app data (APP_SEED_JSON).
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []SeedEntry
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		_, _ = dbPool.Exec(ctx, `INSERT INTO apps(id,owner_id,name,doc_id,secret_hash,authorized_origin)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (id) DO UPDATE SET owner_id=EXCLUDED.owner_id,name=EXCLUDED.name,doc_id=EXCLUDED.doc_id,secret_hash=EXCLUDED.secret_hash,authorized_origin=EXCLUDED.authorized_origin,updated_at=NOW()`,
			entry.ID, entry.OwnerID, entry.Name, entry.DocID, HashSecret(entry.Secret), entry.AuthorizedOrigin)
	}
	return nil
}

// ResolveAppBySecret fetches an app by the widget secret (hash lookup).
func (p *pgDirectory) ResolveAppBySecret(ctx context.Context, secret string) (App, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT id,COALESCE(owner_id::text,''),COALESCE(name,''),COALESCE(doc_id,''),COALESCE(authorized_origin,'') FROM apps WHERE secret_hash=$1`, HashSecret(secret))
	var a App
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.DocID, &a.AuthorizedOrigin); err != nil {
		return App{}, ErrNotFound
	}
	return a, nil
}

// ResolveAppByID fetches an app by its UUID.
func (p *pgDirectory) ResolveAppByID(ctx context.Context, id string) (App, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT id,COALESCE(owner_id::text,''),COALESCE(name,''),COALESCE(doc_id,''),COALESCE(authorized_origin,'') FROM apps WHERE id=$1`, id)
	var a App
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.DocID, &a.AuthorizedOrigin); err != nil {
		return App{}, ErrNotFound
	}
	return a, nil
}
