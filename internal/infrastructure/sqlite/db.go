// Package sqlite implementa los puertos de persistencia sobre SQLite para instalaciones de un
// solo equipo y para pruebas. El pool se limita a una conexión: las escrituras quedan serializadas.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/aleman-inventario/internal/domain"
)

// timeLayout ancho fijo para que el orden textual coincida con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         TEXT PRIMARY KEY,
		sku        TEXT UNIQUE,
		name       TEXT NOT NULL UNIQUE,
		format     TEXT NOT NULL,
		pack_size  INTEGER NOT NULL CHECK (pack_size > 0),
		base_unit  TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	// quantity_milli: cantidad en milésimas, para sumar sin pasar por REAL.
	`CREATE TABLE IF NOT EXISTS movements (
		id             TEXT PRIMARY KEY,
		location_id    TEXT NOT NULL REFERENCES locations (id),
		product_id     TEXT NOT NULL REFERENCES products (id),
		type           TEXT NOT NULL,
		quantity_milli INTEGER NOT NULL,
		place          TEXT NOT NULL DEFAULT '',
		session_note   TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		created_by     TEXT NOT NULL DEFAULT '',
		corrected_at   TEXT,
		corrected_by   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_pair ON movements (location_id, product_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products (name COLLATE NOCASE)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		login         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		roles         TEXT NOT NULL DEFAULT '',
		location_id   TEXT REFERENCES locations (id),
		status        TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		login       TEXT NOT NULL,
		name        TEXT NOT NULL,
		roles       TEXT NOT NULL DEFAULT '',
		location_id TEXT REFERENCES locations (id),
		cart        BLOB,
		created_at  TEXT NOT NULL,
		expires_at  TEXT NOT NULL
	)`,
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" sirve para pruebas.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, domain.ConnectivityError("abrir sqlite", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ConnectivityError("ping sqlite", err)
	}
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return db, nil
}

// Querier es lo común entre *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
