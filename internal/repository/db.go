// Package repository is the document catalog: which files were seen, their
// content hashes, and the outcome of every extraction attempt.
package repository

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
	_ "modernc.org/sqlite"             // database/sql driver "sqlite"

	"github.com/docuflow/delivery-notes/internal/common"
)

// Open connects to the catalog. A postgres:// DSN goes through pgx; anything
// else is treated as a sqlite file path (":memory:" works for tests).
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, common.NewAppError("catalog.open", "open "+driver, err)
	}
	if driver == "sqlite" {
		// a pooled :memory: database would hand every connection its own
		// empty schema; file databases get serialized writes for free
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("catalog.open", "ping "+driver, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrate applies the schema. Statements are idempotent so startup can run
// them unconditionally.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id            TEXT PRIMARY KEY,
			source_path   TEXT NOT NULL,
			file_ext      TEXT NOT NULL,
			content_hash  TEXT NOT NULL UNIQUE,
			sender        TEXT NOT NULL DEFAULT '',
			subject       TEXT NOT NULL DEFAULT '',
			received_date TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS extract_jobs (
			id          TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id),
			status      TEXT NOT NULL,
			tier        TEXT NOT NULL DEFAULT '',
			error       TEXT NOT NULL DEFAULT '',
			row_count   INTEGER NOT NULL DEFAULT 0,
			started_at  TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_extract_jobs_document ON extract_jobs(document_id)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return common.NewAppError("catalog.migrate", "apply schema", err)
		}
	}
	return nil
}
