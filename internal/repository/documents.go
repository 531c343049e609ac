package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docuflow/delivery-notes/internal/common"
)

// Document is one cataloged input file.
type Document struct {
	ID           uuid.UUID
	SourcePath   string
	FileExt      string
	ContentHash  string
	Sender       string
	Subject      string
	ReceivedDate string
	CreatedAt    time.Time
}

// DocumentRepository persists documents keyed by content hash.
type DocumentRepository interface {
	// UpsertByHash registers a file. A hash already present returns the
	// existing row with deduplicated=true.
	UpsertByHash(ctx context.Context, d Document) (Document, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
}

type documentRepo struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) UpsertByHash(ctx context.Context, d Document) (Document, bool, error) {
	existing, err := r.getByHash(ctx, d.ContentHash)
	if err == nil {
		return existing, true, nil
	}
	if err != sql.ErrNoRows {
		return Document{}, false, fmt.Errorf("lookup by hash: %w", err)
	}

	d.ID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, file_ext, content_hash, sender, subject, received_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID.String(), d.SourcePath, d.FileExt, d.ContentHash, d.Sender, d.Subject, d.ReceivedDate, d.CreatedAt,
	)
	if err != nil {
		// lost a race to a concurrent insert of the same hash
		if existing, lookupErr := r.getByHash(ctx, d.ContentHash); lookupErr == nil {
			return existing, true, nil
		}
		return Document{}, false, fmt.Errorf("insert document: %w", err)
	}
	return d, false, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	d, err := r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, source_path, file_ext, content_hash, sender, subject, received_date, created_at
		 FROM documents WHERE id = $1`, id.String()))
	if err == sql.ErrNoRows {
		return Document{}, fmt.Errorf("document %s: %w", id, common.ErrNotFound)
	}
	return d, err
}

func (r *documentRepo) getByHash(ctx context.Context, hash string) (Document, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, source_path, file_ext, content_hash, sender, subject, received_date, created_at
		 FROM documents WHERE content_hash = $1`, hash))
}

func (r *documentRepo) scanOne(row *sql.Row) (Document, error) {
	var d Document
	var id string
	if err := row.Scan(&id, &d.SourcePath, &d.FileExt, &d.ContentHash, &d.Sender, &d.Subject, &d.ReceivedDate, &d.CreatedAt); err != nil {
		return Document{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Document{}, fmt.Errorf("parse document id: %w", err)
	}
	d.ID = parsed
	return d, nil
}
