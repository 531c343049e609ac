package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docuflow/delivery-notes/constants"
)

// ExtractJob records one extraction attempt against a document.
type ExtractJob struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Status     constants.JobStatus
	Tier       constants.Tier
	Error      string
	Rows       int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// JobRepository tracks extraction attempts.
type JobRepository interface {
	Start(ctx context.Context, documentID uuid.UUID) (ExtractJob, error)
	Finish(ctx context.Context, jobID uuid.UUID, tier constants.Tier, rows int, jobErr error) error
	ListForDocument(ctx context.Context, documentID uuid.UUID) ([]ExtractJob, error)
}

type jobRepo struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Start(ctx context.Context, documentID uuid.UUID) (ExtractJob, error) {
	j := ExtractJob{
		ID:         uuid.New(),
		DocumentID: documentID,
		Status:     constants.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extract_jobs (id, document_id, status, started_at) VALUES ($1, $2, $3, $4)`,
		j.ID.String(), j.DocumentID.String(), string(j.Status), j.StartedAt,
	)
	if err != nil {
		return ExtractJob{}, fmt.Errorf("start job: %w", err)
	}
	return j, nil
}

func (r *jobRepo) Finish(ctx context.Context, jobID uuid.UUID, tier constants.Tier, rows int, jobErr error) error {
	status := constants.JobStatusOK
	errMsg := ""
	if jobErr != nil {
		status = constants.JobStatusFailed
		errMsg = jobErr.Error()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE extract_jobs SET status = $1, tier = $2, error = $3, row_count = $4, finished_at = $5 WHERE id = $6`,
		string(status), string(tier), errMsg, rows, now, jobID.String(),
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

func (r *jobRepo) ListForDocument(ctx context.Context, documentID uuid.UUID) ([]ExtractJob, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_id, status, tier, error, row_count, started_at, finished_at
		 FROM extract_jobs WHERE document_id = $1 ORDER BY started_at`,
		documentID.String())
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ExtractJob
	for rows.Next() {
		var j ExtractJob
		var id, docID, status, tier string
		var finished sql.NullTime
		if err := rows.Scan(&id, &docID, &status, &tier, &j.Error, &j.Rows, &j.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.ID, _ = uuid.Parse(id)
		j.DocumentID, _ = uuid.Parse(docID)
		j.Status = constants.JobStatus(status)
		j.Tier = constants.Tier(tier)
		if finished.Valid {
			t := finished.Time
			j.FinishedAt = &t
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
