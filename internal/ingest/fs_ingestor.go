package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/common"
	"github.com/docuflow/delivery-notes/internal/repository"
)

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{docs: docs, logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	return i.IngestPathWithMeta(ctx, path, repository.Document{})
}

// IngestPathWithMeta registers a file and carries source metadata (sender,
// subject, received date) into the catalog row. Mailbox sources use this;
// local files have no metadata to attach.
func (i *FSIngestor) IngestPathWithMeta(ctx context.Context, path string, meta repository.Document) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		return out, fmt.Errorf("extension %q: %w", ext, common.ErrInvalidInput)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.logger.Warn("ingest.close_failed", "path", abs, "error", err)
		}
	}(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, fmt.Errorf("hash: %w", err)
	}

	doc, dedup, err := i.docs.UpsertByHash(ctx, repository.Document{
		SourcePath:   abs,
		FileExt:      ext,
		ContentHash:  hex.EncodeToString(h.Sum(nil)),
		Sender:       meta.Sender,
		Subject:      meta.Subject,
		ReceivedDate: meta.ReceivedDate,
	})
	if err != nil {
		return out, common.WrapError(err, "register document")
	}

	i.logger.Debug("ingest.file", "path", abs, "deduplicated", dedup)
	return IngestionResult{Document: doc, Deduplicated: dedup}, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each matching file. Returns per-file results plus aggregate
// stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}
