package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/common"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/ingest"
	"github.com/docuflow/delivery-notes/internal/normalize"
	"github.com/docuflow/delivery-notes/internal/repository"
	"github.com/docuflow/delivery-notes/internal/sink"
	"github.com/docuflow/delivery-notes/internal/source"
	"github.com/docuflow/delivery-notes/internal/source/gmail"
)

// input pairs a cataloged document with its extraction work item.
type input struct {
	docID uuid.UUID
	doc   extract.DocumentInput
}

// collectInputs gathers work from the local directory or the mailbox,
// registering every file in the catalog. Content-hash duplicates are dropped
// here so a document never produces rows twice.
func collectInputs(
	ctx context.Context,
	cfg *common.Config,
	docs repository.DocumentRepository,
	dir string,
	useGmail bool,
	query string,
	logger *slog.Logger,
) ([]input, error) {
	ingestor := ingest.NewFSIngestor(docs, logger)
	var inputs []input

	if dir != "" {
		results, stats, err := ingestor.IngestDirectory(ctx, dir, true)
		if err != nil {
			return nil, fmt.Errorf("ingest directory: %w", err)
		}
		logger.Info("directory ingested",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"deduplicated", stats.Deduplicated,
		)
		for _, r := range results {
			if r.Err != "" || r.Deduplicated {
				continue
			}
			inputs = append(inputs, input{
				docID: r.Document.ID,
				doc: extract.DocumentInput{
					Path:   r.Document.SourcePath,
					Format: constants.MapExtToFormat(r.Document.FileExt),
				},
			})
		}
	}

	if useGmail {
		client, err := gmail.NewClient(ctx, gmail.Config{
			CredentialsFile: cfg.Gmail.CredentialsFile,
			MaxMessages:     cfg.Gmail.MaxMessages,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("gmail client: %w", err)
		}

		atts, err := client.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("gmail search: %w", err)
		}

		for _, att := range atts {
			in, ok := downloadAndRegister(ctx, client, ingestor, att, cfg.Output.WorkDir, logger)
			if ok {
				inputs = append(inputs, in)
			}
		}
	}

	return inputs, nil
}

func downloadAndRegister(
	ctx context.Context,
	client source.Source,
	ingestor *ingest.FSIngestor,
	att source.Attachment,
	workDir string,
	logger *slog.Logger,
) (input, bool) {
	path, err := client.Download(ctx, att, workDir)
	if err != nil {
		logger.Error("attachment download failed", "filename", att.Filename, "error", err)
		return input{}, false
	}

	r, err := ingestor.IngestPathWithMeta(ctx, path, repository.Document{
		Sender:       att.Meta.SenderRaw,
		Subject:      att.Meta.Subject,
		ReceivedDate: att.Meta.Date,
	})
	if err != nil {
		logger.Error("attachment ingest failed", "path", path, "error", err)
		return input{}, false
	}
	if r.Deduplicated {
		logger.Info("attachment already processed", "path", path)
		return input{}, false
	}

	return input{
		docID: r.Document.ID,
		doc: extract.DocumentInput{
			Path:   path,
			Format: att.Format,
			Meta:   att.Meta,
		},
	}, true
}

func writeRows(writers []sink.RowWriter, rows []normalize.Row) error {
	for _, w := range writers {
		if err := w.WriteRows(rows); err != nil {
			return err
		}
	}
	return nil
}
