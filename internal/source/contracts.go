// Package source lists delivery-note documents coming from outside the local
// filesystem, currently a Gmail mailbox.
package source

import (
	"context"

	"github.com/docuflow/delivery-notes/internal/extract"
)

// Attachment describes one downloadable document and the message metadata
// that travels with it into extraction.
type Attachment struct {
	MessageID    string
	AttachmentID string
	Filename     string
	MIMEType     string
	Format       string // constants.PDF | constants.IMAGE
	Meta         extract.SourceMeta
}

// Source finds attachments and materializes them as local files.
type Source interface {
	Search(ctx context.Context, query string) ([]Attachment, error)
	// Download writes the attachment under destDir and returns its path.
	Download(ctx context.Context, att Attachment, destDir string) (string, error)
}
