// Package gmail implements the mailbox source over the Gmail REST API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/source"
)

const user = "me"

type Config struct {
	CredentialsFile string
	MaxMessages     int // cap across pages, default 100
}

type Client struct {
	svc    *gmail.Service
	cfg    Config
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 100
	}
	opts := []option.ClientOption{option.WithScopes(gmail.GmailReadonlyScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return &Client{svc: svc, cfg: cfg, logger: logger}, nil
}

// Search lists messages matching the query and returns every supported
// attachment with its message metadata.
func (c *Client) Search(ctx context.Context, query string) ([]source.Attachment, error) {
	var out []source.Attachment
	pageToken := ""
	seen := 0

	for {
		call := c.svc.Users.Messages.List(user).Q(query).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, m := range resp.Messages {
			if seen >= c.cfg.MaxMessages {
				return out, nil
			}
			seen++

			full, err := c.svc.Users.Messages.Get(user, m.Id).Format("full").Context(ctx).Do()
			if err != nil {
				c.logger.Warn("gmail.message.get_failed", "message_id", m.Id, "error", err)
				continue
			}
			atts := c.collectAttachments(full)
			if len(atts) == 0 {
				c.logger.Debug("gmail.message.no_attachments", "message_id", m.Id)
			}
			out = append(out, atts...)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" || seen >= c.cfg.MaxMessages {
			break
		}
	}

	c.logger.Info("gmail.search.ok", "query", query, "messages", seen, "attachments", len(out))
	return out, nil
}

// Download fetches the attachment body and writes it under destDir.
func (c *Client) Download(ctx context.Context, att source.Attachment, destDir string) (string, error) {
	body, err := c.svc.Users.Messages.Attachments.Get(user, att.MessageID, att.AttachmentID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get attachment: %w", err)
	}
	data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(body.Data)
	if err != nil {
		return "", fmt.Errorf("decode attachment: %w", err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("dest dir: %w", err)
	}
	// message id prefix keeps same-named attachments from distinct mails apart
	path := filepath.Join(destDir, att.MessageID+"-"+filepath.Base(att.Filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	c.logger.Debug("gmail.attachment.downloaded", "path", path, "bytes", len(data))
	return path, nil
}

// collectAttachments walks the MIME part tree, including nested multiparts
// and inline images, and keeps the parts the pipeline can process.
func (c *Client) collectAttachments(msg *gmail.Message) []source.Attachment {
	meta := messageMeta(msg)
	var out []source.Attachment

	// A non-multipart message carries the attachment on the payload itself,
	// so the walk starts at the payload part, not its children.
	var walk func(p *gmail.MessagePart)
	walk = func(p *gmail.MessagePart) {
		for _, child := range p.Parts {
			walk(child)
		}
		if p.Body == nil || p.Body.AttachmentId == "" || p.Filename == "" {
			return
		}
		// extension decides; the MIME type only rescues missing or
		// generic extensions for the formats we accept
		format := constants.MapExtToFormat(filepath.Ext(p.Filename))
		if format == "" {
			switch p.MimeType {
			case "application/pdf":
				format = constants.PDF
			case "image/png", "image/jpeg":
				format = constants.IMAGE
			}
		}
		if format == "" {
			return
		}
		out = append(out, source.Attachment{
			MessageID:    msg.Id,
			AttachmentID: p.Body.AttachmentId,
			Filename:     p.Filename,
			MIMEType:     p.MimeType,
			Format:       format,
			Meta:         meta,
		})
	}
	if msg.Payload != nil {
		walk(msg.Payload)
	}
	return out
}

// messageMeta pulls sender, date, and subject from the message headers. The
// date is normalized to YYYY-MM-DD; an unparseable header falls back to the
// internal receive timestamp.
func messageMeta(msg *gmail.Message) extract.SourceMeta {
	var meta extract.SourceMeta
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "From":
				meta.SenderRaw = h.Value
			case "Subject":
				meta.Subject = h.Value
			case "Date":
				meta.Date = normalizeDate(h.Value)
			}
		}
	}
	if meta.Date == "" && msg.InternalDate > 0 {
		meta.Date = time.UnixMilli(msg.InternalDate).UTC().Format("2006-01-02")
	}
	return meta
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

func normalizeDate(raw string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return ""
}
