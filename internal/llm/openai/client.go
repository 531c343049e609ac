package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/llm"
)

// ExtractStructured implements extract.StructuredExtractor over the vision
// chat/completions API. The document travels as a data-URL image: image files
// directly, PDFs through the configured PageRenderer.
func (c *Client) ExtractStructured(ctx context.Context, doc extract.DocumentInput) (extract.Result, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"path", doc.Path,
		"format", doc.Format,
	)

	dataURL, err := c.documentDataURL(doc)
	if err != nil {
		c.logger.Error("llm.extract.attach_error", "req_id", rid, "error", err)
		return extract.Result{}, nil, err
	}

	schema := llm.BuildDeliveryNoteJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"max_tokens":      c.cfg.MaxTokens,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "system", "content": llm.SchemaPromptMessage(schema)},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": llm.BuildUserPrompt(filepath.Base(doc.Path), doc.Meta.Subject)},
				{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
			}},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Result{}, nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return extract.Result{}, raw, fmt.Errorf("%w: decode response: %v", llm.ErrMalformedResponse, err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices", "req_id", rid, "raw", string(raw))
		return extract.Result{}, raw, fmt.Errorf("%w: no choices", llm.ErrMalformedResponse)
	}

	content, err := llm.ExtractJSONObject(cc.Choices[0].Message.Content)
	if err != nil {
		c.logger.Error("llm.extract.no_json", "req_id", rid, "content_len", len(cc.Choices[0].Message.Content))
		return extract.Result{}, raw, err
	}

	cleaned, dropped, err := llm.NormalizeAndSanitizeJSON(content, c.logger)
	if err != nil {
		c.logger.Error("llm.extract.sanitize_failed", "req_id", rid, "error", err)
		return extract.Result{}, content, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "dropped", dropped,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.Result{}, cleaned, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}

	var out extract.Result
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return extract.Result{}, cleaned, fmt.Errorf("%w: unmarshal fields: %v", llm.ErrMalformedResponse, err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"address", out.ShippingAddress != "",
		"date", out.Date,
		"products", len(out.Products),
		"total", out.TotalPrice,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

// documentDataURL turns the input file into an inline image. PDFs need a
// renderer; without one the call fails over to the heuristic tier upstream.
func (c *Client) documentDataURL(doc extract.DocumentInput) (string, error) {
	path := doc.Path
	if doc.Format == constants.PDF {
		if c.renderer == nil {
			return "", fmt.Errorf("%w: no page renderer for pdf input", llm.ErrModelUnavailable)
		}
		pngPath, cleanup, err := c.renderer.RenderFirstPage(doc.Path)
		if err != nil {
			return "", fmt.Errorf("render pdf page: %w", err)
		}
		defer cleanup()
		u, _, err := llm.ReadAsDataURL(pngPath)
		if err != nil {
			return "", fmt.Errorf("encode rendered page: %w", err)
		}
		return u, nil
	}
	u, _, err := llm.ReadAsDataURL(path)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return u, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, raw)
	}
	return raw, nil
}

// classifyStatus maps provider failures onto the pipeline's sentinel errors.
func classifyStatus(status int, body []byte) error {
	var e struct {
		Error struct {
			Code    string `json:"code"`
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &e)

	switch {
	case status == http.StatusTooManyRequests || e.Error.Type == "insufficient_quota":
		return fmt.Errorf("%w: status %d: %s", llm.ErrQuotaExhausted, status, e.Error.Message)
	case e.Error.Code == "model_not_found" || status == http.StatusNotFound:
		return fmt.Errorf("%w: status %d: %s", llm.ErrModelUnavailable, status, e.Error.Message)
	default:
		return fmt.Errorf("openai status %d: %s", status, strings.TrimSpace(string(body)))
	}
}
