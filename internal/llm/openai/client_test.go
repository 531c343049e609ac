package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/extract"
	"github.com/docuflow/delivery-notes/internal/llm"
)

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.png")
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0o644))
	return path
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil, nil)
}

func TestExtractStructuredOK(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(chatResponse(`{
			"shipping_address": "Acme Corp, 1 Main St",
			"date": "15/07/2022",
			"products": [{"description": "Oak Table", "quantity": "2", "price": "120.00"}],
			"total_price": "240.00"
		}`)))
	})

	res, raw, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path:   writeTempImage(t),
		Format: constants.IMAGE,
	})
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.Equal(t, "Acme Corp, 1 Main St", res.ShippingAddress)
	require.Equal(t, "15/07/2022", res.Date)
	require.Len(t, res.Products, 1)
	require.Equal(t, "240.00", res.TotalPrice)

	// The image travels inline as a data URL.
	msgs := gotBody["messages"].([]any)
	user := msgs[len(msgs)-1].(map[string]any)["content"].([]any)
	img := user[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	require.Contains(t, img, "data:image/png;base64,")
}

func TestExtractStructuredFencedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatResponse("```json\n{\"shipping_address\":\"a\",\"date\":\"d\",\"products\":[],\"total_price\":12}\n```")))
	})
	res, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: writeTempImage(t), Format: constants.IMAGE,
	})
	require.NoError(t, err)
	require.Equal(t, "12", res.TotalPrice)
}

func TestExtractStructuredQuota(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"type": "insufficient_quota", "message": "out of credits"}}`))
	})
	_, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: writeTempImage(t), Format: constants.IMAGE,
	})
	require.ErrorIs(t, err, llm.ErrQuotaExhausted)
}

func TestExtractStructuredModelMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": "model_not_found", "message": "no such model"}}`))
	})
	_, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: writeTempImage(t), Format: constants.IMAGE,
	})
	require.ErrorIs(t, err, llm.ErrModelUnavailable)
}

func TestExtractStructuredMalformedContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatResponse("I could not read the document, sorry.")))
	})
	_, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: writeTempImage(t), Format: constants.IMAGE,
	})
	require.ErrorIs(t, err, llm.ErrMalformedResponse)
}

func TestExtractStructuredInvalidShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`{"shipping_address": "a"}`)))
	})
	_, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: writeTempImage(t), Format: constants.IMAGE,
	})
	require.ErrorIs(t, err, llm.ErrMalformedResponse)
}

func TestExtractStructuredPDFNeedsRenderer(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil, nil)
	_, _, err := c.ExtractStructured(context.Background(), extract.DocumentInput{
		Path: "/tmp/x.pdf", Format: constants.PDF,
	})
	require.ErrorIs(t, err, llm.ErrModelUnavailable)
}
