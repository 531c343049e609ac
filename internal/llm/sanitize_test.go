package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestSanitizeCoercesNumerics(t *testing.T) {
	raw := []byte(`{
		"shipping_address": "1 Main St",
		"date": "15/07/2022",
		"total_price": 240.5,
		"products": [{"description": "Oak Table", "quantity": 2, "price": 120.25}]
	}`)
	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	m := decode(t, out)
	require.Equal(t, "240.50", m["total_price"])
	p := m["products"].([]any)[0].(map[string]any)
	require.Equal(t, "2", p["quantity"])
	require.Equal(t, "120.25", p["price"])
}

func TestSanitizeBuyerFillsAddress(t *testing.T) {
	raw := []byte(`{"buyer": "Acme Corp, 1 Main St", "date": "x", "total_price": "1.00", "products": []}`)
	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	require.Contains(t, dropped, "buyer->shipping_address")
	require.Equal(t, "Acme Corp, 1 Main St", decode(t, out)["shipping_address"])
}

func TestSanitizeRenamesSynonyms(t *testing.T) {
	raw := []byte(`{"ship_to": "a", "delivery_date": "d", "grand_total": "9.00", "items": []}`)
	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	m := decode(t, out)
	require.Equal(t, "a", m["shipping_address"])
	require.Equal(t, "d", m["date"])
	require.Equal(t, "9.00", m["total_price"])
}

func TestSanitizeDropsBadProductsAndUnknownKeys(t *testing.T) {
	raw := []byte(`{
		"shipping_address": "a", "date": "d", "total_price": "1.00",
		"confidence": 0.9,
		"products": ["stray string", {"description": "", "price": "1.00"}, {"description": "ok", "note": "x"}]
	}`)
	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	m := decode(t, out)
	require.NotContains(t, m, "confidence")

	ps := m["products"].([]any)
	require.Len(t, ps, 1)
	p := ps[0].(map[string]any)
	require.Equal(t, "ok", p["description"])
	require.NotContains(t, p, "note")
}

func TestSanitizedOutputValidates(t *testing.T) {
	raw := []byte(`{
		"delivery_address": "1 Main St",
		"date": "15/07/2022",
		"total": 12,
		"sender": null,
		"items": [{"description": "Widget", "quantity": 3, "price": 4}]
	}`)
	out, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(BuildDeliveryNoteJSONSchema(), out))
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildDeliveryNoteJSONSchema(),
		[]byte(`{"shipping_address": "a", "date": "d", "products": []}`))
	require.Error(t, err)
}

func TestExtractJSONObject(t *testing.T) {
	b, err := ExtractJSONObject("Sure! Here you go:\n```json\n{\"date\": \"x\"}\n```")
	require.NoError(t, err)
	require.JSONEq(t, `{"date": "x"}`, string(b))

	_, err = ExtractJSONObject("I could not read the document.")
	require.ErrorIs(t, err, ErrMalformedResponse)
}
