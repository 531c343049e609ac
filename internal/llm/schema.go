package llm

// BuildDeliveryNoteJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map. We pass this to the provider as a structured output
// constraint and also use it locally to validate the response.
func BuildDeliveryNoteJSONSchema() map[string]any {
	product := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string"},
			"quantity":    map[string]any{"type": "string"},
			"price":       map[string]any{"type": "string"},
		},
		"required": []string{"description"},
	}

	props := map[string]any{
		"shipping_address": map[string]any{"type": "string"},
		"buyer":            map[string]any{"type": "string"},
		"date":             map[string]any{"type": "string"},
		"sender":           map[string]any{"type": "string"},
		"products":         map[string]any{"type": "array", "items": product},
		"total_price":      map[string]any{"type": "string"},
	}
	required := []string{"shipping_address", "date", "products", "total_price"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
