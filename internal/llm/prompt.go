package llm

import (
	"encoding/json"
	"strings"
)

// BuildSystemPrompt composes the system message for delivery-note parsing.
// The schema rides along as a second system message so the model sees the
// exact contract it must satisfy.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a delivery-note parser. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract the shipping address exactly as printed, joined into one line.",
		"Keep the delivery date in the format shown on the document; do not reformat it.",
		"List every product line item with its description, quantity, and unit price as strings.",
		"'total_price' is the document total as a plain decimal string without currency symbols.",
		"Never output null. If a field is not present, use an empty string for required fields and omit optional ones.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages filename and source hints next to the attached
// document image.
func BuildUserPrompt(filename, subject string) string {
	var b strings.Builder
	if filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	if subject != "" {
		b.WriteString("Email subject: ")
		b.WriteString(subject)
		b.WriteString("\n")
	}
	b.WriteString("\nThe delivery note is attached as an image. Extract its fields.")
	return b.String()
}

// SchemaPromptMessage renders the schema for an inline system message.
func SchemaPromptMessage(schema map[string]any) string {
	b, _ := json.MarshalIndent(schema, "", "  ")
	return "JSON Schema:\n" + string(b)
}
