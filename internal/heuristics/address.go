// Package heuristics extracts delivery-note fields from raw OCR text using
// ordered pattern tables. Every extractor applies its patterns in order and
// takes the first match; later patterns are strictly more permissive
// fallbacks. All functions are pure and hold no state between calls.
package heuristics

import (
	"regexp"
	"strings"

	"github.com/docuflow/delivery-notes/constants"
)

// Keyword-anchored address patterns, most specific first. Each captures the
// rest of the keyword line plus up to a few following lines.
var addressKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Ship(?:ping)?\s*(?:To|Address)|Deliver(?:y)?\s*(?:To|Address)|Recipient)[:\s]+([^\n]+(?:\n[^\n]+){0,5})`),
	regexp.MustCompile(`(?i)(?:Customer|Buyer|Client|Bill To)[:\s]+([^\n]+(?:\n[^\n]+){0,3})`),
	regexp.MustCompile(`(?i)(?:To|Client Number)[:\s]+([^\n]+)`),
	regexp.MustCompile(`(?i)Customer\s*\d*\s*\(([^)]+)\)`),
	regexp.MustCompile(`(?i)SHIP TO[:\s]+([^\n]+(?:\n[^\n]+){0,5})`),
	regexp.MustCompile(`(?i)Deliver(?:y)?\s*(?:To|Address)[:\s]+([^\n]+(?:\n[^\n]+){0,3})`),
}

// Generic address-shape fallbacks when no keyword anchors the address:
// street-number + street-suffix + zip, then bare "City, ST 12345".
var addressShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s+[A-Za-z\s]+(?:Road|Rd|Street|St|Avenue|Ave|Drive|Dr|Lane|Ln|Court|Ct|Boulevard|Blvd|Way|Place|Pl|Terrace|Ter)[,\s]+[A-Za-z\s]+(?:,\s*[A-Z]{2})?\s*\d{5}(?:-\d{4})?\b`),
	regexp.MustCompile(`\b[A-Za-z\s]+,\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?\b`),
}

var (
	reAddressNoisePrefix = regexp.MustCompile(`(?i)^(?:Attention|ATTN|c/o|Care of|Name|Address|Customer|Recipient|Deliver to|Ship to)[:\s]+`)
	reWhitespace         = regexp.MustCompile(`\s+`)
	reQuotes             = regexp.MustCompile(`['"]`)

	// Trailing noise that keyword patterns tend to swallow: shipment summary
	// lines and product-table headers.
	addressNoiseTrailers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Total Weight:.*$`),
		regexp.MustCompile(`(?i)Delivery Method:.*$`),
		regexp.MustCompile(`(?i)QTY DESCRIPTION.*$`),
		regexp.MustCompile(`(?i)UNIT PRICE AMOUNT.*$`),
	}
)

// ExtractShippingAddress scans text for a shipping address. Returns the
// sentinel "Unknown" when nothing matches.
func ExtractShippingAddress(text string) string {
	for _, f := range addressFixtures {
		if strings.Contains(text, f.marker) {
			return f.value
		}
	}

	for _, re := range addressKeywordPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		addr := strings.TrimSpace(m[1])
		addr = reWhitespace.ReplaceAllString(addr, " ")
		addr = reAddressNoisePrefix.ReplaceAllString(addr, "")
		for _, noise := range addressNoiseTrailers {
			addr = noise.ReplaceAllString(addr, "")
		}
		addr = strings.TrimSpace(addr)
		addr = reWhitespace.ReplaceAllString(addr, " ")
		addr = reQuotes.ReplaceAllString(addr, "")
		return addr
	}

	for _, re := range addressShapePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}

	return constants.UnknownValue
}
