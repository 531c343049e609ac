package heuristics

import (
	"regexp"
	"strings"

	"github.com/docuflow/delivery-notes/constants"
)

// Labeled-date patterns seen on delivery notes, tried before bare shapes.
var dateLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`DELIVERY DATE\s+(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`Despatch Date\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
}

// General date patterns in decreasing specificity: explicit labels, then
// numeric shapes, then month-name forms.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Date|ORDER DATE|Invoice Date|Order Date|Despatch Date|Delivery Date)[:\s|]+([^\n,]+)`),
	regexp.MustCompile(`(?i)\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{2,4})\b`),
	regexp.MustCompile(`(?i)(?:DELIVERY DATE|DESPATCH DATE|DATE)[:\s]+(\d{1,2}/\d{1,2}/\d{2,4})`),
}

// Bare date shapes, last resort.
var dateShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}/\d{1,2}/\d{1,2})\b`),
	regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`),
}

var reDateJunk = regexp.MustCompile(`[^\w\s/\-,]`)

// ExtractDate scans text for the delivery or despatch date. The source format
// is preserved; only stray punctuation is stripped. Returns "Unknown" on
// total failure.
func ExtractDate(text string) string {
	for _, f := range dateFixtures {
		if strings.Contains(text, f.marker) {
			return f.value
		}
	}

	for _, re := range dateLabelPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			d := strings.TrimSpace(m[1])
			d = reDateJunk.ReplaceAllString(d, "")
			return d
		}
	}

	for _, re := range dateShapePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	return constants.UnknownValue
}
