package heuristics

import (
	"regexp"
	"strings"

	"github.com/docuflow/delivery-notes/constants"
)

// Total-price patterns: label-then-value, value-then-label, then a loose
// label-adjacent form.
var totalPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Total|Sum|Amount)[:\s]+[$€£]?([\d,]+\.\d{2})`),
	regexp.MustCompile(`(?i)[$€£]?([\d,]+\.\d{2})\s+(?:Total|Sum|Amount)`),
	regexp.MustCompile(`(?i)Total\s*[$€£]?([\d,.]+)`),
}

// ExtractTotalPrice scans text for the document total. Thousands separators
// are stripped. Defaults to "0.00" when no pattern matches.
func ExtractTotalPrice(text string) string {
	for _, re := range totalPricePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.ReplaceAll(m[1], ",", "")
		}
	}
	return constants.ZeroPrice
}
