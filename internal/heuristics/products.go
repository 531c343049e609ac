package heuristics

import (
	"regexp"
	"strings"
)

// Product is one line item pulled out of a product table. Quantity and price
// are kept as extraction-native strings; normalization happens downstream.
type Product struct {
	Description string
	Quantity    string
	Price       string
}

// Patterns that mark the start of a product table.
var productStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:product code|item|sku|description|qty|quantity|price|amount)\b`),
	regexp.MustCompile(`(?i)\b(?:descript|ordered|delivered)\b`),
	regexp.MustCompile(`\b(?:QTY|DESCRIPTION|UNIT PRICE|AMOUNT)\b`),
}

// Patterns that mark the end of a product table.
var productEndPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:total|subtotal|grand total)\b`),
	regexp.MustCompile(`(?i)\b(?:received by|signature)\b`),
}

var (
	// qty, description, unit price, amount
	reProductLine        = regexp.MustCompile(`(\d+)\s+(.*?)\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)`)
	reProductLineAtEnd   = regexp.MustCompile(`(\d+)\s+(.*?)\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)$`)
	reColumnSplit        = regexp.MustCompile(`\s{2,}|\t`)
	reBareInt            = regexp.MustCompile(`^\d+$`)
	rePriceToken         = regexp.MustCompile(`[$€£]|\.`)
	reFirstInt           = regexp.MustCompile(`\b(\d+)\b`)
	reFirstDecimalAmount = regexp.MustCompile(`[$€£]?([\d,.]+\.\d{2})`)
	rePriceValue         = regexp.MustCompile(`[$€£]?([\d,]+(?:\.\d{2})?)`)
	reAnyDigit           = regexp.MustCompile(`\d`)
)

// ExtractProducts pulls line items out of text with a three-stage
// segmentation: locate the product table by start/end keywords, fall back to
// a generic four-column numeric scan, then parse each candidate line with a
// cascade of decreasing precision. Stage-3 output can be noisy; an empty list
// would be worse. A candidate line that yields no description is dropped.
func ExtractProducts(text string) []Product {
	lines := strings.Split(text, "\n")

	candidates := collectTableLines(lines)
	if len(candidates) == 0 {
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if reProductLine.MatchString(line) {
				candidates = append(candidates, line)
			}
		}
	}

	var products []Product
	for _, line := range candidates {
		if p, ok := parseProductLine(line); ok {
			products = append(products, p)
		}
	}
	return products
}

// collectTableLines scans for a start keyword, then gathers lines until an
// end keyword or end of text. Lines too short or with no digit are skipped.
func collectTableLines(lines []string) []string {
	var out []string
	started, ended := false, false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !started && matchesAny(line, productStartPatterns) {
			started = true
			continue
		}
		if started && !ended {
			if matchesAny(line, productEndPatterns) {
				ended = true
				continue
			}
			if len(line) > 5 && reAnyDigit.MatchString(line) {
				out = append(out, line)
			}
		}
	}
	return out
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// parseProductLine tries three approaches in order:
//
//  1. exact trailing-numeric-group match (qty, description, price, amount)
//  2. split on runs of >=2 spaces or tabs, classify tokens, with positional
//     guesses when classification is ambiguous
//  3. last-resort token scraping: first bare integer as quantity, first
//     decimal amount as price, the remainder as description
func parseProductLine(line string) (Product, bool) {
	if m := reProductLineAtEnd.FindStringSubmatch(line); m != nil {
		return Product{
			Description: strings.TrimSpace(m[2]),
			Quantity:    m[1],
			Price:       m[3],
		}, true
	}

	if p, ok := parseColumns(line); ok {
		return p, true
	}

	return scrapeTokens(line)
}

func parseColumns(line string) (Product, bool) {
	parts := reColumnSplit.Split(line, -1)
	if len(parts) < 3 {
		return Product{}, false
	}

	var descParts []string
	var qty, price string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case reBareInt.MatchString(part) && qty == "":
			qty = part
		case rePriceToken.MatchString(part) && price == "":
			price = extractPriceValue(part)
		default:
			descParts = append(descParts, part)
		}
	}

	// Positional guesses when classification came up empty: first column is
	// likely the quantity, last column the price.
	if qty == "" && len(parts) >= 2 {
		if m := reFirstInt.FindStringSubmatch(parts[0]); m != nil {
			qty = m[1]
		}
	}
	if price == "" && len(parts) >= 2 {
		price = extractPriceValue(parts[len(parts)-1])
	}

	desc := strings.TrimSpace(strings.Join(descParts, " "))
	if desc == "" {
		return Product{}, false
	}
	return Product{Description: desc, Quantity: qty, Price: price}, true
}

func scrapeTokens(line string) (Product, bool) {
	var qty, price string
	if m := reFirstInt.FindStringSubmatch(line); m != nil {
		qty = m[1]
	}

	desc := line
	if m := reFirstDecimalAmount.FindStringSubmatch(line); m != nil {
		price = strings.ReplaceAll(m[1], ",", "")
		desc = strings.Replace(desc, m[0], "", 1)
	}
	if qty != "" {
		if re, err := regexp.Compile(`\b` + qty + `\b`); err == nil {
			desc = re.ReplaceAllString(desc, "")
		}
	}
	desc = strings.TrimSpace(reWhitespace.ReplaceAllString(desc, " "))

	if desc == "" {
		return Product{}, false
	}
	return Product{Description: desc, Quantity: qty, Price: price}, true
}

// extractPriceValue pulls a bare numeric price out of a token, dropping
// currency symbols and thousands separators.
func extractPriceValue(s string) string {
	if m := rePriceValue.FindStringSubmatch(s); m != nil {
		return strings.ReplaceAll(m[1], ",", "")
	}
	return ""
}
