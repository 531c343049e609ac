package normalize

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/docuflow/delivery-notes/constants"
)

var (
	reNonMoney = regexp.MustCompile(`[^\d.]`)
	reNonDigit = regexp.MustCompile(`[^\d]`)
)

// CanonicalTotal coerces a document-level total into a fixed two-decimal
// string. Anything that fails to parse after stripping non-numeric noise
// becomes "0.00".
func CanonicalTotal(s string) string {
	if s == "" || s == constants.UnknownValue {
		return constants.ZeroPrice
	}
	cleaned := reNonMoney.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || f < 0 {
		return constants.ZeroPrice
	}
	return fmt.Sprintf("%.2f", f)
}

// CanonicalPrice coerces a line-item price into a fixed two-decimal string,
// or blank when unparseable.
func CanonicalPrice(s string) string {
	if s == "" {
		return ""
	}
	cleaned := reNonMoney.ReplaceAllString(s, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || f < 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", f)
}

// CanonicalQuantity strips everything but digits.
func CanonicalQuantity(s string) string {
	return reNonDigit.ReplaceAllString(s, "")
}
