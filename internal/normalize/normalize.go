// Package normalize flattens extraction results into tabular rows. Flatten
// is a total function: garbage input degrades to blank or zero fields, never
// to an error.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/extract"
)

// Row is one flat output record. Exactly one row per product line item; a
// document with no products yields a single metadata-only row.
type Row struct {
	Sender             string
	ShippingAddress    string
	Date               string
	ProductDescription string
	Quantity           string
	Price              string
	RowTotal           string
}

// Header is the fixed column order every sink writes.
var Header = []string{
	"sender",
	"shipping_address",
	"date",
	"product_description",
	"quantity",
	"price",
	"total_price",
}

var reSpaces = regexp.MustCompile(`\s+`)

// Flatten converts one extraction result into its row set.
func Flatten(res extract.Result) []Row {
	addr := res.ShippingAddress
	if addr == "" {
		addr = res.Buyer
	}
	addr = strings.TrimSpace(reSpaces.ReplaceAllString(strings.ReplaceAll(addr, "\n", " "), " "))

	total := CanonicalTotal(res.TotalPrice)

	date := res.Date
	if date == "" {
		date = constants.UnknownValue
	}

	if len(res.Products) == 0 {
		return []Row{{
			Sender:          res.Sender,
			ShippingAddress: addr,
			Date:            date,
			RowTotal:        total,
		}}
	}

	rows := make([]Row, 0, len(res.Products))
	for _, p := range res.Products {
		price := CanonicalPrice(p.Price)
		qty := CanonicalQuantity(p.Quantity)

		rows = append(rows, Row{
			Sender:             res.Sender,
			ShippingAddress:    addr,
			Date:               date,
			ProductDescription: p.Description,
			Quantity:           qty,
			Price:              price,
			RowTotal:           rowTotal(price, qty, total, len(res.Products)),
		})
	}
	return rows
}

// rowTotal apportions the document total per line. A single-product
// document's stated total is authoritative; a multi-product document's total
// (or a missing one) is recomputed per line as price*quantity.
func rowTotal(price, qty, docTotal string, productCount int) string {
	if price == "" || qty == "" {
		return docTotal
	}
	if docTotal != constants.ZeroPrice && productCount <= 1 {
		return docTotal
	}
	p, err1 := strconv.ParseFloat(price, 64)
	q, err2 := strconv.ParseFloat(qty, 64)
	if err1 != nil || err2 != nil {
		return docTotal
	}
	return fmt.Sprintf("%.2f", p*q)
}
