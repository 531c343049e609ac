package sink

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/docuflow/delivery-notes/internal/normalize"
)

// CSVWriter streams rows to an io.Writer with the fixed column header.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) WriteRows(rows []normalize.Row) error {
	if !c.wroteHeader {
		if err := c.w.Write(normalize.Header); err != nil {
			return fmt.Errorf("csv header: %w", err)
		}
		c.wroteHeader = true
	}
	for _, r := range rows {
		rec := []string{
			r.Sender,
			r.ShippingAddress,
			r.Date,
			r.ProductDescription,
			r.Quantity,
			r.Price,
			r.RowTotal,
		}
		if err := c.w.Write(rec); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	return nil
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
