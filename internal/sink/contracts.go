// Package sink writes normalized delivery-note rows to their output formats.
package sink

import "github.com/docuflow/delivery-notes/internal/normalize"

// RowWriter appends rows to an output. Implementations buffer internally;
// nothing is durable until Flush returns.
type RowWriter interface {
	WriteRows(rows []normalize.Row) error
	Flush() error
}
