// Package extract defines the document extraction contracts and the
// two-tier extractor that orchestrates them.
package extract

import (
	"context"

	"github.com/docuflow/delivery-notes/constants"
)

// SourceMeta carries metadata attached verbatim by the originating
// collaborator (email source or local-file scan). It is never validated here.
type SourceMeta struct {
	SenderRaw string
	Date      string
	Subject   string
}

// DocumentInput is one unit of extraction work: a file on disk plus its
// format and source metadata. Constructed by the caller, consumed once.
type DocumentInput struct {
	Path   string
	Format string // constants.PDF | constants.IMAGE
	Meta   SourceMeta
}

// Product is one line item. Quantity and price stay extraction-native
// strings until normalization.
type Product struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
}

// Result is the structured outcome of processing one DocumentInput.
// Immutable after creation.
type Result struct {
	ShippingAddress string `json:"shipping_address"`

	// Buyer is a compatibility alias some model responses use for the
	// shipping address; the normalizer falls back to it.
	Buyer string `json:"buyer,omitempty"`

	Date       string    `json:"date"`
	Sender     string    `json:"sender,omitempty"`
	Products   []Product `json:"products"`
	TotalPrice string    `json:"total_price"`

	// Tier records which strategy produced this result.
	Tier constants.Tier `json:"-"`
}

// StructuredExtractor is the model-based tier: document bytes in, structured
// record out. The raw JSON is returned alongside so the caller can check the
// response shape independently of schema validation.
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, doc DocumentInput) (Result, []byte, error)
}

// TextAcquirer is the heuristic tier's upstream: file -> raw text. Expected
// to try the cheapest method first (embedded PDF text) before rasterizing.
type TextAcquirer interface {
	AcquireText(ctx context.Context, path, format string) (string, error)
}
