package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/docuflow/delivery-notes/constants"
	"github.com/docuflow/delivery-notes/internal/heuristics"
)

// Extractor runs the two-tier strategy for one document: model-based
// extraction first (when configured), heuristic fallback over acquired text
// otherwise. Each call is independent; the extractor holds no per-document
// state.
type Extractor struct {
	model    StructuredExtractor
	text     TextAcquirer
	useModel bool
	logger   *slog.Logger
}

// New builds an Extractor. Passing useModel=false (or a nil model) forces
// heuristic-only mode, which the caller uses for its bounded retry.
func New(model StructuredExtractor, text TextAcquirer, useModel bool, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{model: model, text: text, useModel: useModel && model != nil, logger: logger}
}

// requiredFields are the structural fields a model response must carry to be
// accepted without fallback.
var requiredFields = []string{"shipping_address", "date", "products", "total_price"}

// Extract produces a Result for one document. The model tier's output is
// accepted only when it has all required structural fields; any model
// failure, unsupported format, or invalid shape transitions to the heuristic
// fallback. Only a text-acquisition failure makes the whole extraction fail.
func (e *Extractor) Extract(ctx context.Context, doc DocumentInput) (Result, error) {
	if e.useModel {
		res, raw, err := e.model.ExtractStructured(ctx, doc)
		switch {
		case err != nil:
			e.logger.Warn("extract.model.failed", "path", doc.Path, "error", err)
		case !hasRequiredFields(raw):
			e.logger.Warn("extract.model.invalid_shape", "path", doc.Path)
		default:
			// Backfill sender/date from source metadata only where the model
			// did not supply a value.
			if res.Sender == "" {
				res.Sender = SenderFromHeader(doc.Meta.SenderRaw)
			}
			if res.Date == "" {
				res.Date = doc.Meta.Date
			}
			res.Tier = constants.TierModel
			e.logger.Info("extract.model.ok", "path", doc.Path, "products", len(res.Products))
			return res, nil
		}
		e.logger.Info("extract.fallback", "path", doc.Path)
	}
	return e.extractHeuristic(ctx, doc)
}

// extractHeuristic acquires raw text and runs the field heuristics over it.
// It always produces a Result (sentinels at worst) unless text acquisition
// itself fails.
func (e *Extractor) extractHeuristic(ctx context.Context, doc DocumentInput) (Result, error) {
	text, err := e.text.AcquireText(ctx, doc.Path, doc.Format)
	if err != nil {
		// Tier marks the attempted strategy even on failure.
		return Result{Tier: constants.TierHeuristic}, fmt.Errorf("acquire text: %w", err)
	}

	res := Result{
		ShippingAddress: heuristics.ExtractShippingAddress(text),
		Date:            heuristics.ExtractDate(text),
		Products:        toProducts(heuristics.ExtractProducts(text)),
		TotalPrice:      heuristics.ExtractTotalPrice(text),
		Tier:            constants.TierHeuristic,
	}

	// Source metadata wins unconditionally on this tier; an empty metadata
	// value means the source supplied none and the extracted value stands.
	if doc.Meta.SenderRaw != "" {
		res.Sender = SenderFromHeader(doc.Meta.SenderRaw)
	}
	if doc.Meta.Date != "" {
		res.Date = doc.Meta.Date
	}

	e.logger.Info("extract.heuristic.ok",
		"path", doc.Path,
		"products", len(res.Products),
		"address_found", res.ShippingAddress != constants.UnknownValue,
	)
	return res, nil
}

func toProducts(in []heuristics.Product) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, Product{Description: p.Description, Quantity: p.Quantity, Price: p.Price})
	}
	return out
}

// hasRequiredFields reports whether the raw model JSON carries every
// structural field. Presence is what matters, not content; a present-but-
// empty value is the model's answer, an absent key is an invalid shape.
func hasRequiredFields(raw []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	for _, k := range requiredFields {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

var reAngleAddr = regexp.MustCompile(`<([^>]+)>`)

// SenderFromHeader pulls the bare address out of a "Name <addr>" header
// value; anything else passes through untouched.
func SenderFromHeader(raw string) string {
	if m := reAngleAddr.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return raw
}
