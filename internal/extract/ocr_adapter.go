package extract

import (
	"context"

	"github.com/docuflow/delivery-notes/internal/ocr"
)

// OCRAcquirer adapts the ocr extractor to the TextAcquirer contract the
// heuristic tier consumes.
type OCRAcquirer struct {
	extractor *ocr.Extractor
}

func NewOCRAcquirer(e *ocr.Extractor) *OCRAcquirer {
	return &OCRAcquirer{extractor: e}
}

func (a *OCRAcquirer) AcquireText(ctx context.Context, path, format string) (string, error) {
	res, err := a.extractor.Extract(ctx, path, format)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
