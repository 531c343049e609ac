package llm

import "errors"

// Sentinel errors the extraction pipeline branches on. Anything wrapped
// around one of these still matches with errors.Is.
var (
	// ErrQuotaExhausted means the provider rejected the call for billing or
	// rate-limit reasons (HTTP 429 / insufficient_quota).
	ErrQuotaExhausted = errors.New("llm: quota exhausted")

	// ErrModelUnavailable means the configured model does not exist or is not
	// accessible to this API key.
	ErrModelUnavailable = errors.New("llm: model unavailable")

	// ErrMalformedResponse means the provider answered but the payload could
	// not be turned into a valid delivery-note record.
	ErrMalformedResponse = errors.New("llm: malformed response")
)
