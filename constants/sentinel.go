package constants

// Sentinel values used when a field cannot be extracted. Downstream
// normalization relies on these exact strings.
const (
	UnknownValue = "Unknown"
	ZeroPrice    = "0.00"
)
