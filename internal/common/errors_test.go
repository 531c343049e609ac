package common

import (
	"errors"
	"testing"
)

func TestAppErrorFormatsCodeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAppError("catalog.open", "ping pgx", cause)

	want := "catalog.open: ping pgx: connection refused"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Fatal("AppError must unwrap to its cause")
	}
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError("catalog.migrate", "apply schema", nil)
	if got, want := err.Error(), "catalog.migrate: apply schema"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "anything") != nil {
		t.Fatal("wrapping nil must stay nil")
	}
	base := errors.New("boom")
	wrapped := WrapError(base, "register document")
	if !errors.Is(wrapped, base) {
		t.Fatal("wrapped error must match the base via errors.Is")
	}
}
