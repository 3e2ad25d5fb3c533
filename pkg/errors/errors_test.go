package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Validation", err: Validation("bad"), want: http.StatusBadRequest},
		{name: "Unauthorized", err: Unauthorized("no token"), want: http.StatusUnauthorized},
		{name: "Forbidden", err: Forbidden("nope"), want: http.StatusForbidden},
		{name: "Not found", err: NotFound("gone"), want: http.StatusNotFound},
		{name: "Conflict", err: Conflict("taken"), want: http.StatusConflict},
		{name: "Already exists", err: New(ErrCodeAlreadyExists, "dup"), want: http.StatusConflict},
		{name: "Rate limited", err: New(ErrCodeRateLimitExceeded, "slow down"), want: http.StatusTooManyRequests},
		{name: "Internal", err: Internal(stderrors.New("db down"), "failed"), want: http.StatusInternalServerError},
		{name: "Foreign error", err: stderrors.New("boom"), want: http.StatusInternalServerError},
		{name: "Wrapped app error", err: fmt.Errorf("ctx: %w", Conflict("taken")), want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(NotFound("listing not found")); got != "listing not found" {
		t.Errorf("PublicMessage() = %q", got)
	}

	internal := Internal(stderrors.New("pq: connection refused"), "failed to load listing")
	if got := PublicMessage(internal); got != "internal server error" {
		t.Errorf("PublicMessage() leaked %q", got)
	}

	if got := PublicMessage(stderrors.New("raw")); got != "internal server error" {
		t.Errorf("PublicMessage() leaked %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("cause")
	err := Wrap(cause, ErrCodeInternalError, "outer")

	if !stderrors.Is(err, cause) {
		t.Error("Wrap() should keep the cause reachable through errors.Is")
	}
	if !Is(err, ErrCodeInternalError) {
		t.Error("Is() should match the wrapped code")
	}
	if Is(nil, ErrCodeInternalError) {
		t.Error("Is(nil) should be false")
	}
}

func TestAppError_Error(t *testing.T) {
	if got := New(ErrCodeValidation, "bad").Error(); got != "VALIDATION_ERROR: bad" {
		t.Errorf("Error() = %q", got)
	}
	if got := Wrap(stderrors.New("x"), ErrCodeInternalError, "bad").Error(); got != "INTERNAL_ERROR: bad (x)" {
		t.Errorf("Error() = %q", got)
	}
}
