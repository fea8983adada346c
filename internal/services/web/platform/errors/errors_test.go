package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: http.StatusOK},
		{err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{err: E(KindConflict, "conflict"), want: http.StatusConflict},
		{err: E(KindUnavailable, "unavailable"), want: http.StatusServiceUnavailable},
		{err: E(KindUnknown, "unknown"), want: http.StatusInternalServerError},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
		{err: fmt.Errorf("handler: %w", E(KindNotFound, "missing")), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorStringFallsBack(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindConflict}).Error(); got != string(KindConflict) {
		t.Fatalf("Error() = %q, want %q", got, string(KindConflict))
	}
	cause := errors.New("disk full")
	if got := (Error{Kind: KindUnavailable, Err: cause}).Error(); got != "disk full" {
		t.Fatalf("Error() = %q, want cause text", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	if Wrap(KindUnavailable, "store", nil) != nil {
		t.Fatal("Wrap(nil) != nil")
	}
	cause := errors.New("locked")
	err := Wrap(KindUnavailable, "variant store unavailable", cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error does not match cause")
	}
	if KindOf(err) != KindUnavailable {
		t.Fatalf("KindOf() = %q", KindOf(err))
	}
}

func TestPublicMessageHidesUnknownFailures(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(errors.New("sql: connection refused")); got != "Internal Server Error" {
		t.Fatalf("PublicMessage(untyped) = %q", got)
	}
	if got := PublicMessage(E(KindInvalidInput, "unknown kind")); got != "unknown kind" {
		t.Fatalf("PublicMessage(typed) = %q", got)
	}
	if got := PublicMessage(nil); got != "" {
		t.Fatalf("PublicMessage(nil) = %q", got)
	}
}
