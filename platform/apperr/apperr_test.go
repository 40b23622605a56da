package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Forbidden("x"), http.StatusForbidden},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Internal("x"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("kind %d: expected status %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestIs_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Conflict("insufficient stock"))

	if !Is(err, KindConflict) {
		t.Fatalf("expected wrapped conflict to be recognized")
	}
	if Is(err, KindNotFound) {
		t.Fatalf("did not expect a not-found kind")
	}
	if Is(errors.New("plain"), KindConflict) {
		t.Fatalf("did not expect a kind on a plain error")
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("insufficient stock").WithDetails(map[string]any{"available": 2})

	details, ok := err.Details.(map[string]any)
	if !ok || details["available"] != 2 {
		t.Fatalf("unexpected details %+v", err.Details)
	}
}
