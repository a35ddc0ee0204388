package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSafeMessage_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading product: %w", NewNotFound("product not found"))

	if got := SafeMessage(err); got != "product not found" {
		t.Errorf("expected wrapped message, got %q", got)
	}
	if got := SafeCode(err); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestSafeMessage_HidesRawErrors(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.7:8081: connect: connection refused")

	if got := SafeMessage(err); got != "an unexpected error occurred" {
		t.Errorf("raw error leaked: %q", got)
	}
	if got := SafeCode(err); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestNewBadGateway_KeepsCause(t *testing.T) {
	cause := errors.New("upstream exploded")
	err := NewBadGateway("the catalog is unavailable", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if err.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.Code)
	}
}
