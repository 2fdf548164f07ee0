package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfMatchesWrappedKinds(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := fmt.Errorf("stats: %w", Internal(cause))

	if KindOf(err) != ErrInternal {
		t.Fatalf("expected internal kind, got %v", KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if Message(err) != "unexpected server error" {
		t.Fatalf("unexpected message: %q", Message(err))
	}
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	if KindOf(errors.New("boom")) != ErrInternal {
		t.Fatalf("expected internal kind")
	}
	if KindOf(nil) != nil {
		t.Fatalf("expected nil kind for nil error")
	}
}

func TestValidationMessage(t *testing.T) {
	err := Validation("job title is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation kind")
	}
	if Message(err) != "job title is required" {
		t.Fatalf("unexpected message: %q", Message(err))
	}
}
