package errors

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromStore(t *testing.T) {
	if FromStore("get", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	err := FromStore("get question", status.Error(codes.NotFound, "missing"))
	if !errors.Is(err, NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	cause := status.Error(codes.Unavailable, "network")
	err = FromStore("get question", cause)
	if !errors.Is(err, Unavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected Unavailable wrapping the cause, got %v", err)
	}
	if errors.Is(err, NotFound) {
		t.Fatalf("a network failure must not read as NotFound")
	}
}
