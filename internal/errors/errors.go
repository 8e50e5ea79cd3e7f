package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// NotFound is returned when a looked up document does not exist.
	NotFound = errors.New("not found")
	// Unavailable wraps a failure of the remote store. The cause stays in the chain.
	Unavailable = errors.New("unavailable")
	// InvalidState is returned when a required profile field is missing.
	InvalidState = errors.New("invalid state")
	// ExhaustedPool is returned when every question was already answered.
	ExhaustedPool = errors.New("no unanswered question left")
	InvalidInput  = errors.New("invalid input")
	// Superseded is returned for a load whose result was replaced by a newer load.
	Superseded = errors.New("superseded by a newer request")
)

// FromStore classifies an error returned by Firestore.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, NotFound) || status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", op, NotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, Unavailable, err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, NotFound)
}
