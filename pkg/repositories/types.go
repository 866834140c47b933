package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no match result has the requested ID.
type ErrNotFound struct {
	MatchID uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("match %s not found", e.MatchID)
}

func IsNotFound(err error) bool {
	var notFound *ErrNotFound
	return errors.As(err, &notFound)
}
