package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when a record id already exists in its collection.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound is matched by NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
)

// NotFoundError reports a missing record.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
