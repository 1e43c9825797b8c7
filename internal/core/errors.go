package core

import (
	"errors"

	"rentalcore/pkg/domain"
)

// Operation outcomes surfaced by the service. Errors returned by workflow
// calls wrap one of these (or domain.RuleViolationError) and match via errors.Is.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrInvalidState    = errors.New("invalid state")
	ErrNoActiveLease   = errors.New("no active lease agreement")
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

func notFound(entity domain.EntityType, id string) error {
	return domain.NotFoundError{Entity: entity, ID: id}
}
