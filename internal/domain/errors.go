package domain

import (
	"errors"
	"fmt"
)

// ErrConcurrentModification is returned by repositories when an optimistic
// version check fails during an order mutation.
var ErrConcurrentModification = errors.New("order was modified concurrently")

// NotFoundError identifies which entity (and, for catalog lookups, which
// name) failed to resolve.
type NotFoundError struct {
	Entity string
	Name   string
}

func (e NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s not found: %s", e.Entity, e.Name)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

// InvalidStateError is returned when an operation is rejected because the
// order is in the wrong lifecycle stage, or a catalog entry is unavailable.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	return e.Reason
}

// ValidationError identifies the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func IsInvalidState(err error) bool {
	var is InvalidStateError
	return errors.As(err, &is)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
