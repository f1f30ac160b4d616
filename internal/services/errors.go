// Package services holds the business logic of the portfolio backend: the
// contact submission pipeline, read-back of stored messages, and the project
// catalog. This file centralizes service-level error values so that handlers
// can translate them into HTTP statuses with errors.Is / errors.As.
package services

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	// ErrMissingField is returned when a required contact field is absent or
	// blank after trimming.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidEmail is returned when the email does not look like
	// local@domain.tld.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrEmptyQuery is returned by project search when the query has no
	// searchable content.
	ErrEmptyQuery = errors.New("search query is empty")
)

// ValidationError reports which field of a submission was rejected.
// It matches ErrMissingField or ErrInvalidEmail through errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
