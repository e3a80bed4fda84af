package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Only ErrConfiguration and ErrToken abort a run; every other condition
// degrades to a smaller but consistent result set.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates missing or invalid settings, such as absent
	// catalog credentials. Raised before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrToken indicates the credential exchange failed.
	ErrToken = errors.New("token exchange failed")

	// ErrFetch indicates the chart page could not be retrieved.
	ErrFetch = errors.New("chart fetch failed")

	// Resolution Errors.

	// ErrResolutionMiss indicates the catalog returned no match for a candidate.
	ErrResolutionMiss = errors.New("no catalog match")

	// ErrResolution indicates a transport or payload failure while resolving
	// a single candidate.
	ErrResolution = errors.New("resolution failed")

	// Store Errors.

	// ErrConstraintViolation indicates a duplicate natural key.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrAttachMiss indicates a feature result has no stored chart entry.
	ErrAttachMiss = errors.New("no chart entry for feature result")

	// ErrNoData indicates an aggregate was requested over zero rows.
	ErrNoData = errors.New("no data")
)

// FieldError reports a required field missing from, or invalid in, a
// catalog payload.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Is lets FieldError match ErrInvalidInput.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}
