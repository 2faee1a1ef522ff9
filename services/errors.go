package services

import "errors"

var (
	ErrPropertyNotFound = errors.New("Property not found")
	ErrApprovalNotFound = errors.New("Approval record not found")
)

// InvalidStateError marks a state-machine transition that is not legal from
// the property's current status.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

// ValidationError marks malformed caller input, detected before any store
// access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AccessDeniedError marks a failed role or ownership check.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }
