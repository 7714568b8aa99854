package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrPreconditionFailed means a conditional write matched no document:
	// the booking moved out of the expected state between read and write.
	ErrPreconditionFailed = errors.New("booking state precondition failed")

	ErrRateNotFound = errors.New("service rate not found")
)
