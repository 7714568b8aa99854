package errors

import "errors"

var (
	ErrCleanerNotFound = errors.New("cleaner not found")

	ErrInvalidID = errors.New("invalid cleaner ID format")

	// ErrInsufficientBalance means the conditional balance decrement matched
	// no document: the requested amount exceeds what is withdrawable.
	ErrInsufficientBalance = errors.New("insufficient withdrawable balance")
)
