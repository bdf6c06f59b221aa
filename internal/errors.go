package models

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidUUID       = errors.New("invalid uuid")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrDuplicateReference is returned by the repository when a freshly
	// generated booking reference collides with an existing row; the
	// service regenerates and retries.
	ErrDuplicateReference = errors.New("booking reference already in use")
	ErrReferenceExhausted = errors.New("booking reference generation attempts exhausted")

	ErrTransientConflict     = errors.New("transient conflict, retry the request")
	ErrNotCancellable        = errors.New("booking cannot be cancelled in its current state")
	ErrPaymentNotProcessable = errors.New("payment cannot be processed in its current state")
	ErrInvalidCursor         = errors.New("invalid pagination cursor")
)
