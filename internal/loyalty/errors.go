package loyalty

import "errors"

var (
	// ErrInvalidPhone means the raw input did not contain exactly 10 digits.
	// Surfaced to the caller for correction, never retried.
	ErrInvalidPhone = errors.New("phone number must contain exactly 10 digits")

	// ErrUnknownCustomer means a check-in referenced a customer id with no
	// backing row. This indicates a consistency fault, not a user mistake.
	ErrUnknownCustomer = errors.New("unknown customer")

	// ErrResolutionConflict means a customer insert lost a uniqueness race and
	// the follow-up lookup still found nothing.
	ErrResolutionConflict = errors.New("customer resolution conflict")
)
