package book

import "errors"

// Sentinel errors for validation and lookup failures. Callers match them with
// errors.Is; every failing operation wraps one of these with context.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidPhone     = errors.New("phone number must be exactly 10 digits")
	ErrInvalidDate      = errors.New("invalid date")
	ErrPhoneNotFound    = errors.New("phone not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrDuplicateContact = errors.New("contact already exists")
)
