package engine

import "errors"

var (
	// ErrAccountNotFound means a fixed line referenced an account id that does
	// not exist in the account store.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDynamicSourceMissing means a dynamic line's symbolic key is unknown or
	// the corresponding context field is empty.
	ErrDynamicSourceMissing = errors.New("dynamic source not provided in context")

	// ErrInvalidRuleLine means a line template is neither fixed-with-id nor
	// dynamic-with-source, or carries an unknown enum value.
	ErrInvalidRuleLine = errors.New("invalid posting rule line")
)
