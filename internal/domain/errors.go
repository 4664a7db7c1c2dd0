package domain

import "errors"

// Error is a domain failure with a stable name and a fixed, user-facing
// message. The set of values below is closed: guards and services raise
// these as-is, never wrapped, and the transport layer maps each one to an
// HTTP status by identity.
type Error struct {
	Name    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrOwnership is raised when the authenticated caller is not the
	// owner of the document being mutated.
	ErrOwnership = &Error{
		Name:    "OwnershipError",
		Message: "The provided token does not match the owner of this document",
	}

	// ErrUserValidation is raised when the authenticated caller tries to
	// act on a user record that is not their own.
	ErrUserValidation = &Error{
		Name:    "UserValidationError",
		Message: "The provided token does not match the current user ID",
	}

	// ErrNotFound is raised when a lookup by ID produced no document.
	ErrNotFound = &Error{
		Name:    "DocumentNotFoundError",
		Message: "The provided ID doesn't match any documents",
	}

	// ErrBadParams is raised by collaborators (body decoding, validation)
	// when a required input is missing or malformed. The guards themselves
	// never raise it.
	ErrBadParams = &Error{
		Name:    "BadParamsError",
		Message: "A required parameter was omitted or invalid",
	}
)

// ErrConflict marks duplicate-resource failures (username or email already
// registered). It sits outside the guard taxonomy above.
var ErrConflict = errors.New("conflict")
