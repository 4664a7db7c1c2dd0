package domain

// Guard functions enforcing the authorization preconditions every mutating
// route runs before touching a document. Each guard either returns normally
// or raises one of the closed Error set; a raised error is never
// re-classified on its way to the transport layer.
//
// Identifiers are compared as canonical strings (ULIDs), never by pointer.

// RequireOwnership fails with ErrOwnership unless callerID equals the
// document's owner identifier.
func RequireOwnership(callerID, ownerID string) error {
	if callerID != ownerID {
		return ErrOwnership
	}
	return nil
}

// ValidateUser fails with ErrUserValidation unless callerID equals the user
// record's own identifier. Used on "modify my own profile" routes, where the
// resource being checked is itself a user.
func ValidateUser(callerID, userID string) error {
	if callerID != userID {
		return ErrUserValidation
	}
	return nil
}

// RequireFound classifies an absent record as ErrNotFound. A present record
// is returned unchanged, same pointer.
func RequireFound[T any](rec *T) (*T, error) {
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}
