package errors

import (
	"errors"
)

// Sentinel errors for the turn failure taxonomy
var (
	// ErrInputUnparseable - extraction found nothing usable (recoverable, re-prompt the user)
	ErrInputUnparseable = errors.New("input unparseable")

	// ErrCustomerNotFound - no customer record for the given phone (invites retry of phone entry)
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCollaboratorUnavailable - credit bureau or customer service failure (surfaced as a generic "try later" decision)
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

	// ErrInvalidAmountOrTenure - non-positive or non-numeric value after parsing (recoverable)
	ErrInvalidAmountOrTenure = errors.New("invalid amount or tenure")

	// ErrSessionCorrupted - unknown session state value (resolved by forcing the initial state)
	ErrSessionCorrupted = errors.New("session state corrupted")

	// ErrInternal - internal error (generic message, never user-facing detail)
	ErrInternal = errors.New("internal error")
)
