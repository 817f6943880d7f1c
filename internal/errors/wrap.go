package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, err)
}

// IsCategory checks if error belongs to a specific category
func IsCategory(err error, category error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, category)
}

// Unparseable wraps a message as unparseable input
func Unparseable(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInputUnparseable)
}

// NotFound wraps a message as customer not found
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrCustomerNotFound)
}

// Unavailable wraps a message as collaborator unavailable
func Unavailable(message string) error {
	return fmt.Errorf("%s: %w", message, ErrCollaboratorUnavailable)
}

// InvalidValue wraps a message as invalid amount or tenure
func InvalidValue(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidAmountOrTenure)
}

// Internal wraps a message as internal error
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// Category returns the taxonomy name for an error
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputUnparseable):
		return "ErrInputUnparseable"
	case errors.Is(err, ErrCustomerNotFound):
		return "ErrCustomerNotFound"
	case errors.Is(err, ErrCollaboratorUnavailable):
		return "ErrCollaboratorUnavailable"
	case errors.Is(err, ErrInvalidAmountOrTenure):
		return "ErrInvalidAmountOrTenure"
	case errors.Is(err, ErrSessionCorrupted):
		return "ErrSessionCorrupted"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	default:
		return "Unknown"
	}
}
