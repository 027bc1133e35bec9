package store

import (
	"errors"
	"fmt"
)

// Base errors. Implementations wrap these, so callers match with errors.Is
// or the Is* helpers below.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity reports an entity that failed validation before a write.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps begin, commit and rollback failures.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInternal is a database failure with no more specific mapping.
	ErrInternal = errors.New("internal store error")
)

// Entity errors.
var (
	ErrCardNotFound     = fmt.Errorf("%w: card", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: study progress", ErrNotFound)
	ErrSettingsNotFound = fmt.Errorf("%w: learner settings", ErrNotFound)

	ErrCardExists = fmt.Errorf("%w: card", ErrDuplicate)
)

// IsNotFoundError reports whether err is any entity's not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any entity's duplicate error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsInternalError reports whether err is an unmapped database failure.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
