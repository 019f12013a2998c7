// Package errors defines the error kinds the recommendation core surfaces to
// its callers. Anything not covered by these types is wrapped transport or
// programming error and treated as internal.
package errors

import "errors"

// NotFoundError indicates a requested catalog item does not exist, or that
// the whole catalog is empty when a weekly pick was requested.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError creates a NotFoundError with the given message.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError (even when wrapped).
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// ValidationError indicates the caller supplied a structurally invalid
// argument. It is raised before any external call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError (even when wrapped).
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ProviderError indicates a failure of the external embedding provider.
// The orchestrator always recovers from these locally; they must never reach
// the end caller of FindSimilar.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a ProviderError wrapping an underlying cause.
func NewProviderError(message string, err error) *ProviderError {
	return &ProviderError{Message: message, Err: err}
}

// IsProvider reports whether err is a ProviderError (even when wrapped).
func IsProvider(err error) bool {
	var pErr *ProviderError
	return errors.As(err, &pErr)
}

// StoreError indicates a failure at the storage boundary. Operations cannot
// proceed without their data, so these propagate to the caller.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError wrapping an underlying cause.
func NewStoreError(message string, err error) *StoreError {
	return &StoreError{Message: message, Err: err}
}

// IsStore reports whether err is a StoreError (even when wrapped).
func IsStore(err error) bool {
	var sErr *StoreError
	return errors.As(err, &sErr)
}
