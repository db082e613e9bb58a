package users

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents errors related to a specific user record
type UserError struct {
	Type    string
	UserID  int64
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for user %d: %s (caused by: %v)", e.Type, e.UserID, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for user %d: %s", e.Type, e.UserID, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeNotFound = "not_found"
)

// NotFoundDetail is the client-facing message for a missing user
const NotFoundDetail = "User not found"

// NewUserNotFoundError creates an error for when a user is not found
func NewUserNotFoundError(userID int64) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		UserID:  userID,
		Message: "user not found",
	}
}

// IsNotFound reports whether err is, or wraps, a user not found error
func IsNotFound(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) && userErr.Type == UserErrorTypeNotFound
}

// FieldError describes one rejected input value. Location names where the value
// came from ("body", "path", "query") followed by the field name.
type FieldError struct {
	Location []string `json:"loc"`
	Message  string   `json:"msg"`
	Type     string   `json:"type"`
}

// Field error types
const (
	FieldErrorTypeMissing = "value_error.missing"
	FieldErrorTypeInteger = "type_error.integer"
	FieldErrorTypeString  = "type_error.str"
	FieldErrorTypeObject  = "type_error.dict"
	FieldErrorTypeJSON    = "value_error.jsondecode"
)

// ValidationError represents errors in request validation. It carries every
// rejected field, not only the first one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Location, "."), f.Message))
	}
	return fmt.Sprintf("validation error: %s", strings.Join(parts, "; "))
}

// Add records a rejected field
func (e *ValidationError) Add(message, errType string, location ...string) {
	e.Fields = append(e.Fields, FieldError{
		Location: location,
		Message:  message,
		Type:     errType,
	})
}

// OrNil returns nil when no field was rejected, so callers can return it directly
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError creates a validation error for a single field
func NewValidationError(message, errType string, location ...string) *ValidationError {
	verr := &ValidationError{}
	verr.Add(message, errType, location...)
	return verr
}

// IsValidationError reports whether err is, or wraps, a validation error
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// StorageError represents errors related to storage operations
type StorageError struct {
	Type      string
	Operation string
	Resource  string
	Message   string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error [%s] during %s on %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Resource, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error [%s] during %s on %s: %s",
		e.Type, e.Operation, e.Resource, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Storage error types
const (
	StorageErrorTypeQueryFailed       = "query_failed"
	StorageErrorTypeTransactionFailed = "transaction_failed"
)

// NewStorageQueryError creates an error for storage query failures
func NewStorageQueryError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeQueryFailed,
		Operation: operation,
		Resource:  resource,
		Message:   "storage query failed",
		Cause:     cause,
	}
}

// NewStorageTransactionError creates an error for session or transaction failures
func NewStorageTransactionError(operation, resource string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeTransactionFailed,
		Operation: operation,
		Resource:  resource,
		Message:   "storage session failed",
		Cause:     cause,
	}
}
