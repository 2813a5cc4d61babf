// Package apperrors defines the error taxonomy shared by services and
// handlers. Every domain operation returns one of these types so the HTTP
// layer can map them to status codes without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input: empty or duplicate names, unknown
// palette colors, malformed ids.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation creates a ValidationError with a formatted message.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown user, collection or post.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFound creates a NotFoundError for the given resource and identifier.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// CapacityError reports a full account roster or similar bounded set.
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string { return e.Message }

// NewCapacity creates a CapacityError with a formatted message.
func NewCapacity(format string, args ...any) *CapacityError {
	return &CapacityError{Message: fmt.Sprintf(format, args...)}
}

// AuthError reports an invalid, expired or revoked session token.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NewAuth creates an AuthError with a formatted message.
func NewAuth(format string, args ...any) *AuthError {
	return &AuthError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a failure from the persistence gateway or the token
// service. The cause is preserved for logging; callers only see Message.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstream wraps err as an UpstreamError.
func NewUpstream(message string, err error) *UpstreamError {
	return &UpstreamError{Message: message, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCapacity reports whether err is a CapacityError.
func IsCapacity(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
