package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type StatusError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

// WithReason returns a copy of e carrying reason. The sentinel values below
// are shared, so they are never mutated.
func (e *StatusError) WithReason(reason string) *StatusError {
	out := *e
	out.Reason = reason
	return &out
}

// Is reports whether target is a StatusError with the same code and message,
// so errors.Is(err, ErrNotFound) holds regardless of the attached reason.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// Status extracts the StatusError from err's chain.
func Status(err error) (*StatusError, bool) {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Message returns the text shown to users for err: the reason of a
// StatusError when present, otherwise its message, otherwise err.Error().
func Message(err error) string {
	if se, ok := Status(err); ok {
		if se.Reason != "" {
			return se.Reason
		}
		return se.Message
	}
	return err.Error()
}

var (
	// Authentication errors
	ErrInvalidCredentials = NewStatusError(http.StatusUnauthorized, "invalid credentials")
	ErrTokenExpired       = NewStatusError(http.StatusUnauthorized, "token expired")
	ErrInvalidToken       = NewStatusError(http.StatusUnauthorized, "invalid token")
	ErrUnauthenticated    = NewStatusError(http.StatusUnauthorized, "authentication required")
	ErrReauthFailed       = NewStatusError(http.StatusUnauthorized, "re-authentication failed")

	// Authorization errors
	ErrForbidden = NewStatusError(http.StatusForbidden, "forbidden")

	// Resource errors
	ErrAccountNotFound    = NewStatusError(http.StatusNotFound, "account not found")
	ErrAccountExists      = NewStatusError(http.StatusConflict, "account already exists")
	ErrCollectionNotFound = NewStatusError(http.StatusNotFound, "collection not found")

	// Validation errors
	ErrInvalidRequest = NewStatusError(http.StatusBadRequest, "invalid request")
	ErrInvalidInput   = NewStatusError(http.StatusBadRequest, "invalid input")

	// Server errors
	ErrInternal = NewStatusError(http.StatusInternalServerError, "internal server error")

	// Generic Store errors
	ErrNotFound = NewStatusError(http.StatusNotFound, "resource not found")

	// Store Operation errors
	ErrStorageOperation = NewStatusError(http.StatusInternalServerError, "storage operation failed")

	// Database specific errors
	ErrDatabaseConnection = NewStatusError(http.StatusInternalServerError, "database connection failed")

	// Document errors
	ErrInvalidJSON = NewStatusError(http.StatusBadRequest, "invalid JSON format")
)
