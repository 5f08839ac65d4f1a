package api

import (
	"fmt"
	"net/http"
)

// Error defines the standard error shape for the API
type Error struct {
	// HTTP status code (e.g., 400, 500)
	Status int
	// Safe message for the client
	Detail string
	// Original error for internal logging
	Log error
}

// Error implements standard error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Log
}

// Response returns the body written to the client.
func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Detail: e.Detail}
}

// NewError creates a generic application error
func NewError(status int, detail string, err error) *Error {
	return &Error{Status: status, Detail: detail, Log: err}
}

// BadRequestError creates a standard error for a bad request
func BadRequestError(detail string, err error) *Error {
	return NewError(http.StatusBadRequest, detail, err)
}

// InternalError creates a standard error for any failure while processing a request.
// The detail always carries the underlying error text, prefixed the same way
// regardless of which stage failed.
func InternalError(err error) *Error {
	return NewError(http.StatusInternalServerError, fmt.Sprintf("Error processing request: %v", err), err)
}
