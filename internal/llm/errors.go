package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProvider is returned when API_PROVIDER names no registered adapter.
	ErrInvalidProvider = errors.New("invalid API_PROVIDER specified")

	// ErrMalformedResponse matches every MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// UpstreamError is a failed provider call: a non-2xx status, a timeout, or a
// transport failure (StatusCode 0).
type UpstreamError struct {
	Provider   ProviderName
	StatusCode int
	// Detail is the human-readable message surfaced to the caller.
	Detail  string
	Body    []byte
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	return e.Detail
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a 2xx response whose body lacks the expected answer path.
type MalformedResponseError struct {
	Provider ProviderName
	Path     string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s response: %s: %v", e.Provider, e.Path, e.Err)
	}
	return fmt.Sprintf("malformed %s response: missing %s", e.Provider, e.Path)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// Malformed builds a MalformedResponseError for the given key path.
func Malformed(provider ProviderName, path string, err error) error {
	return &MalformedResponseError{Provider: provider, Path: path, Err: err}
}
