package httpclient

import "fmt"

// StatusError represents a non-2xx response returned by an upstream service
type StatusError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}
