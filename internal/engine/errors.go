package engine

import "fmt"

// apiError represents an error response from a model API that may or may not
// be retryable.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError indicates the model returned text that does not
// satisfy the generation schema (not JSON, or missing the code field).
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %v", e.Err)
	}
	return "malformed model response"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
