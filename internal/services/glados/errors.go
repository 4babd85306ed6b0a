package glados

import "fmt"

// StatusError reports a non-2xx response from the generation endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generation endpoint returned HTTP %d", e.Code)
}

// Transient reports whether the status is worth retrying. 429 means the
// endpoint is shedding load; the 5xx gateway family usually clears up.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// ExhaustedError reports that the attempt budget was consumed without a
// successful fetch. Err is the error from the final attempt.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }
