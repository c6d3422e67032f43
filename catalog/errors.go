package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("catalog: not found")
	ErrMalformed = errors.New("catalog: malformed response")
)

// StatusError reports a non-success response from the catalog API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("catalog: status %d", e.Code)
}
