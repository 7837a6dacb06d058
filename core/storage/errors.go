package storage

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by buffer operations before Initialize or after Cleanup.
var ErrNotInitialized = errors.New("storage client not initialized")

// InitializationError reports a transport failure during Initialize.
type InitializationError struct {
	Endpoint string
	Err      error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Endpoint, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
