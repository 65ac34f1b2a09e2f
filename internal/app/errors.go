package app

import (
	"errors"
	"fmt"
)

// Error kinds returned by Run. Callers classify with errors.Is.
var (
	// ErrConfig marks a missing or malformed pathway document.
	ErrConfig = errors.New("configuration error")
	// ErrContent marks a step that cannot be loaded or fails validation.
	ErrContent = errors.New("content error")
	// ErrPublish marks a filesystem failure while writing artifacts.
	ErrPublish = errors.New("publish error")
)

// classify prefixes err with its kind so both stay reachable through
// errors.Is and errors.As.
func classify(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
