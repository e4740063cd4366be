package clients

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceFetch wraps a failure to read either client source.
	ErrSourceFetch        = errors.New("failed to load clients")
	ErrNoValidClients     = errors.New("no valid clients found")
	ErrInvalidFile        = errors.New("invalid import file")
	ErrClientNotFound     = errors.New("client not found")
	ErrArchiveUnavailable = errors.New("export archive storage is not configured")
)

// ValidationError reports a rejected client payload.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code, msg string) error {
	return &ValidationError{
		Code:    code,
		Message: msg,
	}
}

// ErrWatchClosed ends a subscription whose change feed stopped before the caller left.
var ErrWatchClosed = errors.New("client change feed closed")
