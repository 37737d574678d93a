package errs

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConfiguration означает сломанное развёртывание, а не ошибку клиента.
	ErrConfiguration         = errors.New("server misconfigured")
	ErrSecretNotConfigured   = fmt.Errorf("%w: missing server token config", ErrConfiguration)
	ErrWorkflowNotConfigured = fmt.Errorf("%w: missing workflow webhook url", ErrConfiguration)
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrDuplicateSubmission   = errors.New("reply already submitted")
)

// ValidationError is a caller mistake; Error() is safe to show to the caller.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// StoreError wraps a ticket store failure. The cause is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// DownstreamError — ошибка вызова workflow. Message уже пригоден для ответа клиенту.
type DownstreamError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *DownstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("workflow: %s: %v", e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("workflow: status %d: %s", e.StatusCode, e.Message)
	}
	return "workflow: " + e.Message
}

func (e *DownstreamError) Unwrap() error { return e.Err }
