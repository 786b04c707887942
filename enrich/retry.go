package enrich

import (
	"context"
	"errors"
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"subsdesk/models"
)

// MaxAttempts bounds every call to an optional collaborator: one try and one retry
const MaxAttempts = 2

// DefaultTimeout applies when no per-attempt timeout is configured
const DefaultTimeout = 20 * time.Second

// transientError marks a failure worth retrying
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is a timeout, a network failure or explicitly marked transient
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Call runs fn with a per-attempt timeout, retrying once on transient failures.
// Any failure is returned as a *models.ExternalCallError naming the collaborator.
func Call[T any](ctx context.Context, collaborator string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var zero T
	var lastErr error
	attempts := 0
	for attempts < MaxAttempts {
		attempts++

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		result, err := fn(attemptCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) {
			break
		}
		log.WithFields(log.Fields{
			"collaborator": collaborator,
			"attempt":      attempts,
			"error":        err,
		}).Warn("External call failed, retrying")
	}

	return zero, &models.ExternalCallError{
		Collaborator: collaborator,
		Attempts:     attempts,
		Err:          lastErr,
	}
}
