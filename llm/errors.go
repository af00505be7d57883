package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error types for classifying relay errors.

// ErrNoCredential indicates no usable API key was found for any candidate:
// neither a server-held environment variable nor a caller-supplied key.
var ErrNoCredential = errors.New("no usable API credential configured")

// ErrNoCandidates indicates every chain entry was skipped before a request
// could be issued: the registry names models with no endpoint or an unknown
// provider. This is a configuration defect, not a credential problem.
var ErrNoCandidates = errors.New("no usable candidates in fallback chain")

// TransientError represents a temporary failure (rate limit, model missing,
// service overload). The relay advances to the next fallback candidate.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// NewTransientError wraps an error as transient (retryable via fallback).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents an authoritative rejection that no alternative
// candidate can fix (bad request, auth failure, billing). The relay returns
// it immediately without trying the remaining candidates.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient returns true if the error should be retried on another candidate.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal returns true if the error should not be retried.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// UpstreamError is a terminal rejection from a vendor API, carrying the
// vendor HTTP status and response detail for user-visible error messages.
type UpstreamError struct {
	Provider string
	Model    string
	Status   int
	Detail   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s rejected request for %s (status %d): %s", e.Provider, e.Model, e.Status, e.Detail)
}

// TimeoutError indicates a relay call exceeded its time budget.
// Timeouts are terminal: the caller's budget is spent, so there is no point
// trying further candidates.
type TimeoutError struct {
	Budget time.Duration
	err    error
}

func (e *TimeoutError) Error() string {
	if e.Budget > 0 {
		return fmt.Sprintf("relay call exceeded %s budget: %v", e.Budget, e.err)
	}
	return fmt.Sprintf("relay call timed out: %v", e.err)
}

func (e *TimeoutError) Unwrap() error {
	return e.err
}

// IsTimeout returns true if the error is a relay timeout.
func IsTimeout(err error) bool {
	var timeout *TimeoutError
	return errors.As(err, &timeout)
}

// NetworkError is a transport-level failure (DNS, connection refused, reset).
// It is transient: the next candidate may sit behind a healthier route.
type NetworkError struct {
	err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.err)
}

func (e *NetworkError) Unwrap() error {
	return e.err
}

// AttemptError records one failed candidate during fallback iteration.
type AttemptError struct {
	Model string
	Err   error
}

func (a AttemptError) String() string {
	return fmt.Sprintf("%s: %v", a.Model, a.Err)
}

// ExhaustedError indicates every fallback candidate failed.
// It aggregates the per-candidate errors so the caller can surface them all.
type ExhaustedError struct {
	Capability string
	Attempts   []AttemptError
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.String()
	}
	return fmt.Sprintf("all candidates exhausted for capability %s: [%s]",
		e.Capability, strings.Join(parts, "; "))
}

// IsExhausted returns true if the error means every candidate failed.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
