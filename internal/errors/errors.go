package errors

import (
	"errors"
	"fmt"
)

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// ValidationError means the input is bad or incomplete. Not retryable
// without changing the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Validation error: %s", e.Message)
}

// DuplicateIdError means the id already denotes a live record.
type DuplicateIdError struct {
	Id string
}

func (e *DuplicateIdError) Error() string {
	return "Image ID already exists"
}

// NotFoundError means no record with that id exists.
type NotFoundError struct {
	Id string
}

func (e *NotFoundError) Error() string {
	return "Image not found"
}

// ExpiredError means the record existed but lapsed. Kept distinct from
// NotFoundError so callers can tell "never existed" from "existed, now gone".
type ExpiredError struct {
	Id string
}

func (e *ExpiredError) Error() string {
	return "Image has expired"
}

// StoreUnavailableError wraps a transient infrastructure failure.
// Safe to retry with backoff.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}
