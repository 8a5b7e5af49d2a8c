package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrSymbolNotFound indicates the data provider has no such instrument
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrDataUnavailable indicates market data could not be fetched after retries,
	// or the historical series came back empty
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrGenerationFailed indicates the LLM call errored or returned empty text
	ErrGenerationFailed = errors.New("analysis generation failed")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrExternal indicates an upstream service returned an error
	ErrExternal = errors.New("external service error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrRateLimitExceeded indicates an API rate limit exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
