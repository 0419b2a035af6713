package memcheck

import (
	"fmt"
	"strings"
)

// Errors returned by a probe run. Every one of them ends the run and is
// reported as CRITICAL by Probe.Run.

// ConnectionError is returned when the target cannot be resolved or reached.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return "could not connect: " + e.Err.Error()
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// AuthError is returned when AUTH is not acknowledged with +OK.
// Err holds the server error reply or the I/O failure, if any.
type AuthError struct {
	Reply string
	Err   error
}

func (e *AuthError) Error() string {
	switch {
	case e.Err != nil:
		return "AUTH failed: " + e.Err.Error()
	case e.Reply != "":
		return "AUTH failed: unexpected reply " + e.Reply
	default:
		return "AUTH failed"
	}
}

// Unwrap returns the underlying error for error chain inspection
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IOError is returned when a read or write fails mid-protocol.
type IOError struct {
	Op  string // Operation that failed (send INFO, read INFO, ...)
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *IOError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when the status report lacks a memory field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing field " + e.Field
}

// InvalidFieldError is returned when a required memory field is present but
// is not a non-negative integer.
type InvalidFieldError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

// Unwrap returns the underlying error for error chain inspection
func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}

// ConfiguredLimitError is returned when the server reports maxmemory 0.
type ConfiguredLimitError struct{}

func (e *ConfiguredLimitError) Error() string {
	return "maxmemory is 0 (not configured)"
}

// ConfigError lists every invalid configuration field.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return "invalid configuration"
	}
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}
