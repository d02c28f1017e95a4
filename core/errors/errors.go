// Package errors holds the typed errors shared by the projection packages.
// Each type unwraps to one of the sentinels so callers can branch with Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing version, book or file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks bad configuration, queries or source markup.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError names what was looked up and missed.
type NotFoundError struct {
	Resource string // "version", "bible directory", ...
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a rejected setting. Field is the YAML key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IOError wraps a filesystem failure with the operation and path.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports malformed input. Line is 1-based; 0 means unknown.
type ParseError struct {
	Format  string // "XML", "reference", "YAML", "xz"
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("failed to parse %s at %s:%d: %s", e.Format, e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	default:
		return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
	}
}

func (e *ParseError) Unwrap() error { return ErrInvalidInput }

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func NewParse(format, path string, line int, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Line: line, Message: message}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
