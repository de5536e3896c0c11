// Package errors provides custom error types for the clubmerge system.
// These errors let callers tell rejected input, merge failures and
// I/O problems apart without string matching.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the clubmerge system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyGroup indicates that a merge was requested for an identity with no records
	ErrEmptyGroup = errors.New("empty profile group")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RejectedRecordError is returned by the collator for a record that cannot
// enter the merge engine.
type RejectedRecordError struct {
	File   string
	Index  int
	UID    string
	Fields []string
	Err    error
}

// Error implements the error interface
func (e *RejectedRecordError) Error() string {
	id := e.UID
	if id == "" {
		id = "<no UID>"
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("record %d (%s) in %s rejected: invalid %s", e.Index, id, e.File, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("record %d (%s) in %s rejected: %v", e.Index, id, e.File, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RejectedRecordError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RejectedRecordError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MergeError represents a failure to merge the records of one identity
type MergeError struct {
	Identity string
	UIDs     []string
	Err      error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if len(e.UIDs) > 0 {
		return fmt.Sprintf("merge failed for %s (records: %v): %v", e.Identity, e.UIDs, e.Err)
	}
	return fmt.Sprintf("merge failed for %s: %v", e.Identity, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(identity string, uids []string, err error) *MergeError {
	return &MergeError{
		Identity: identity,
		UIDs:     uids,
		Err:      err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEmptyGroup checks if an error was caused by merging an empty group
func IsEmptyGroup(err error) bool {
	return errors.Is(err, ErrEmptyGroup)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError reports input that could not be decoded. Offset is the byte
// offset into File reported by the JSON decoder, zero when unknown.
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Offset  int64
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Offset > 0 {
		return fmt.Sprintf("parse error in %s file %s at byte %d: %s", e.Format, e.File, e.Offset, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// SinkError represents a failure writing results to an output sink
type SinkError struct {
	Sink      string // "json", "csv", "neo4j"
	Operation string
	Err       error
}

// Error implements the error interface
func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink failed to %s: %v", e.Sink, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SinkError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError, keeping the offset of JSON
// syntax and type errors.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	perr := NewParseError(format, file, err.Error(), err)
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		perr.Offset = syntax.Offset
	case errors.As(err, &typ):
		perr.Offset = typ.Offset
	}
	return perr
}

// WrapSink wraps an error as a SinkError
func WrapSink(sink, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Sink: sink, Operation: operation, Err: err}
}
