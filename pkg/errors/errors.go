// Package errors provides custom error types for the alicedeps system.
// The engine surfaces exactly two failure kinds to its callers: a
// NormalizationError for anything that goes wrong while shaping a workbook,
// and a PatchError for anything that aborts a descriptor patch run. The
// remaining types describe the underlying cause and are wrapped by those two.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers only need one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Sentinel errors for the alicedeps system.
var (
	// ErrNormalization marks any failure reading or shaping a workbook.
	ErrNormalization = errors.New("normalization failed")

	// ErrPatch marks any failure that aborts a descriptor patch run.
	ErrPatch = errors.New("patch failed")

	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRecords indicates a patch was requested with an empty corpus.
	ErrNoRecords = errors.New("no version records loaded")
)

// NormalizationError is returned by every failing normalization call.
// When it is returned no artifact produced by that call exists on disk.
type NormalizationError struct {
	Workbook string
	Sheet    string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Sheet != "" {
		return fmt.Sprintf("error processing workbook %s (sheet %q): %s", e.Workbook, e.Sheet, msg)
	}
	return fmt.Sprintf("error processing workbook %s: %s", e.Workbook, msg)
}

// Unwrap implements errors.Unwrap.
func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// NewNormalizationError creates a new NormalizationError.
func NewNormalizationError(workbook, sheet string, err error) *NormalizationError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &NormalizationError{
		Workbook: workbook,
		Sheet:    sheet,
		Message:  message,
		Err:      err,
	}
}

// PatchError aborts a whole patch run. Files rewritten before the failing
// one stay rewritten.
type PatchError struct {
	File string
	Op   string // "walk", "parse", "write"
	Err  error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("error during %s of %s: %v", e.Op, e.File, e.Err)
	}
	return fmt.Sprintf("error during %s: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *PatchError) Is(target error) bool {
	return target == ErrPatch
}

// NewPatchError creates a new PatchError.
func NewPatchError(op, file string, err error) *PatchError {
	return &PatchError{File: file, Op: op, Err: err}
}

// NotFoundError represents an error when a resource is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats.
type ParseError struct {
	Format  string // "xml", "json", "xlsx"
	File    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations.
type IOError struct {
	Operation string // "read", "write", "rename", "remove", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
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

// ResourceError represents an error during resource operations.
type ResourceError struct {
	Operation string // "create", "load", "run"
	Resource  string // "client", "config", "records"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError.
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNormalization checks if an error came from the spreadsheet normalizer.
func IsNormalization(err error) bool {
	return errors.Is(err, ErrNormalization)
}

// IsPatch checks if an error aborted a descriptor patch run.
func IsPatch(err error) bool {
	return errors.Is(err, ErrPatch)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapNormalization wraps an error as a NormalizationError unless it
// already is one.
func WrapNormalization(workbook, sheet string, err error) error {
	if err == nil {
		return nil
	}
	var ne *NormalizationError
	if errors.As(err, &ne) {
		return err
	}
	return NewNormalizationError(workbook, sheet, err)
}

// WrapPatch wraps an error as a PatchError unless it already is one.
func WrapPatch(op, file string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PatchError
	if errors.As(err, &pe) {
		return err
	}
	return NewPatchError(op, file, err)
}
