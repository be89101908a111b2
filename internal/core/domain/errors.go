package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures of the profile pipeline.
type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeElevation   ErrorCode = "ELEVATION_ERROR"
	CodeCalculation ErrorCode = "CALCULATION_ERROR"
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// Error is a typed pipeline failure. Details is optional structured context
// (offending field, upstream status, counts) intended for the error payload.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail returns a copy of e with key set in Details.
func (e *Error) WithDetail(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// ValidationError reports a malformed or out-of-range request.
func ValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// CalculationError reports a violated engine invariant.
func CalculationError(format string, args ...any) *Error {
	return &Error{Code: CodeCalculation, Message: fmt.Sprintf(format, args...)}
}

// ElevationError wraps a terrain-source failure, keeping the upstream error.
func ElevationError(err error, format string, args ...any) *Error {
	return &Error{Code: CodeElevation, Message: fmt.Sprintf(format, args...), Err: err}
}

// InternalError wraps an unexpected failure.
func InternalError(err error, format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsError extracts a typed *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal when err is untyped.
func CodeOf(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return CodeInternal
}
