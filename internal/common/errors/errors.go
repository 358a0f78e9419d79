// Package errors provides the validation and remote error taxonomy shared by
// the gateway and the application, search and payment flows.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation errors are detected locally and never reach the gateway.
const (
	ErrCodeMissingFields          ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidNumber          ErrorCode = "INVALID_NUMBER"
	ErrCodeInvalidCardField       ErrorCode = "INVALID_CARD_FIELD"
	ErrCodePayloadSchemaViolation ErrorCode = "PAYLOAD_SCHEMA_VIOLATION"
)

// Remote errors come back from the gateway and are always retryable.
const (
	ErrCodeNetworkFailure ErrorCode = "NETWORK_FAILURE"
	ErrCodeServerRejected ErrorCode = "SERVER_REJECTED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Validation Errors
// ==========================

// MissingFieldsError lists every blank required field of a wizard step, in table order.
type MissingFieldsError struct {
	Step     int
	StepName string
	Fields   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("step %d (%s): missing required fields: %s", e.Step, e.StepName, strings.Join(e.Fields, ", "))
}

// InvalidNumberError reports a numeric field that could not be coerced.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("field %s: %q is not a valid number", e.Field, e.Value)
}

// InvalidCardFieldError reports the first payment field that failed validation.
type InvalidCardFieldError struct {
	Field   string
	Title   string
	Message string
}

func (e *InvalidCardFieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// ==========================
// 3. Error Constructors
// ==========================

// NewNetworkFailureError wraps a transport failure. Always retryable.
func NewNetworkFailureError(operation string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeNetworkFailure,
		Message:   "Remote service unreachable",
		Details:   details,
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewServerRejectedError carries the message the remote service answered with.
func NewServerRejectedError(operation, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServerRejected,
		Message:   message,
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Metadata:  map[string]interface{}{"operation": operation},
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadSchemaViolationError is returned when an outgoing payload fails its contract.
func NewPayloadSchemaViolationError(schema, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadSchemaViolation,
		Message:   "Outgoing payload does not match its contract",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"schema": schema},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError normalizes an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Classification
// ==========================

// CodeOf returns the taxonomy code of err, or "" when err is not classified.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var (
		missing *MissingFieldsError
		number  *InvalidNumberError
		card    *InvalidCardFieldError
		std     *StandardError
	)
	switch {
	case stderrors.As(err, &missing):
		return ErrCodeMissingFields
	case stderrors.As(err, &number):
		return ErrCodeInvalidNumber
	case stderrors.As(err, &card):
		return ErrCodeInvalidCardField
	case stderrors.As(err, &std):
		return std.Code
	}
	return ""
}

// IsRetryable reports whether the failed operation may be attempted again as-is.
func IsRetryable(err error) bool {
	var std *StandardError
	if stderrors.As(err, &std) {
		return std.Retryable
	}
	return false
}

// IsValidation reports whether err was detected locally before any remote call.
func IsValidation(err error) bool {
	return GetErrorCategory(CodeOf(err)) == "VALIDATION"
}

// IsRemote reports whether err came from the gateway.
func IsRemote(err error) bool {
	return GetErrorCategory(CodeOf(err)) == "REMOTE"
}

// ServerMessage returns the remote rejection message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var std *StandardError
	if stderrors.As(err, &std) && std.Code == ErrCodeServerRejected && strings.TrimSpace(std.Message) != "" {
		return std.Message, true
	}
	return "", false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMissingFields, ErrCodeInvalidNumber, ErrCodeInvalidCardField, ErrCodePayloadSchemaViolation:
		return "VALIDATION"
	case ErrCodeNetworkFailure, ErrCodeServerRejected:
		return "REMOTE"
	default:
		return "OTHER"
	}
}

// UserMessage returns the server's rejection message when one was given,
// otherwise fallback.
func UserMessage(err error, fallback string) string {
	if msg, ok := ServerMessage(err); ok {
		return msg
	}
	return fallback
}
