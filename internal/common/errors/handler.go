// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// ErrorHandler normalizes flow failures and logs them with their classification.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err for the named flow operation and returns its normalized form.
// Validation failures are user input problems and log at warn level.
func (h *ErrorHandler) Handle(operation string, err error) *StandardError {
	if err == nil {
		return nil
	}
	stdErr := Normalize(err)

	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if GetErrorCategory(stdErr.Code) == "VALIDATION" {
		h.logger.Warn("operation rejected", fields)
	} else {
		h.logger.Error("operation failed", fields)
	}
	return stdErr
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var std *StandardError
	if stderrors.As(err, &std) {
		return std
	}
	code := CodeOf(err)
	if code == "" {
		return NewInternalError(err)
	}
	return &StandardError{
		Code:      code,
		Message:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
