package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error.
// Message is safe to show to the user; Cause carries the underlying detail.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context, keeping the code of the
// innermost AppError if there is one.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the first AppError in the chain, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the text to show on the page for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Ocurrió un error inesperado."
}

// HTTPStatus maps an error code to the status used by the JSON API.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeFileParse, CodeSelection, CodeInputFormat:
		return http.StatusBadRequest
	case CodeStatisticalComputation:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid          = "CONFIG_INVALID"
	CodeNotFound               = "NOT_FOUND"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeFileParse              = "FILE_PARSE_ERROR"
	CodeTooLarge               = "FILE_TOO_LARGE"
	CodeSelection              = "SELECTION_ERROR"
	CodeInputFormat            = "INPUT_FORMAT_ERROR"
	CodeStatisticalComputation = "STATISTICAL_COMPUTATION_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// FileParseError reports a malformed or unsupported upload.
func FileParseError(message string, cause error) *AppError {
	return &AppError{Code: CodeFileParse, Message: message, Cause: cause}
}

// FileTooLarge reports an upload over the configured size limit.
func FileTooLarge(limitMB int) *AppError {
	return Newf(CodeTooLarge, "El archivo supera el límite de %d MB.", limitMB)
}

// SelectionError reports a missing or degenerate column selection.
func SelectionError(message string) *AppError {
	return New(CodeSelection, message)
}

// InputFormatError reports unparseable user input (expected frequencies, alpha).
func InputFormatError(message string) *AppError {
	return New(CodeInputFormat, message)
}

// StatisticalComputationError reports a frequency table the chi-squared
// routines cannot evaluate.
func StatisticalComputationError(message string) *AppError {
	return New(CodeStatisticalComputation, message)
}
