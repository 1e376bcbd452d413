package errors

import (
	"fmt"

	"statwizard/domain/tabular"
)

// AppError represents a structured application error
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

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeUnknownError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns UNKNOWN_ERROR
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeUnknownError
}

// Error codes for every failure kind the ingestion and privacy flows produce
const (
	CodeFileFormatUnsupported = "FILE_FORMAT_UNSUPPORTED"
	CodeFileSizeExceeded      = "FILE_SIZE_EXCEEDED"
	CodeFileEmpty             = "FILE_EMPTY"
	CodeFileCorrupted         = "FILE_CORRUPTED"
	CodeFileReadFailed        = "FILE_READ_FAILED"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeServerError           = "SERVER_ERROR"
	CodePrivacyError          = "PRIVACY_ERROR"
	CodeUnknownError          = "UNKNOWN_ERROR"
)

// Common error constructors
func FileFormatUnsupported(message string) *AppError {
	return New(CodeFileFormatUnsupported, message)
}

func FileSizeExceeded(message string) *AppError {
	return New(CodeFileSizeExceeded, message)
}

func FileEmpty(message string) *AppError {
	return New(CodeFileEmpty, message)
}

func FileCorrupted(message string) *AppError {
	return New(CodeFileCorrupted, message)
}

func FileReadFailed(message string, cause error) *AppError {
	return &AppError{Code: CodeFileReadFailed, Message: message, Cause: cause}
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func ServerError(message string, cause error) *AppError {
	return &AppError{Code: CodeServerError, Message: message, Cause: cause}
}

func PrivacyError(message string) *AppError {
	return New(CodePrivacyError, message)
}

func UnknownError(message string) *AppError {
	return New(CodeUnknownError, message)
}

// ToProcessError converts any error into the JSON shape surfaced to the UI.
// Non-AppError causes are masked behind UNKNOWN_ERROR so raw internals never
// leak to the client.
func ToProcessError(err error) *tabular.ProcessError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &tabular.ProcessError{Code: appErr.Code, Message: appErr.Message}
	}
	return &tabular.ProcessError{Code: CodeUnknownError, Message: "處理過程發生未知錯誤，請稍後再試"}
}
