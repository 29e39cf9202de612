package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Feature specific errors
	CodeInvalidLevel       ErrorCode = "INVALID_LEVEL"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeAlreadyRegistered  ErrorCode = "ALREADY_REGISTERED"
	CodeUnsupportedMedia   ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	CodeCompletionService  ErrorCode = "COMPLETION_SERVICE_ERROR"
	CodeUploadService      ErrorCode = "UPLOAD_SERVICE_ERROR"
	CodeSpeechService      ErrorCode = "SPEECH_SERVICE_ERROR"
	CodeDeviceBusy         ErrorCode = "DEVICE_BUSY"
)

// User-facing messages shown by the dashboard.
const (
	MsgCompletionUnavailable = "Error: Could not connect to the AI service. Please try again."
	MsgImageOnly             = "Please select an image file"
	MsgUploadFailed          = "Error processing image. Please try again."
	MsgRecognitionMissing    = "Speech recognition is not supported in this environment."
	MsgSynthesisMissing      = "Speech synthesis is not supported in this environment."
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a detail that is echoed back to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

func NewNotSupportedError(message string) *DomainError {
	return NewError(CodeNotSupported, message, nil)
}

func NewInvalidLevelError(level string) *DomainError {
	return NewError(CodeInvalidLevel, fmt.Sprintf("Unknown level: %s", level), nil).
		WithContext("level", level)
}

func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, "Invalid email or password", nil)
}

func NewAlreadyRegisteredError(email string) *DomainError {
	return NewError(CodeAlreadyRegistered, "An account with this email already exists", nil).
		WithContext("email", email)
}

func NewUnsupportedMediaError(contentType string) *DomainError {
	return NewError(CodeUnsupportedMedia, MsgImageOnly, nil).
		WithContext("content_type", contentType)
}

func NewCompletionServiceError(cause error) *DomainError {
	return NewError(CodeCompletionService, MsgCompletionUnavailable, cause)
}

func NewUploadServiceError(cause error) *DomainError {
	return NewError(CodeUploadService, MsgUploadFailed, cause)
}

func NewSpeechServiceError(message string, cause error) *DomainError {
	return NewError(CodeSpeechService, message, cause)
}

func NewDeviceBusyError() *DomainError {
	return NewError(CodeDeviceBusy, "No capture device is free right now. Please try again shortly.", nil)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every field problem of one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format", field),
		Value:   value,
	}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}

// NewFieldError reports a rule violation with a caller supplied message.
func NewFieldError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeValidation,
		Message: message,
	}
}
