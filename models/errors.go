package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInputTooLarge = "INPUT_TOO_LARGE"
	ErrCodeParse         = "PARSE_FAILED"
	ErrCodeMalformedTree = "MALFORMED_TREE"
	ErrCodeRender        = "RENDER_FAILED"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CleanError is the internal error type carrying an error code.
// It wraps the underlying cause so errors.Is/As see through it.
type CleanError struct {
	Code    string
	Message string
	Err     error
}

func (e *CleanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CleanError) Unwrap() error {
	return e.Err
}

// NewCleanError creates a new CleanError.
func NewCleanError(code, message string, err error) *CleanError {
	return &CleanError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *CleanError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
