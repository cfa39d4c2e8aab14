package domain

import "net/http"

// Stable error codes surfaced to API clients alongside HTTP status.
const (
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeAccountNotArchived  = "ACCOUNT_NOT_ARCHIVED"
	CodePlaybookNotFound    = "PLAYBOOK_NOT_FOUND"
	CodeTradeNotFound       = "TRADE_NOT_FOUND"
	CodeTradeNotRunning     = "TRADE_NOT_RUNNING"
	CodeTradeNotClosed      = "TRADE_NOT_CLOSED"
	CodeNothingToUpdate     = "NOTHING_TO_UPDATE"
	CodeRecoveryNeeded      = "RECOVERY_NEEDED"
	CodeInvalidSession      = "INVALID_SESSION"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeTokenAlreadyUsed    = "TOKEN_ALREADY_USED"
	CodeDuplicateField      = "DUPLICATE_FIELD"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUserAlreadyVerified = "USER_ALREADY_VERIFIED"
)

// AppError is a business-rule violation carrying the HTTP status the
// boundary should respond with. Unrecognized errors are masked to 500
// by the HTTP error handler.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidationFailed, Message: message}
}

// NewUnauthorized reports a missing, invalid, or expired credential or session.
func NewUnauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

// NewConflict reports a unique-constraint violation.
func NewConflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: CodeDuplicateField, Message: message}
}

// NewNotFound reports an entity that is missing or not owned by the caller.
func NewNotFound(message, code string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

// NewInvalidState reports an operation disallowed by the entity's current status.
func NewInvalidState(message, code string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NewForbidden reports an operation the caller may not perform.
func NewForbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

// WithCode returns a copy of the error with the given stable code.
func (e *AppError) WithCode(code string) *AppError {
	clone := *e
	clone.Code = code
	return &clone
}
