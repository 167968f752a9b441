package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode identifies a class of domain failure.
type ErrorCode string

const (
	// Common errors
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	CodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Pairing errors
	CodeGenerationExhausted ErrorCode = "CODE_GENERATION_EXHAUSTED"
	CodeCodeNotFound        ErrorCode = "CODE_NOT_FOUND"
	CodeAlreadyClaimed      ErrorCode = "ALREADY_CLAIMED"
	CodeSelfLink            ErrorCode = "SELF_LINK"

	// Quiz errors
	CodeSaveFailed         ErrorCode = "SAVE_FAILED"
	CodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"
	CodeComparisonLocked   ErrorCode = "COMPARISON_LOCKED"
	CodeQuestionNotActive  ErrorCode = "QUESTION_NOT_ACTIVE"
)

// DomainError is the typed failure surfaced by every service operation.
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
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

// MarshalJSON keeps the wrapped cause out of API responses.
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError.
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
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

func NewStoreUnavailableError(message string, cause error) *DomainError {
	return NewError(CodeStoreUnavailable, message, cause)
}

func NewNotAuthenticatedError(message string) *DomainError {
	return NewError(CodeNotAuthenticated, message, nil)
}

// NewCodeGenerationExhaustedError reports that the bounded retry loop for
// linking-code generation ran out of attempts.
func NewCodeGenerationExhaustedError(attempts int) *DomainError {
	return &DomainError{
		Code:    CodeGenerationExhausted,
		Message: fmt.Sprintf("could not generate a unique linking code after %d attempts", attempts),
		Context: map[string]interface{}{"attempts": attempts},
	}
}

func NewCodeNotFoundError(code string) *DomainError {
	return NewError(CodeCodeNotFound, fmt.Sprintf("no pending invite for code %s", code), nil)
}

func NewAlreadyClaimedError(code string) *DomainError {
	return NewError(CodeAlreadyClaimed, fmt.Sprintf("invite %s has already been claimed", code), nil)
}

func NewSelfLinkError() *DomainError {
	return NewError(CodeSelfLink, "cannot link with yourself", nil)
}

func NewSaveFailedError(saved int, cause error) *DomainError {
	return &DomainError{
		Code:    CodeSaveFailed,
		Message: "failed to save answers",
		Cause:   cause,
		Context: map[string]interface{}{"saved": saved},
	}
}

func NewInvalidCategoryError(categoryID string) *DomainError {
	return NewError(CodeInvalidCategory, fmt.Sprintf("invalid category: %s", categoryID), nil)
}

func NewComparisonLockedError(categoryID string) *DomainError {
	return NewError(CodeComparisonLocked,
		fmt.Sprintf("comparison for category %s is locked until both partners finish", categoryID), nil)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, got, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, got)}
}
