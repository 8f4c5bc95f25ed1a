package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeMalformedEnvelope ErrorType = "malformed_envelope"
	ErrorTypeUnsupportedKind   ErrorType = "unsupported_kind"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeInternal          ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Envelope Errors
	ErrMalformedEnvelope = NewDomainError(ErrorTypeMalformedEnvelope, "malformed review envelope", nil)
	ErrMissingRequest    = NewDomainError(ErrorTypeMalformedEnvelope, "review envelope has no request", nil)
	ErrMissingObject     = NewDomainError(ErrorTypeMalformedEnvelope, "review request has no object", nil)

	// Extraction Errors
	ErrUnsupportedKind = NewDomainError(ErrorTypeUnsupportedKind, "object kind is not supported", nil)

	// Validation Errors
	ErrInvalidInput      = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidRuleConfig = NewDomainError(ErrorTypeValidation, "invalid rule configuration", nil)
	ErrUnknownRule       = NewDomainError(ErrorTypeValidation, "unknown rule name", nil)

	// Internal Errors
	ErrInternal    = NewDomainError(ErrorTypeInternal, "internal error", nil)
	ErrEncodeFault = NewDomainError(ErrorTypeInternal, "failed to encode review response", nil)
)

// Error type checking helper functions

// IsMalformedEnvelopeError checks if an error is a malformed envelope error
func IsMalformedEnvelopeError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeMalformedEnvelope
	}
	return false
}

// IsUnsupportedKindError checks if an error is an unsupported kind error
func IsUnsupportedKindError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeUnsupportedKind
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeValidation
	}
	return false
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == ErrorTypeInternal
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapMalformed wraps an error as a malformed envelope error
func WrapMalformed(message string, err error) error {
	return NewDomainError(ErrorTypeMalformedEnvelope, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
