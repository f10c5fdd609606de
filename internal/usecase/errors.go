package usecase

import (
	"errors"
	"fmt"

	"github.com/xikelabs/lead-tracker/internal/entity"
)

const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeGuardViolation    = "GUARD_VIOLATION"
	CodeMalformedRow      = "MALFORMED_ROW"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps infrastructure failures the caller cannot act on.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// NewInvalidTransition reports an event fired from a stage it is not legal in.
func NewInvalidTransition(event string, stage entity.LeadStage) *DomainError {
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s is not allowed from stage %q", event, stage),
	}
}

// NewGuardViolation reports a failed precondition, naming which one.
func NewGuardViolation(precondition string) *DomainError {
	return &DomainError{
		Code:    CodeGuardViolation,
		Message: precondition,
	}
}

func NewNotFound(what string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: what + " not found",
	}
}

// NewStoreUnavailable is an opaque passthrough of a store failure. The core
// never retries these; retry policy belongs to the store client.
func NewStoreUnavailable(err error) *TechnicalError {
	return &TechnicalError{
		Code:    CodeStoreUnavailable,
		Message: "store unavailable: " + err.Error(),
		Err:     err,
	}
}

func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
