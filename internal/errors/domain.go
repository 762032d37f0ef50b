// Package errors defines the domain error type returned across service boundaries.
// Handlers translate a DomainError into its HTTP status and code.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// DomainError is a caller-visible failure with a stable code.
type DomainError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code so sentinels stay comparable after WithDetails.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy of e carrying the given details.
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	cp := *e
	cp.Details = make(map[string]interface{}, len(e.Details)+len(details))
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	for k, v := range details {
		cp.Details[k] = v
	}
	return &cp
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// HTTPStatus returns the status for err, 500 when err is not a DomainError.
func HTTPStatus(err error) int {
	var de *DomainError
	if stderrors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}

// As unwraps err into a DomainError.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func Validation(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: http.StatusBadRequest}
}

func Conflict(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: http.StatusConflict}
}

func NotFound(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: http.StatusNotFound}
}

func Forbidden(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Status: http.StatusForbidden}
}

var ErrValidation = Validation("VALIDATION_FAILED", "validation failed")
