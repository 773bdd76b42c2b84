package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-checkable kind of a domain error
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeSomeNotFound ErrorCode = "SOME_NOT_FOUND"
)

var (
	ErrProductNotFound      = &Error{Code: CodeNotFound, Status: http.StatusBadRequest, Message: "product not found"}
	ErrSomeProductsNotFound = &Error{Code: CodeSomeNotFound, Status: http.StatusBadRequest, Message: "Some products were not found"}
)

// Error is a caller-facing failure carrying a status classification that
// transports translate into protocol responses.
type Error struct {
	Code    ErrorCode
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewProductNotFoundError reports a missing or removed product
func NewProductNotFoundError(id int64) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("Product with id %d not found", id),
	}
}

// NewSomeProductsNotFoundError reports a failed batch existence check
func NewSomeProductsNotFoundError() *Error {
	return &Error{
		Code:    CodeSomeNotFound,
		Status:  ErrSomeProductsNotFound.Status,
		Message: ErrSomeProductsNotFound.Message,
	}
}

// AsError extracts a domain error from err
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
