package services

import "errors"

type ErrorCode string

const (
	ErrorFailure       ErrorCode = "failure"
	ErrorUnauthorized  ErrorCode = "unauthorized"
	ErrorTokenRequired ErrorCode = "token_required"
	ErrorNotFound      ErrorCode = "not_found"
	ErrorNotAcceptable ErrorCode = "not_acceptable"
	ErrorUnprocessable ErrorCode = "unprocessable"
	ErrorInternal      ErrorCode = "internal"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewFailureError(msg string) error { return &ServiceError{Code: ErrorFailure, Message: msg} }
func NewNotFoundError(msg string) error {
	return &ServiceError{Code: ErrorNotFound, Message: msg}
}
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}
func NewTokenRequiredError(msg string) error {
	return &ServiceError{Code: ErrorTokenRequired, Message: msg}
}
func NewNotAcceptableError(msg string) error {
	return &ServiceError{Code: ErrorNotAcceptable, Message: msg}
}
func NewUnprocessableError(msg string) error {
	return &ServiceError{Code: ErrorUnprocessable, Message: msg}
}
func NewInternalError(msg string) error { return &ServiceError{Code: ErrorInternal, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StatusOf maps a service error onto the numeric status codes the API
// envelope carries. Unknown errors count as internal failures.
func StatusOf(err error) int {
	se, ok := AsServiceError(err)
	if !ok {
		return 500
	}
	switch se.Code {
	case ErrorFailure:
		return 400
	case ErrorUnauthorized:
		return 401
	case ErrorTokenRequired:
		return 403
	case ErrorNotFound:
		return 404
	case ErrorNotAcceptable:
		return 406
	case ErrorUnprocessable:
		return 422
	default:
		return 500
	}
}
