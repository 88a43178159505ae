package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is an error carrying the HTTP status it should be reported with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidPageParam        = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
	InvalidLimitParam       = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure with the same code and message.
func (e *Failure) Is(target error) bool {
	var t *Failure
	if !errors.As(target, &t) {
		return false
	}

	return e.Code == t.Code && e.Message == t.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest returns a 400 failure with the message of err, or nil when err is nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

// BadRequestf formats a 400 failure.
func BadRequestf(format string, args ...any) error {
	return newFailure(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

// NotFound returns a 404 failure.
func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict returns a 409 failure, used for referential guards and double bookings.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// InternalError returns a 500 failure with the message of err, or nil when err is nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusInternalServerError, err.Error())
}

func Unimplemented(methodName string) error {
	return newFailure(http.StatusNotImplemented, methodName)
}

// GetCode returns the status of the first Failure in err's chain, 500 otherwise.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// HasCode reports whether err carries the given status.
func HasCode(err error, code int) bool {
	return err != nil && GetCode(err) == code
}
