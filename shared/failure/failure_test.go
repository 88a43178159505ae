package failure_test

import (
	"errors"
	"fmt"
	"hotel/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{Code: http.StatusBadRequest, Message: "check-out must be after check-in"}

	if f.Error() != "check-out must be after check-in" {
		t.Errorf("unexpected error message %q", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("bad date")), code: http.StatusBadRequest, message: "bad date"},
		{name: "bad request from string", err: failure.BadRequestFromString("bad"), code: http.StatusBadRequest, message: "bad"},
		{name: "bad request formatted", err: failure.BadRequestf("room %d", 7), code: http.StatusBadRequest, message: "room 7"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "forbidden", err: failure.Forbidden("nope"), code: http.StatusForbidden, message: "nope"},
		{name: "not found", err: failure.NotFound("room not found"), code: http.StatusNotFound, message: "room not found"},
		{name: "conflict", err: failure.Conflict("room is booked"), code: http.StatusConflict, message: "room is booked"},
		{name: "internal", err: failure.InternalError(errors.New("db down")), code: http.StatusInternalServerError, message: "db down"},
		{name: "unimplemented", err: failure.Unimplemented("Export"), code: http.StatusNotImplemented, message: "Export"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			if !errors.As(tt.err, &f) {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}
			if f.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, f.Code)
			}
			if f.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, f.Message)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}
	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.NotFound("x"), want: http.StatusNotFound},
		{name: "wrapped failure", err: fmt.Errorf("loading: %w", failure.Conflict("x")), want: http.StatusConflict},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestIs(t *testing.T) {
	sentinel := &failure.Failure{Code: http.StatusBadRequest, Message: "invalid date range"}

	wrapped := fmt.Errorf("quote: %w", failure.BadRequestFromString("invalid date range"))
	if !errors.Is(wrapped, sentinel) {
		t.Error("expected an equal failure to match the sentinel")
	}

	if errors.Is(failure.NotFound("invalid date range"), sentinel) {
		t.Error("expected a different code not to match")
	}
}

func TestHasCode(t *testing.T) {
	if !failure.HasCode(failure.NotFound("x"), http.StatusNotFound) {
		t.Error("expected HasCode to match")
	}
	if failure.HasCode(nil, http.StatusInternalServerError) {
		t.Error("expected nil error to have no code")
	}
}
