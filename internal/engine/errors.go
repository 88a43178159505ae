package engine

import (
	"hotel/shared/failure"
	"net/http"
)

var (
	// ErrInvalidDateRange is returned when a range ends on or before its start.
	ErrInvalidDateRange = &failure.Failure{Code: http.StatusBadRequest, Message: "invalid date range: end date must be after start date"}
	// ErrNegativeRate is returned when a nightly rate is below zero.
	ErrNegativeRate = &failure.Failure{Code: http.StatusBadRequest, Message: "nightly rate must not be negative"}
)
