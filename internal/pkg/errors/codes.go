package errors

import (
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "LOCATION_NOT_FOUND"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeInternal      = "INTERNAL_SERVER_ERROR"
)

var (
	ErrValidation = New(
		CodeValidation,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrSameLocation = New(
		CodeValidation,
		"origin and destination cannot be the same",
		http.StatusBadRequest,
	)

	ErrInvalidTravelers = New(
		CodeValidation,
		"travelers must be a positive integer",
		http.StatusBadRequest,
	)

	ErrLocationNotFound = New(
		CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)

	ErrConfiguration = New(
		CodeConfiguration,
		"Service is misconfigured",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		CodeInternal,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// Validation builds a 400 error with a human-readable message.
func Validation(message string) *AppError {
	return ErrValidation.WithMessage(message)
}

// LocationNotFound echoes the text that did not match any gazetteer entry.
func LocationNotFound(query string) *AppError {
	return ErrLocationNotFound.
		WithMessage(fmt.Sprintf("location not found: %q", query)).
		WithDetails(map[string]interface{}{"query": query})
}

// Configuration wraps an internal misconfiguration. Never meant for end users.
func Configuration(reason string) *AppError {
	return ErrConfiguration.WithMessage(reason)
}
