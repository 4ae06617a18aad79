package dto

import (
	"net/http"
	"strings"
)

// Error codes originating in the HTTP layer itself.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeValidation is used when request binding fails field validation
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
//
// Conflicts with concurrent writers (optimistic lock, number collision that
// survived its retries) map to 409; business rule refusals (illegal
// transitions, protected deletions, poisoned configuration) map to 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,

	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SEQUENCE_CONFLICT":    http.StatusConflict,

	"ILLEGAL_TRANSITION":    http.StatusUnprocessableEntity,
	"DELETION_NOT_ALLOWED":  http.StatusUnprocessableEntity,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"INVALID_CONFIGURATION": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code. Validation
// codes all start with INVALID_ and map to 400 unless listed explicitly;
// anything unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
