// Package errs provides the error envelope returned by the API and the
// mapping of failures onto HTTP statuses.
package errs

import (
	"errors"
	"net/http"

	"github.com/speedrunethereum/speedrun/business/sys/auth"
	"github.com/speedrunethereum/speedrun/business/sys/validate"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context. The message of a trusted error is
// safe to show to the caller.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// Classify decides the response and status for an error that reached the
// edge of the application. Anything not recognized is reported as an
// internal error without detail.
func Classify(err error) (Response, int) {
	switch {
	case validate.IsFieldErrors(err):
		fieldErrs := validate.GetFieldErrors(err)
		return Response{Error: "data validation error", Fields: fieldErrs.Fields()}, http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidSignature):
		return Response{Error: "invalid signature"}, http.StatusUnauthorized

	case errors.Is(err, auth.ErrForbidden):
		return Response{Error: http.StatusText(http.StatusForbidden)}, http.StatusForbidden
	}

	if te := GetTrusted(err); te != nil {
		return Response{Error: te.Error()}, te.Status
	}

	return Response{Error: "internal server error"}, http.StatusInternalServerError
}
