package jupiter

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTransport is returned when a request could not be sent or its
	// response could not be read.
	ErrTransport = errors.New("jupiter transport failure")

	// ErrUnexpectedStatus is returned for non-success HTTP statuses. The
	// concrete error is a *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected jupiter http status")

	// ErrQuoteUnavailable is returned when no route exists for the pair.
	ErrQuoteUnavailable = errors.New("jupiter quote unavailable")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed jupiter response")
)

// Error codes Jupiter returns when it cannot route a swap.
//
// Reference: https://station.jup.ag/docs/api-setup#error-codes
var noRouteErrorCodes = map[string]struct{}{
	"COULD_NOT_FIND_ANY_ROUTE": {},
	"NO_ROUTES_FOUND":          {},
	"TOKEN_NOT_TRADABLE":       {},
}

type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Endpoint, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d: %s", ErrUnexpectedStatus, e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedResponse, format, args...)
}
