package actions

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	codec "github.com/code-payments/code-actions/pkg/solana/binary"
)

// Kind classifies why a transaction could not be built. Kinds are also errors,
// so errors.Is(err, InvalidInput) works on anything returned by this package.
type Kind uint8

const (
	UnknownFailure Kind = iota
	InvalidInput
	EncodingFailure
	AddressDerivationFailure
	LedgerQueryFailure
	ExternalServiceFailure
	QuoteUnavailable
	MalformedResponse
	AssemblyFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case EncodingFailure:
		return "encoding failure"
	case AddressDerivationFailure:
		return "address derivation failure"
	case LedgerQueryFailure:
		return "ledger query failure"
	case ExternalServiceFailure:
		return "external service failure"
	case QuoteUnavailable:
		return "quote unavailable"
	case MalformedResponse:
		return "malformed response"
	case AssemblyFailure:
		return "assembly failure"
	}
	return "unknown failure"
}

func (k Kind) Error() string {
	return k.String()
}

// Error is the error type returned by every flow. Field is only set for
// InvalidInput and names the offending parameter.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	if len(e.Field) > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == e.Kind
}

// KindOf returns the Kind of err, or UnknownFailure when err did not come
// from this package.
func KindOf(err error) Kind {
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr.Kind
	}
	return UnknownFailure
}

// FieldOf returns the offending parameter of an InvalidInput error.
func FieldOf(err error) string {
	var actionErr *Error
	if errors.As(err, &actionErr) {
		return actionErr.Field
	}
	return ""
}

func newInvalidInputError(field, format string, args ...interface{}) error {
	return &Error{
		Kind:  InvalidInput,
		Field: field,
		Err:   errors.Errorf(format, args...),
	}
}

func newError(kind Kind, err error, message string) error {
	return &Error{
		Kind: kind,
		Err:  errors.Wrap(err, message),
	}
}

// newBuildError classifies an instruction building failure.
func newBuildError(err error, message string) error {
	if errors.Is(err, codec.ErrEncodingFailure) {
		return newError(EncodingFailure, err, message)
	}
	return newError(AssemblyFailure, err, message)
}

func newSwapError(err error, message string) error {
	switch {
	case errors.Is(err, jupiter.ErrQuoteUnavailable):
		return newError(QuoteUnavailable, err, message)
	case errors.Is(err, jupiter.ErrMalformedResponse):
		return newError(MalformedResponse, err, message)
	}
	return newError(ExternalServiceFailure, err, message)
}

func newTokenInfoError(field string, err error) error {
	switch {
	case errors.Is(err, helius.ErrAssetNotFound), errors.Is(err, helius.ErrNotFungible):
		return &Error{
			Kind:  InvalidInput,
			Field: field,
			Err:   err,
		}
	}
	return newError(ExternalServiceFailure, err, "error getting token info")
}
