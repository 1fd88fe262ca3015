package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/actions"
)

const (
	contentTypeHeaderName      = "Content-Type"
	jsonContentTypeHeaderValue = "application/json"
)

// statusFromError maps a failure to the HTTP status and the message exposed to
// the client. Internal details are only exposed for caller errors.
func statusFromError(err error) (int, string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, "request timed out"
	}

	switch actions.KindOf(err) {
	case actions.InvalidInput:
		return http.StatusBadRequest, err.Error()
	case actions.QuoteUnavailable:
		return http.StatusUnprocessableEntity, "no swap route available for this payment"
	case actions.LedgerQueryFailure, actions.ExternalServiceFailure, actions.MalformedResponse:
		return http.StatusBadGateway, "upstream service unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	marshalled, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		marshalled = []byte(`{"message":"internal server error"}`)
	}

	w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
	w.WriteHeader(statusCode)
	w.Write(marshalled)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, &actionError{Message: message})
}
