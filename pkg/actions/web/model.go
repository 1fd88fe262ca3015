package web

import (
	"crypto/ed25519"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/actions"
)

const maxRequestBodySize = 4 << 10

// Reference: https://solana.com/docs/advanced/actions

type actionPostRequest struct {
	Account string `json:"account"`
}

type actionPostResponse struct {
	Transaction string `json:"transaction"`
	Message     string `json:"message,omitempty"`
}

type actionError struct {
	Message string `json:"message"`
}

type actionMetadata struct {
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Label       string       `json:"label"`
	Disabled    bool         `json:"disabled,omitempty"`
	Error       *actionError `json:"error,omitempty"`
	Links       *actionLinks `json:"links,omitempty"`
}

type actionLinks struct {
	Actions []linkedAction `json:"actions"`
}

type linkedAction struct {
	Label      string                  `json:"label"`
	Href       string                  `json:"href"`
	Parameters []linkedActionParameter `json:"parameters,omitempty"`
}

type linkedActionParameter struct {
	Label    string `json:"label"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type actionsRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

type actionsManifest struct {
	Rules []actionsRule `json:"rules"`
}

func newActionPostResponse(txn *actions.UnsignedTransaction) *actionPostResponse {
	return &actionPostResponse{
		Transaction: txn.Base64(),
		Message:     txn.Message,
	}
}

// parseAccount reads the signing account from the request body.
func parseAccount(r *http.Request) (ed25519.PublicKey, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "error reading request body")
	}

	var req actionPostRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &actions.Error{
			Kind:  actions.InvalidInput,
			Field: "account",
			Err:   errors.New("request body is not valid json"),
		}
	}

	return actions.ParseAccount("account", req.Account)
}

// formatPublicKey shortens value to its first and last length/2 characters.
func formatPublicKey(value string, length int) string {
	if len(value) <= length {
		return value
	}

	half := length / 2
	return value[:half] + "..." + value[len(value)-half:]
}
