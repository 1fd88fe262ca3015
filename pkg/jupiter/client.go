package jupiter

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/metrics"
)

// Reference: https://station.jup.ag/docs/apis/swap-api

const (
	DefaultApiBaseUrl = "https://quote-api.jup.ag/v6/"

	DefaultMaxAccounts = 50

	quoteEndpointName            = "quote"
	swapInstructionsEndpointName = "swap-instructions"

	maxResponseSize = 4 << 20

	metricsStructName = "jupiter.client"
)

// Client talks to the Jupiter swap API. It never retries; callers decide
// whether to rerun a whole flow.
type Client struct {
	log        *logrus.Entry
	baseUrl    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient returns a new Jupiter client for performing on-chain swaps
func NewClient(baseUrl string, opts ...ClientOption) *Client {
	if !strings.HasSuffix(baseUrl, "/") {
		baseUrl += "/"
	}

	c := &Client{
		log:        logrus.StandardLogger().WithField("type", "jupiter/client"),
		baseUrl:    baseUrl,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuote gets an optimal route for performing a swap
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetQuote")
	defer tracer.End()

	quote, err := func() (*Quote, error) {
		if len(req.InputMint) != ed25519.PublicKeySize || len(req.OutputMint) != ed25519.PublicKeySize {
			return nil, errors.New("input and output mints are required")
		}

		maxAccounts := req.MaxAccounts
		if maxAccounts == 0 {
			maxAccounts = DefaultMaxAccounts
		}

		params := url.Values{}
		params.Set("inputMint", base58.Encode(req.InputMint))
		params.Set("outputMint", base58.Encode(req.OutputMint))
		params.Set("amount", strconv.FormatUint(req.Amount, 10))
		params.Set("maxAccounts", strconv.Itoa(int(maxAccounts)))
		if req.SlippageBps > 0 {
			params.Set("slippageBps", strconv.FormatUint(uint64(req.SlippageBps), 10))
		}
		if req.AsLegacyTransaction {
			params.Set("asLegacyTransaction", "true")
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+quoteEndpointName+"?"+params.Encode(), nil)
		if err != nil {
			return nil, errors.Wrap(err, "error creating http request")
		}

		respBody, err := c.do(httpReq, quoteEndpointName)
		if err != nil {
			return nil, err
		}

		quote, err := decodeQuote(respBody)
		if err != nil {
			return nil, err
		}
		quote.asLegacyTransaction = req.AsLegacyTransaction
		return quote, nil
	}()

	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	tracer.AddAttributes(map[string]interface{}{
		"in_amount":  quote.InAmount,
		"out_amount": quote.OutAmount,
		"legs":       len(quote.RoutePlan),
	})
	return quote, nil
}

// GetSwapInstructions gets the instructions to construct a transaction to sign
// and execute on chain to perform a swap with a given quote
func (c *Client) GetSwapInstructions(
	ctx context.Context,
	quote *Quote,
	owner ed25519.PublicKey,
	destinationTokenAccount ed25519.PublicKey,
) (*SwapInstructions, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetSwapInstructions")
	defer tracer.End()

	res, err := func() (*SwapInstructions, error) {
		if quote == nil || len(quote.raw) == 0 {
			return nil, errors.New("quote is required")
		}

		reqBody := jsonSwapRequest{
			QuoteResponse:       quote.raw,
			UserPublicKey:       base58.Encode(owner),
			AsLegacyTransaction: quote.asLegacyTransaction,
		}
		if len(destinationTokenAccount) > 0 {
			reqBody.DestinationTokenAccount = base58.Encode(destinationTokenAccount)
		}

		marshalled, err := json.Marshal(reqBody)
		if err != nil {
			return nil, errors.Wrap(err, "error marshalling request body")
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+swapInstructionsEndpointName, bytes.NewReader(marshalled))
		if err != nil {
			return nil, errors.Wrap(err, "error creating http request")
		}
		httpReq.Header.Set("Content-Type", "application/json")

		respBody, err := c.do(httpReq, swapInstructionsEndpointName)
		if err != nil {
			return nil, err
		}

		return decodeSwapInstructions(respBody)
	}()

	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return res, nil
}

// GetSwap fetches a quote and then the swap instructions for it.
func (c *Client) GetSwap(
	ctx context.Context,
	req QuoteRequest,
	owner ed25519.PublicKey,
	destinationTokenAccount ed25519.PublicKey,
) (*Quote, *SwapInstructions, error) {
	quote, err := c.GetQuote(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	swap, err := c.GetSwapInstructions(ctx, quote, owner, destinationTokenAccount)
	if err != nil {
		return nil, nil, err
	}

	return quote, swap, nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	log := c.log.WithField("endpoint", endpoint)

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("failure executing http request")
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode == http.StatusOK {
		return respBody, nil
	}

	if resp.StatusCode == http.StatusBadRequest {
		var parsed jsonError
		if json.Unmarshal(respBody, &parsed) == nil {
			if _, ok := noRouteErrorCodes[parsed.ErrorCode]; ok {
				return nil, errors.Wrap(ErrQuoteUnavailable, parsed.Error)
			}
		}
	}

	log.WithField("status", resp.StatusCode).Warn("unexpected http status")
	return nil, &StatusError{
		Endpoint: endpoint,
		Code:     resp.StatusCode,
		Body:     string(respBody),
	}
}
