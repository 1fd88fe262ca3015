package helius

import (
	"context"
	"crypto/ed25519"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/code-actions/pkg/metrics"
	"github.com/code-payments/code-actions/pkg/solana"
)

// Reference: https://docs.helius.dev/compression-and-das-api/digital-asset-standard-das-api/get-asset

const (
	metricsStructName = "helius.client"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNotFungible   = errors.New("asset is not a fungible token")
)

// TokenInfo is the subset of DAS asset data needed to price a token.
type TokenInfo struct {
	Mint     ed25519.PublicKey
	Symbol   string
	Name     string
	Decimals uint8
}

// Client resolves token metadata through the DAS API.
type Client interface {
	GetTokenInfo(ctx context.Context, mint ed25519.PublicKey) (*TokenInfo, error)
}

type client struct {
	log    *logrus.Entry
	client jsonrpc.RPCClient
}

// New returns a DAS client for the RPC endpoint, which typically carries the
// API key as a query parameter.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions is New with custom JSON-RPC client options, such as an
// HTTP client with a timeout.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log:    logrus.StandardLogger().WithField("type", "helius/client"),
		client: jsonrpc.NewClientWithOpts(endpoint, opts),
	}
}

type getAssetParams struct {
	ID string `json:"id"`
}

type getAssetResponse struct {
	ID        string `json:"id"`
	Interface string `json:"interface"`
	Content   struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
	} `json:"content"`
	TokenInfo *struct {
		Symbol   string `json:"symbol"`
		Decimals *uint8 `json:"decimals"`
	} `json:"token_info"`
}

func (c *client) GetTokenInfo(ctx context.Context, mint ed25519.PublicKey) (*TokenInfo, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetTokenInfo")
	defer tracer.End()

	log := c.log.WithField("mint", base58.Encode(mint))

	info, err := func() (*TokenInfo, error) {
		var resp *getAssetResponse
		err := solana.CallContext(ctx, c.client, &resp, "getAsset", getAssetParams{ID: base58.Encode(mint)})
		if err != nil {
			if rpcErr, ok := err.(*jsonrpc.RPCError); ok && isNotFound(rpcErr) {
				return nil, ErrAssetNotFound
			}
			return nil, errors.Wrap(err, "getAsset() failed to send request")
		}
		if resp == nil {
			return nil, ErrAssetNotFound
		}

		if resp.TokenInfo == nil || resp.TokenInfo.Decimals == nil {
			return nil, ErrNotFungible
		}

		symbol := resp.TokenInfo.Symbol
		if len(symbol) == 0 {
			symbol = resp.Content.Metadata.Symbol
		}

		return &TokenInfo{
			Mint:     mint,
			Symbol:   symbol,
			Name:     resp.Content.Metadata.Name,
			Decimals: *resp.TokenInfo.Decimals,
		}, nil
	}()

	if err != nil {
		log.WithError(err).Debug("failure getting token info")
		tracer.OnError(err)
		return nil, err
	}
	return info, nil
}

func isNotFound(err *jsonrpc.RPCError) bool {
	return strings.Contains(strings.ToLower(err.Message), "not found")
}
