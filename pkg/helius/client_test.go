package helius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/code-actions/pkg/testutil"
)

type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     int             `json:"id"`
}

func newTestServer(t *testing.T, result interface{}, rpcErr map[string]interface{}) (*httptest.Server, *rpcRequest) {
	var last rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      last.ID,
		}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server, &last
}

func TestGetTokenInfo_HappyPath(t *testing.T) {
	mint := testutil.NewRandomAccount(t)

	server, last := newTestServer(t, map[string]interface{}{
		"id":        base58.Encode(mint),
		"interface": "FungibleToken",
		"content": map[string]interface{}{
			"metadata": map[string]interface{}{
				"name":   "Bonk",
				"symbol": "Bonk",
			},
		},
		"token_info": map[string]interface{}{
			"symbol":   "BONK",
			"decimals": 5,
		},
	}, nil)

	info, err := New(server.URL).GetTokenInfo(context.Background(), mint)
	require.NoError(t, err)

	assert.Equal(t, "getAsset", last.Method)
	var params map[string]string
	require.NoError(t, json.Unmarshal(last.Params, &params))
	assert.Equal(t, base58.Encode(mint), params["id"])

	assert.EqualValues(t, mint, info.Mint)
	assert.Equal(t, "BONK", info.Symbol)
	assert.Equal(t, "Bonk", info.Name)
	assert.EqualValues(t, 5, info.Decimals)
}

func TestGetTokenInfo_SymbolFallback(t *testing.T) {
	server, _ := newTestServer(t, map[string]interface{}{
		"content": map[string]interface{}{
			"metadata": map[string]interface{}{
				"symbol": "SEND",
			},
		},
		"token_info": map[string]interface{}{
			"decimals": 0,
		},
	}, nil)

	info, err := New(server.URL).GetTokenInfo(context.Background(), testutil.NewRandomAccount(t))
	require.NoError(t, err)
	assert.Equal(t, "SEND", info.Symbol)
	assert.EqualValues(t, 0, info.Decimals)
}

func TestGetTokenInfo_NotFungible(t *testing.T) {
	server, _ := newTestServer(t, map[string]interface{}{
		"interface": "V1_NFT",
	}, nil)

	_, err := New(server.URL).GetTokenInfo(context.Background(), testutil.NewRandomAccount(t))
	assert.Equal(t, ErrNotFungible, err)
}

func TestGetTokenInfo_NotFound(t *testing.T) {
	server, _ := newTestServer(t, nil, map[string]interface{}{
		"code":    -32000,
		"message": "Asset Not Found",
	})

	_, err := New(server.URL).GetTokenInfo(context.Background(), testutil.NewRandomAccount(t))
	assert.Equal(t, ErrAssetNotFound, err)
}

func TestGetTokenInfo_RPCError(t *testing.T) {
	server, _ := newTestServer(t, nil, map[string]interface{}{
		"code":    -32603,
		"message": "internal error",
	})

	_, err := New(server.URL).GetTokenInfo(context.Background(), testutil.NewRandomAccount(t))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAssetNotFound))
	assert.False(t, errors.Is(err, ErrNotFungible))
}

func TestGetTokenInfo_Deadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewWithRPCOptions(server.URL, &jsonrpc.RPCClientOpts{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}).GetTokenInfo(ctx, testutil.NewRandomAccount(t))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}
