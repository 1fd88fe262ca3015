package solana

import (
	"context"

	"github.com/ybbus/jsonrpc"
)

// CallContext performs a JSON-RPC call that returns as soon as ctx is done,
// whether or not the endpoint has responded. The response is only decoded
// into out when the call completes before ctx is done.
//
// The underlying request keeps running until the HTTP client gives up, so
// clients should also be configured with a timeout.
func CallContext(ctx context.Context, client jsonrpc.RPCClient, out interface{}, method string, params ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	type result struct {
		resp *jsonrpc.RPCResponse
		err  error
	}

	done := make(chan result, 1)
	go func() {
		resp, err := client.Call(method, params...)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		if res.resp.Error != nil {
			return res.resp.Error
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return res.resp.GetObject(out)
	}
}
