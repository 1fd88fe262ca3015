package main

import (
	"context"
	"math"
	"net/http"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/code-actions/pkg/actions"
	"github.com/code-payments/code-actions/pkg/actions/web"
	"github.com/code-payments/code-actions/pkg/app"
	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/netutil"
	"github.com/code-payments/code-actions/pkg/solana"
)

type actionServer struct {
	log    *logrus.Entry
	conf   *conf
	server *web.Server

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

func newActionServer(configProvider ConfigProvider) *actionServer {
	return &actionServer{
		log:        logrus.StandardLogger().WithField("type", "action-server"),
		conf:       configProvider(),
		shutdownCh: make(chan struct{}),
	}
}

// Init implements app.App.Init
func (a *actionServer) Init(_ app.Config, _ *newrelic.Application) error {
	ctx := context.Background()

	service, err := newService(ctx, a.conf)
	if err != nil {
		return err
	}

	a.server = web.NewServer(service, web.WithEnvConfigs())

	a.log.WithFields(logrus.Fields{
		"rpc_endpoint":  a.conf.rpcEndpoint.Get(ctx),
		"jupiter_url":   a.conf.jupiterBaseUrl.Get(ctx),
		"payments":      len(a.conf.heliusEndpoint.Get(ctx)) > 0,
		"set_blockhash": a.conf.setBlockhash.Get(ctx),
		"lookup_tables": a.conf.lookupTables.Get(ctx),
	}).Info("action server initialized")
	return nil
}

// Handler implements app.App.Handler
func (a *actionServer) Handler() http.Handler {
	return a.server.Handler()
}

// ShutdownChan implements app.App.ShutdownChan
func (a *actionServer) ShutdownChan() <-chan struct{} {
	return a.shutdownCh
}

// Stop implements app.App.Stop
func (a *actionServer) Stop() {
	a.shutdownOnce.Do(func() {
		close(a.shutdownCh)
	})
}

func newService(ctx context.Context, conf *conf) (*actions.Service, error) {
	rpcEndpoint := conf.rpcEndpoint.Get(ctx)
	if err := netutil.ValidateHttpUrl(rpcEndpoint, false); err != nil {
		return nil, errors.Wrap(err, "invalid rpc endpoint")
	}

	jupiterBaseUrl := conf.jupiterBaseUrl.Get(ctx)
	if err := netutil.ValidateHttpUrl(jupiterBaseUrl, false); err != nil {
		return nil, errors.Wrap(err, "invalid jupiter base url")
	}

	heliusEndpoint := conf.heliusEndpoint.Get(ctx)
	if len(heliusEndpoint) > 0 {
		if err := netutil.ValidateHttpUrl(heliusEndpoint, false); err != nil {
			return nil, errors.Wrap(err, "invalid helius endpoint")
		}
	}

	maxAccounts := conf.jupiterMaxAccounts.Get(ctx)
	if maxAccounts == 0 || maxAccounts > math.MaxUint8 {
		return nil, errors.Errorf("invalid jupiter max accounts: %d", maxAccounts)
	}

	slippageBps := conf.jupiterSlippageBps.Get(ctx)
	if slippageBps > 10_000 {
		return nil, errors.Errorf("invalid jupiter slippage: %d", slippageBps)
	}

	networkTimeout := conf.networkTimeout.Get(ctx)
	if networkTimeout <= 0 {
		return nil, errors.Errorf("invalid network timeout: %s", networkTimeout)
	}

	// Request contexts bound each call, while the client timeout bounds the
	// request left running once a context is done.
	httpClient := &http.Client{Timeout: networkTimeout}
	rpcOpts := &jsonrpc.RPCClientOpts{HTTPClient: httpClient}

	client := solana.New(
		rpcEndpoint,
		solana.WithRPCOptions(rpcOpts),
		solana.WithAttempts(uint(conf.rpcAttempts.Get(ctx))),
	)

	var assemblerOpts []actions.AssemblerOption
	if conf.setBlockhash.Get(ctx) {
		assemblerOpts = append(assemblerOpts, actions.WithBlockhashSource(client))
	}
	if conf.lookupTables.Get(ctx) {
		assemblerOpts = append(assemblerOpts, actions.WithLookupTables(client))
	}

	opts := []actions.Option{
		actions.WithAssembler(actions.NewAssembler(assemblerOpts...)),
		actions.WithSwapClient(jupiter.NewClient(jupiterBaseUrl, jupiter.WithHTTPClient(httpClient))),
		actions.WithMaxAccounts(uint8(maxAccounts)),
		actions.WithSlippageBps(uint32(slippageBps)),
	}

	// Payments stay disabled without a token metadata provider
	if len(heliusEndpoint) > 0 {
		opts = append(opts, actions.WithTokenInfo(helius.NewWithRPCOptions(heliusEndpoint, rpcOpts)))
	}

	return actions.NewService(client, opts...), nil
}

func main() {
	log := logrus.StandardLogger().WithField("type", "action-server")

	if err := app.Run(newActionServer(WithEnvConfigs())); err != nil {
		log.WithError(err).Fatal("error running action server")
	}
}
