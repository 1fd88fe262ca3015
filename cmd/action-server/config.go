package main

import (
	"time"

	"github.com/code-payments/code-actions/pkg/config"
	"github.com/code-payments/code-actions/pkg/config/env"
	"github.com/code-payments/code-actions/pkg/config/memory"
	"github.com/code-payments/code-actions/pkg/config/wrapper"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/solana"
)

const (
	envConfigPrefix = "ACTIONS_"

	RpcEndpointConfigEnvName = envConfigPrefix + "RPC_ENDPOINT"
	defaultRpcEndpoint       = string(solana.EnvironmentProd)

	RpcAttemptsConfigEnvName = envConfigPrefix + "RPC_ATTEMPTS"
	defaultRpcAttempts       = 1

	NetworkTimeoutConfigEnvName = envConfigPrefix + "NETWORK_TIMEOUT"
	defaultNetworkTimeout       = 15 * time.Second

	JupiterBaseUrlConfigEnvName = envConfigPrefix + "JUPITER_BASE_URL"
	defaultJupiterBaseUrl       = jupiter.DefaultApiBaseUrl

	JupiterMaxAccountsConfigEnvName = envConfigPrefix + "JUPITER_MAX_ACCOUNTS"
	defaultJupiterMaxAccounts       = jupiter.DefaultMaxAccounts

	JupiterSlippageBpsConfigEnvName = envConfigPrefix + "JUPITER_SLIPPAGE_BPS"
	defaultJupiterSlippageBps       = 0

	HeliusEndpointConfigEnvName = envConfigPrefix + "HELIUS_ENDPOINT"
	defaultHeliusEndpoint       = ""

	SetBlockhashConfigEnvName = envConfigPrefix + "SET_BLOCKHASH"
	defaultSetBlockhash       = false

	LookupTablesConfigEnvName = envConfigPrefix + "LOOKUP_TABLES"
	defaultLookupTables       = true
)

type conf struct {
	rpcEndpoint        config.String
	rpcAttempts        config.Uint64
	networkTimeout     config.Duration
	jupiterBaseUrl     config.String
	jupiterMaxAccounts config.Uint64
	jupiterSlippageBps config.Uint64
	heliusEndpoint     config.String
	setBlockhash       config.Bool
	lookupTables       config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rpcEndpoint:        env.NewStringConfig(RpcEndpointConfigEnvName, defaultRpcEndpoint),
			rpcAttempts:        env.NewUint64Config(RpcAttemptsConfigEnvName, defaultRpcAttempts),
			networkTimeout:     env.NewDurationConfig(NetworkTimeoutConfigEnvName, defaultNetworkTimeout),
			jupiterBaseUrl:     env.NewStringConfig(JupiterBaseUrlConfigEnvName, defaultJupiterBaseUrl),
			jupiterMaxAccounts: env.NewUint64Config(JupiterMaxAccountsConfigEnvName, defaultJupiterMaxAccounts),
			jupiterSlippageBps: env.NewUint64Config(JupiterSlippageBpsConfigEnvName, defaultJupiterSlippageBps),
			heliusEndpoint:     env.NewStringConfig(HeliusEndpointConfigEnvName, defaultHeliusEndpoint),
			setBlockhash:       env.NewBoolConfig(SetBlockhashConfigEnvName, defaultSetBlockhash),
			lookupTables:       env.NewBoolConfig(LookupTablesConfigEnvName, defaultLookupTables),
		}
	}
}

type testOverrides struct {
	rpcEndpoint        string
	jupiterMaxAccounts uint64
	jupiterSlippageBps uint64
	heliusEndpoint     string
	setBlockhash       bool
	networkTimeout     time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	networkTimeout := overrides.networkTimeout
	if networkTimeout == 0 {
		networkTimeout = defaultNetworkTimeout
	}

	return func() *conf {
		return &conf{
			rpcEndpoint:        wrapper.NewStringConfig(memory.NewConfig(overrides.rpcEndpoint), defaultRpcEndpoint),
			rpcAttempts:        wrapper.NewUint64Config(memory.NewConfig(uint64(1)), defaultRpcAttempts),
			networkTimeout:     wrapper.NewDurationConfig(memory.NewConfig(networkTimeout), defaultNetworkTimeout),
			jupiterBaseUrl:     wrapper.NewStringConfig(memory.NewConfig(defaultJupiterBaseUrl), defaultJupiterBaseUrl),
			jupiterMaxAccounts: wrapper.NewUint64Config(memory.NewConfig(overrides.jupiterMaxAccounts), defaultJupiterMaxAccounts),
			jupiterSlippageBps: wrapper.NewUint64Config(memory.NewConfig(overrides.jupiterSlippageBps), defaultJupiterSlippageBps),
			heliusEndpoint:     wrapper.NewStringConfig(memory.NewConfig(overrides.heliusEndpoint), defaultHeliusEndpoint),
			setBlockhash:       wrapper.NewBoolConfig(memory.NewConfig(overrides.setBlockhash), defaultSetBlockhash),
			lookupTables:       wrapper.NewBoolConfig(memory.NewConfig(true), defaultLookupTables),
		}
	}
}
