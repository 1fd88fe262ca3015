package web

import (
	"time"

	"github.com/code-payments/code-actions/pkg/config"
	"github.com/code-payments/code-actions/pkg/config/env"
	"github.com/code-payments/code-actions/pkg/config/memory"
	"github.com/code-payments/code-actions/pkg/config/wrapper"
)

const (
	envConfigPrefix = "ACTIONS_"

	RateLimitConfigEnvName = envConfigPrefix + "RATE_LIMIT"
	defaultRateLimit       = 5.0

	RequestTimeoutConfigEnvName = envConfigPrefix + "REQUEST_TIMEOUT"
	defaultRequestTimeout       = 20 * time.Second

	StakeIconConfigEnvName = envConfigPrefix + "STAKE_ICON"
	defaultStakeIcon       = "https://raw.githubusercontent.com/leandrogavidia/files/main/kmno-staking.png"

	MultisigIconConfigEnvName = envConfigPrefix + "MULTISIG_ICON"
	defaultMultisigIcon       = "https://raw.githubusercontent.com/leandrogavidia/files/main/create-squads-multisig.png"

	PayIconConfigEnvName = envConfigPrefix + "PAY_ICON"
	defaultPayIcon       = ""
)

type conf struct {
	rateLimit      config.Float64
	requestTimeout config.Duration
	stakeIcon      config.String
	multisigIcon   config.String
	payIcon        config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rateLimit:      env.NewFloat64Config(RateLimitConfigEnvName, defaultRateLimit),
			requestTimeout: env.NewDurationConfig(RequestTimeoutConfigEnvName, defaultRequestTimeout),
			stakeIcon:      env.NewStringConfig(StakeIconConfigEnvName, defaultStakeIcon),
			multisigIcon:   env.NewStringConfig(MultisigIconConfigEnvName, defaultMultisigIcon),
			payIcon:        env.NewStringConfig(PayIconConfigEnvName, defaultPayIcon),
		}
	}
}

type testOverrides struct {
	rateLimit      float64
	requestTimeout time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			rateLimit:      wrapper.NewFloat64Config(memory.NewConfig(overrides.rateLimit), defaultRateLimit),
			requestTimeout: wrapper.NewDurationConfig(memory.NewConfig(overrides.requestTimeout), defaultRequestTimeout),
			stakeIcon:      wrapper.NewStringConfig(memory.NewConfig(defaultStakeIcon), defaultStakeIcon),
			multisigIcon:   wrapper.NewStringConfig(memory.NewConfig(defaultMultisigIcon), defaultMultisigIcon),
			payIcon:        wrapper.NewStringConfig(memory.NewConfig(defaultPayIcon), defaultPayIcon),
		}
	}
}
