package solana

import "strings"

// Environment is the public RPC endpoint of a cluster.
type Environment string

const (
	EnvironmentDev  Environment = "https://api.devnet.solana.com"
	EnvironmentTest Environment = "https://api.testnet.solana.com"
	EnvironmentProd Environment = "https://api.mainnet-beta.solana.com"
)

// EnvironmentFromCluster resolves a cluster moniker such as "devnet" or
// "mainnet-beta" to its public endpoint.
func EnvironmentFromCluster(cluster string) (Environment, bool) {
	switch strings.ToLower(cluster) {
	case "devnet", "dev":
		return EnvironmentDev, true
	case "testnet", "test":
		return EnvironmentTest, true
	case "mainnet", "mainnet-beta", "prod":
		return EnvironmentProd, true
	}
	return "", false
}
