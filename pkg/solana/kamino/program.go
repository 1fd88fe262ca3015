package kamino

import (
	"crypto/ed25519"
	"math/big"

	"github.com/code-payments/code-actions/pkg/solana"
)

// Kamino farms program and the KMNO staking farm.
var (
	// FarmsPZpWu9i7Kky8tPN37rs2TpmMrAZrC7S7vJa91Hr
	ProgramKey = solana.MustPublicKeyFromString("FarmsPZpWu9i7Kky8tPN37rs2TpmMrAZrC7S7vJa91Hr")

	KmnoMint           = solana.MustPublicKeyFromString("KMNo3nJsBXfcpJTVhZcXLW7RmTwTt4GVFE7suUBo9sS")
	KmnoFarmState      = solana.MustPublicKeyFromString("2sFZDpBn4sA42uNbAD6QzQ98rPSmqnPyksYe6SJKVvay")
	KmnoFarmVault      = solana.MustPublicKeyFromString("5xpGE38rm4ZqAgQiuocqkw6cM6Cwrwvx6BVJk6i2oKhv")
	KmnoVaultAuthority = solana.MustPublicKeyFromString("Ec6MuWtpvFcVyMsp7vipKCg1CMkKrWHZpWPdnJF16G57")

	// The farm has no oracle, which the program expresses by passing its own id.
	KmnoScopePrices ed25519.PublicKey = ProgramKey
)

const (
	KmnoDecimals = 6

	// Stake shares carry 18 decimals of precision on top of the token's own.
	StakeSharesDecimals = KmnoDecimals + 18
)

var userStatePrefix = []byte("user")

// StakeSharesScale is 10^StakeSharesDecimals.
var StakeSharesScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(StakeSharesDecimals), nil)
