package system

import (
	"crypto/ed25519"

	"github.com/code-payments/code-actions/pkg/solana"
)

// ProgramKey is the system program, 11111111111111111111111111111111.
var ProgramKey [32]byte

// RentSysVar is the rent sysvar, still required by programs built before
// sysvars could be fetched at runtime.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar = solana.MustPublicKeyFromString("SysvarRent111111111111111111111111111111111")

// ProgramPublicKey returns ProgramKey as an ed25519.PublicKey.
func ProgramPublicKey() ed25519.PublicKey {
	return ProgramKey[:]
}
