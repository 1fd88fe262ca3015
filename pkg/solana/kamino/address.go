package kamino

import (
	"crypto/ed25519"

	"github.com/code-payments/code-actions/pkg/solana"
)

// GetUserStateAddress derives the user state account of owner in farmState.
func GetUserStateAddress(farmState, owner ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ProgramKey,
		userStatePrefix,
		farmState,
		owner,
	)
}
