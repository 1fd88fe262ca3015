package squads

import (
	"crypto/ed25519"

	"github.com/code-payments/code-actions/pkg/solana"
)

// GetMultisigAddress derives the multisig account for a create key.
func GetMultisigAddress(createKey ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ProgramKey,
		multisigPrefix,
		createKey,
		multisigSuffix,
	)
}
