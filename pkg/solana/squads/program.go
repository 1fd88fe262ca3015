package squads

import (
	"github.com/code-payments/code-actions/pkg/solana"
)

// Squads v3 multisig program, SMPLecH534NA9acpos4G6x7uf3LWbCAwZQE9e8ZekMu
var ProgramKey = solana.MustPublicKeyFromString("SMPLecH534NA9acpos4G6x7uf3LWbCAwZQE9e8ZekMu")

const (
	MaxNameLength        = 36
	MaxDescriptionLength = 64
)

var (
	multisigPrefix = []byte("squad")
	multisigSuffix = []byte("multisig")
)
