package squads

import (
	"crypto/ed25519"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/anchor"
	"github.com/code-payments/code-actions/pkg/solana/system"
)

var createSchema = anchor.NewSchema(
	"create",
	anchor.Writable("multisig"),
	anchor.WritableSigner("creator"),
	anchor.Readonly("systemProgram"),
)

// CreateInstructionArgs is borsh encoded. Keys are fixed size arrays so they
// carry no length prefix, and the record is encoded by value since borsh
// treats pointers as optional values.
type CreateInstructionArgs struct {
	Threshold uint16
	CreateKey [32]byte
	Members   [][32]byte
	Meta      string
}

type CreateInstructionAccounts struct {
	Multisig ed25519.PublicKey
	Creator  ed25519.PublicKey
}

func NewCreateInstruction(accounts *CreateInstructionAccounts, args *CreateInstructionArgs) (solana.Instruction, error) {
	return createSchema.BuildBorsh(ProgramKey, anchor.Accounts{
		"multisig":      accounts.Multisig,
		"creator":       accounts.Creator,
		"systemProgram": system.ProgramPublicKey(),
	}, *args)
}

// ToKey32 converts a public key to the fixed size form used in borsh records.
func ToKey32(key ed25519.PublicKey) [32]byte {
	var out [32]byte
	copy(out[:], key)
	return out
}
