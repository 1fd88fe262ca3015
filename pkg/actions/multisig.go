package actions

import (
	"context"
	"crypto/ed25519"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/squads"
)

const (
	multisigThreshold = 1

	multisigMessage = "Multisig successfully created!"
)

// CreateMultisig creates a Squads multisig with owner as its only member and
// a threshold of one. Name and description limits are in bytes.
func (s *Service) CreateMultisig(ctx context.Context, owner ed25519.PublicKey, name, description string) (*UnsignedTransaction, error) {
	p := s.newPipeline("create_multisig")

	if len(name) > squads.MaxNameLength {
		return nil, p.fail(newInvalidInputError("name", "name exceeds %d bytes", squads.MaxNameLength))
	}
	if len(description) > squads.MaxDescriptionLength {
		return nil, p.fail(newInvalidInputError("description", "description exceeds %d bytes", squads.MaxDescriptionLength))
	}

	createKey, err := s.createKeys()
	if err != nil {
		return nil, p.fail(newError(AddressDerivationFailure, err, "error generating create key"))
	}

	multisig, _, err := squads.GetMultisigAddress(createKey)
	if err != nil {
		return nil, p.fail(newError(AddressDerivationFailure, err, "error deriving multisig address"))
	}
	p.advance(stageAddressesDerived)

	meta, err := squads.Metadata{
		Name:        name,
		Description: description,
	}.Encode()
	if err != nil {
		return nil, p.fail(newError(EncodingFailure, err, "error encoding multisig metadata"))
	}

	createIxn, err := squads.NewCreateInstruction(
		&squads.CreateInstructionAccounts{
			Multisig: multisig,
			Creator:  owner,
		},
		&squads.CreateInstructionArgs{
			Threshold: multisigThreshold,
			CreateKey: squads.ToKey32(createKey),
			Members:   [][32]byte{squads.ToKey32(owner)},
			Meta:      meta,
		},
	)
	if err != nil {
		return nil, p.fail(newBuildError(err, "error building create instruction"))
	}
	p.advance(stageInstructionsBuilt)

	txn, err := s.assembler.Assemble(ctx, &Plan{
		Primary: []solana.Instruction{createIxn},
		Message: multisigMessage,
	})
	if err != nil {
		return nil, p.fail(err)
	}
	return p.done(txn), nil
}
