package actions

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/code-payments/code-actions/pkg/solana"
	codec "github.com/code-payments/code-actions/pkg/solana/binary"
	"github.com/code-payments/code-actions/pkg/solana/kamino"
	"github.com/code-payments/code-actions/pkg/solana/token"
)

type StakeMethod string

const (
	StakeMethodStake    StakeMethod = "stake"
	StakeMethodUnstake  StakeMethod = "unstake"
	StakeMethodWithdraw StakeMethod = "withdraw"
)

// ParseStakeMethod defaults to staking when value is empty.
func ParseStakeMethod(value string) (StakeMethod, error) {
	switch method := StakeMethod(strings.ToLower(value)); method {
	case "":
		return StakeMethodStake, nil
	case StakeMethodStake, StakeMethodUnstake, StakeMethodWithdraw:
		return method, nil
	}
	return "", newInvalidInputError("method", "unsupported method %q", value)
}

func stakeMessage(method StakeMethod) string {
	return fmt.Sprintf("%s successfully completed", strings.ToUpper(string(method)))
}

type stakingAccounts struct {
	owner     ed25519.PublicKey
	userState ed25519.PublicKey
	userAta   ed25519.PublicKey
}

func deriveStakingAccounts(owner ed25519.PublicKey) (*stakingAccounts, error) {
	userState, _, err := kamino.GetUserStateAddress(kamino.KmnoFarmState, owner)
	if err != nil {
		return nil, newError(AddressDerivationFailure, err, "error deriving user state address")
	}

	userAta, err := token.GetAssociatedAccount(owner, kamino.KmnoMint)
	if err != nil {
		return nil, newError(AddressDerivationFailure, err, "error deriving kmno token account")
	}

	return &stakingAccounts{
		owner:     owner,
		userState: userState,
		userAta:   userAta,
	}, nil
}

// StakeAmount dispatches a staking request expressed in KMNO UI units.
func (s *Service) StakeAmount(ctx context.Context, owner ed25519.PublicKey, method StakeMethod, amount string) (*UnsignedTransaction, error) {
	switch method {
	case StakeMethodStake:
		baseUnits, err := ParseAmountUint64("amount", amount, kamino.KmnoDecimals)
		if err != nil {
			return nil, err
		}
		return s.Stake(ctx, owner, baseUnits)
	case StakeMethodUnstake, StakeMethodWithdraw:
		shares, err := ParseAmountUint128("amount", amount, kamino.StakeSharesDecimals)
		if err != nil {
			return nil, err
		}
		if method == StakeMethodWithdraw {
			return s.Withdraw(ctx, owner, shares)
		}
		return s.Unstake(ctx, owner, shares)
	}
	return nil, newInvalidInputError("method", "unsupported method %q", method)
}

// Stake deposits amount KMNO base units into the farm. The farm user state is
// initialized first when it does not exist yet.
func (s *Service) Stake(ctx context.Context, owner ed25519.PublicKey, amount uint64) (*UnsignedTransaction, error) {
	p := s.newPipeline("stake")

	accounts, err := deriveStakingAccounts(owner)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(stageAddressesDerived)

	state, err := s.probe.Probe(ctx, accounts.userState)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(stageStateProbed)

	plan := &Plan{
		FeePayer: owner,
		Message:  stakeMessage(StakeMethodStake),
	}

	if !state.Exists() {
		initIxn, err := kamino.NewInitializeUserInstruction(&kamino.InitializeUserInstructionAccounts{
			Authority: owner,
			Payer:     owner,
			Owner:     owner,
			Delegatee: owner,
			UserState: accounts.userState,
			FarmState: kamino.KmnoFarmState,
		})
		if err != nil {
			return nil, p.fail(newBuildError(err, "error building initialize user instruction"))
		}
		plan.Initialization = &initIxn
	}

	stakeIxn, err := kamino.NewStakeInstruction(
		&kamino.StakeInstructionAccounts{
			Owner:       owner,
			UserState:   accounts.userState,
			FarmState:   kamino.KmnoFarmState,
			FarmVault:   kamino.KmnoFarmVault,
			UserAta:     accounts.userAta,
			TokenMint:   kamino.KmnoMint,
			ScopePrices: kamino.KmnoScopePrices,
		},
		&kamino.StakeInstructionArgs{
			Amount: amount,
		},
	)
	if err != nil {
		return nil, p.fail(newBuildError(err, "error building stake instruction"))
	}
	plan.Primary = []solana.Instruction{stakeIxn}
	p.advance(stageInstructionsBuilt)

	txn, err := s.assembler.Assemble(ctx, plan)
	if err != nil {
		return nil, p.fail(err)
	}
	return p.done(txn), nil
}

// Unstake starts the cooldown of shares, scaled by kamino.StakeSharesScale.
func (s *Service) Unstake(ctx context.Context, owner ed25519.PublicKey, shares codec.Uint128) (*UnsignedTransaction, error) {
	p := s.newPipeline("unstake")

	accounts, err := deriveStakingAccounts(owner)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(stageAddressesDerived)

	unstakeIxn, err := newUnstakeInstruction(accounts, shares)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(stageInstructionsBuilt)

	txn, err := s.assembler.Assemble(ctx, &Plan{
		Primary:  []solana.Instruction{unstakeIxn},
		FeePayer: owner,
		Message:  stakeMessage(StakeMethodUnstake),
	})
	if err != nil {
		return nil, p.fail(err)
	}
	return p.done(txn), nil
}

// Withdraw unstakes shares and withdraws every deposit whose cooldown has
// elapsed in the same transaction.
func (s *Service) Withdraw(ctx context.Context, owner ed25519.PublicKey, shares codec.Uint128) (*UnsignedTransaction, error) {
	p := s.newPipeline("withdraw")

	accounts, err := deriveStakingAccounts(owner)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(stageAddressesDerived)

	unstakeIxn, err := newUnstakeInstruction(accounts, shares)
	if err != nil {
		return nil, p.fail(err)
	}

	withdrawIxn, err := kamino.NewWithdrawUnstakedDepositsInstruction(&kamino.WithdrawUnstakedDepositsInstructionAccounts{
		Owner:               owner,
		UserState:           accounts.userState,
		FarmState:           kamino.KmnoFarmState,
		UserAta:             accounts.userAta,
		FarmVault:           kamino.KmnoFarmVault,
		FarmVaultsAuthority: kamino.KmnoVaultAuthority,
	})
	if err != nil {
		return nil, p.fail(newBuildError(err, "error building withdraw instruction"))
	}
	p.advance(stageInstructionsBuilt)

	txn, err := s.assembler.Assemble(ctx, &Plan{
		Primary:  []solana.Instruction{unstakeIxn, withdrawIxn},
		FeePayer: owner,
		Message:  stakeMessage(StakeMethodWithdraw),
	})
	if err != nil {
		return nil, p.fail(err)
	}
	return p.done(txn), nil
}

func newUnstakeInstruction(accounts *stakingAccounts, shares codec.Uint128) (solana.Instruction, error) {
	ixn, err := kamino.NewUnstakeInstruction(
		&kamino.UnstakeInstructionAccounts{
			Owner:       accounts.owner,
			UserState:   accounts.userState,
			FarmState:   kamino.KmnoFarmState,
			ScopePrices: kamino.KmnoScopePrices,
		},
		&kamino.UnstakeInstructionArgs{
			StakeSharesScaled: shares,
		},
	)
	if err != nil {
		return solana.Instruction{}, newBuildError(err, "error building unstake instruction")
	}
	return ixn, nil
}
