package kamino

import (
	"crypto/ed25519"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/anchor"
	codec "github.com/code-payments/code-actions/pkg/solana/binary"
	"github.com/code-payments/code-actions/pkg/solana/system"
	"github.com/code-payments/code-actions/pkg/solana/token"
)

var (
	initializeUserSchema = anchor.NewSchema(
		"initialize_user",
		anchor.WritableSigner("authority"),
		anchor.WritableSigner("payer"),
		anchor.Readonly("owner"),
		anchor.Readonly("delegatee"),
		anchor.Writable("userState"),
		anchor.Writable("farmState"),
		anchor.Readonly("systemProgram"),
		anchor.Readonly("rent"),
	)

	stakeSchema = anchor.NewSchema(
		"stake",
		anchor.ReadonlySigner("owner"),
		anchor.Writable("userState"),
		anchor.Writable("farmState"),
		anchor.Writable("farmVault"),
		anchor.Writable("userAta"),
		anchor.Readonly("tokenMint"),
		anchor.Readonly("scopePrices"),
		anchor.Readonly("tokenProgram"),
	)

	unstakeSchema = anchor.NewSchema(
		"unstake",
		anchor.WritableSigner("owner"),
		anchor.Writable("userState"),
		anchor.Writable("farmState"),
		anchor.Readonly("scopePrices"),
	)

	withdrawUnstakedDepositsSchema = anchor.NewSchema(
		"withdraw_unstaked_deposits",
		anchor.WritableSigner("owner"),
		anchor.Writable("userState"),
		anchor.Writable("farmState"),
		anchor.Writable("userAta"),
		anchor.Writable("farmVault"),
		anchor.Readonly("farmVaultsAuthority"),
		anchor.Readonly("tokenProgram"),
	)
)

type InitializeUserInstructionAccounts struct {
	Authority ed25519.PublicKey
	Payer     ed25519.PublicKey
	Owner     ed25519.PublicKey
	Delegatee ed25519.PublicKey
	UserState ed25519.PublicKey
	FarmState ed25519.PublicKey
}

func NewInitializeUserInstruction(accounts *InitializeUserInstructionAccounts) (solana.Instruction, error) {
	return initializeUserSchema.Build(ProgramKey, anchor.Accounts{
		"authority":     accounts.Authority,
		"payer":         accounts.Payer,
		"owner":         accounts.Owner,
		"delegatee":     accounts.Delegatee,
		"userState":     accounts.UserState,
		"farmState":     accounts.FarmState,
		"systemProgram": system.ProgramPublicKey(),
		"rent":          system.RentSysVar,
	}, nil)
}

type StakeInstructionArgs struct {
	Amount uint64
}

func (a StakeInstructionArgs) MarshalCompact(enc *bin.Encoder) error {
	return enc.WriteUint64(a.Amount, binary.LittleEndian)
}

func (a *StakeInstructionArgs) UnmarshalCompact(dec *bin.Decoder) (err error) {
	a.Amount, err = dec.ReadUint64(binary.LittleEndian)
	return err
}

type StakeInstructionAccounts struct {
	Owner       ed25519.PublicKey
	UserState   ed25519.PublicKey
	FarmState   ed25519.PublicKey
	FarmVault   ed25519.PublicKey
	UserAta     ed25519.PublicKey
	TokenMint   ed25519.PublicKey
	ScopePrices ed25519.PublicKey
}

func NewStakeInstruction(accounts *StakeInstructionAccounts, args *StakeInstructionArgs) (solana.Instruction, error) {
	return stakeSchema.BuildCompact(ProgramKey, anchor.Accounts{
		"owner":        accounts.Owner,
		"userState":    accounts.UserState,
		"farmState":    accounts.FarmState,
		"farmVault":    accounts.FarmVault,
		"userAta":      accounts.UserAta,
		"tokenMint":    accounts.TokenMint,
		"scopePrices":  accounts.ScopePrices,
		"tokenProgram": token.ProgramKey,
	}, args)
}

type UnstakeInstructionArgs struct {
	StakeSharesScaled codec.Uint128
}

func (a UnstakeInstructionArgs) MarshalCompact(enc *bin.Encoder) error {
	return a.StakeSharesScaled.MarshalCompact(enc)
}

func (a *UnstakeInstructionArgs) UnmarshalCompact(dec *bin.Decoder) error {
	return a.StakeSharesScaled.UnmarshalCompact(dec)
}

type UnstakeInstructionAccounts struct {
	Owner       ed25519.PublicKey
	UserState   ed25519.PublicKey
	FarmState   ed25519.PublicKey
	ScopePrices ed25519.PublicKey
}

func NewUnstakeInstruction(accounts *UnstakeInstructionAccounts, args *UnstakeInstructionArgs) (solana.Instruction, error) {
	return unstakeSchema.BuildCompact(ProgramKey, anchor.Accounts{
		"owner":       accounts.Owner,
		"userState":   accounts.UserState,
		"farmState":   accounts.FarmState,
		"scopePrices": accounts.ScopePrices,
	}, args)
}

type WithdrawUnstakedDepositsInstructionAccounts struct {
	Owner               ed25519.PublicKey
	UserState           ed25519.PublicKey
	FarmState           ed25519.PublicKey
	UserAta             ed25519.PublicKey
	FarmVault           ed25519.PublicKey
	FarmVaultsAuthority ed25519.PublicKey
}

func NewWithdrawUnstakedDepositsInstruction(accounts *WithdrawUnstakedDepositsInstructionAccounts) (solana.Instruction, error) {
	return withdrawUnstakedDepositsSchema.BuildCompact(ProgramKey, anchor.Accounts{
		"owner":               accounts.Owner,
		"userState":           accounts.UserState,
		"farmState":           accounts.FarmState,
		"userAta":             accounts.UserAta,
		"farmVault":           accounts.FarmVault,
		"farmVaultsAuthority": accounts.FarmVaultsAuthority,
		"tokenProgram":        token.ProgramKey,
	}, nil)
}
