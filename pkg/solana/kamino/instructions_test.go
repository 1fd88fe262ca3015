package kamino

import (
	"crypto/ed25519"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/anchor"
	codec "github.com/code-payments/code-actions/pkg/solana/binary"
	"github.com/code-payments/code-actions/pkg/solana/system"
	"github.com/code-payments/code-actions/pkg/solana/token"
	"github.com/code-payments/code-actions/pkg/testutil"
)

type expectedMeta struct {
	key      ed25519.PublicKey
	writable bool
	signer   bool
}

func assertAccounts(t *testing.T, ixn solana.Instruction, expected []expectedMeta) {
	require.Len(t, ixn.Accounts, len(expected))
	for i, meta := range expected {
		assert.Equal(t, meta.key, ixn.Accounts[i].PublicKey, "account %d", i)
		assert.Equal(t, meta.writable, ixn.Accounts[i].IsWritable, "account %d writable", i)
		assert.Equal(t, meta.signer, ixn.Accounts[i].IsSigner, "account %d signer", i)
	}
}

func TestGetUserStateAddress(t *testing.T) {
	owner := testutil.NewRandomAccount(t)

	address, bump, err := GetUserStateAddress(KmnoFarmState, owner)
	require.NoError(t, err)

	again, againBump, err := GetUserStateAddress(KmnoFarmState, owner)
	require.NoError(t, err)
	assert.Equal(t, address, again)
	assert.Equal(t, bump, againBump)

	expected, err := solana.CreateProgramAddress(ProgramKey, []byte("user"), KmnoFarmState, owner, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, address)

	other, _, err := GetUserStateAddress(KmnoFarmState, testutil.NewRandomAccount(t))
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestInitializeUserInstruction(t *testing.T) {
	owner := testutil.NewRandomAccount(t)
	userState := testutil.NewRandomAccount(t)

	ixn, err := NewInitializeUserInstruction(&InitializeUserInstructionAccounts{
		Authority: owner,
		Payer:     owner,
		Owner:     owner,
		Delegatee: owner,
		UserState: userState,
		FarmState: KmnoFarmState,
	})
	require.NoError(t, err)

	assert.Equal(t, ProgramKey, ixn.Program)
	assert.Equal(t, []byte{111, 17, 185, 250, 60, 122, 38, 254}, ixn.Data)
	assertAccounts(t, ixn, []expectedMeta{
		{owner, true, true},
		{owner, true, true},
		{owner, false, false},
		{owner, false, false},
		{userState, true, false},
		{KmnoFarmState, true, false},
		{system.ProgramPublicKey(), false, false},
		{system.RentSysVar, false, false},
	})
}

func TestStakeInstruction(t *testing.T) {
	owner := testutil.NewRandomAccount(t)
	userState := testutil.NewRandomAccount(t)
	userAta := testutil.NewRandomAccount(t)

	accounts := &StakeInstructionAccounts{
		Owner:       owner,
		UserState:   userState,
		FarmState:   KmnoFarmState,
		FarmVault:   KmnoFarmVault,
		UserAta:     userAta,
		TokenMint:   KmnoMint,
		ScopePrices: KmnoScopePrices,
	}

	ixn, err := NewStakeInstruction(accounts, &StakeInstructionArgs{Amount: 1_500_000})
	require.NoError(t, err)

	assert.Equal(t, []byte{
		206, 176, 202, 18, 200, 209, 179, 108,
		0x60, 0xe3, 0x16, 0, 0, 0, 0, 0,
	}, ixn.Data)
	assertAccounts(t, ixn, []expectedMeta{
		{owner, false, true},
		{userState, true, false},
		{KmnoFarmState, true, false},
		{KmnoFarmVault, true, false},
		{userAta, true, false},
		{KmnoMint, false, false},
		{ProgramKey, false, false},
		{token.ProgramKey, false, false},
	})

	var decoded StakeInstructionArgs
	require.NoError(t, codec.UnmarshalCompact(ixn.Data[anchor.DiscriminatorSize:], &decoded))
	assert.EqualValues(t, 1_500_000, decoded.Amount)

	ixn, err = NewStakeInstruction(accounts, &StakeInstructionArgs{})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), ixn.Data[anchor.DiscriminatorSize:])
}

func TestUnstakeInstruction(t *testing.T) {
	owner := testutil.NewRandomAccount(t)
	userState := testutil.NewRandomAccount(t)

	// 1 KMNO worth of shares
	shares, err := codec.NewUint128FromBig(StakeSharesScale)
	require.NoError(t, err)

	ixn, err := NewUnstakeInstruction(&UnstakeInstructionAccounts{
		Owner:       owner,
		UserState:   userState,
		FarmState:   KmnoFarmState,
		ScopePrices: KmnoScopePrices,
	}, &UnstakeInstructionArgs{StakeSharesScaled: shares})
	require.NoError(t, err)

	require.Len(t, ixn.Data, anchor.DiscriminatorSize+16)
	assert.Equal(t, []byte{90, 95, 107, 42, 205, 124, 50, 225}, ixn.Data[:anchor.DiscriminatorSize])

	var decoded UnstakeInstructionArgs
	require.NoError(t, codec.UnmarshalCompact(ixn.Data[anchor.DiscriminatorSize:], &decoded))
	assert.Equal(t, 0, decoded.StakeSharesScaled.Big().Cmp(new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil)))

	assertAccounts(t, ixn, []expectedMeta{
		{owner, true, true},
		{userState, true, false},
		{KmnoFarmState, true, false},
		{ProgramKey, false, false},
	})
}

func TestWithdrawUnstakedDepositsInstruction(t *testing.T) {
	owner := testutil.NewRandomAccount(t)
	userState := testutil.NewRandomAccount(t)
	userAta := testutil.NewRandomAccount(t)

	ixn, err := NewWithdrawUnstakedDepositsInstruction(&WithdrawUnstakedDepositsInstructionAccounts{
		Owner:               owner,
		UserState:           userState,
		FarmState:           KmnoFarmState,
		UserAta:             userAta,
		FarmVault:           KmnoFarmVault,
		FarmVaultsAuthority: KmnoVaultAuthority,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{36, 102, 187, 49, 220, 36, 132, 67}, ixn.Data)
	assertAccounts(t, ixn, []expectedMeta{
		{owner, true, true},
		{userState, true, false},
		{KmnoFarmState, true, false},
		{userAta, true, false},
		{KmnoFarmVault, true, false},
		{KmnoVaultAuthority, false, false},
		{token.ProgramKey, false, false},
	})
}

func TestInstructions_MissingAccount(t *testing.T) {
	_, err := NewUnstakeInstruction(&UnstakeInstructionAccounts{
		Owner:       testutil.NewRandomAccount(t),
		FarmState:   KmnoFarmState,
		ScopePrices: KmnoScopePrices,
	}, &UnstakeInstructionArgs{})
	assert.ErrorIs(t, err, anchor.ErrMissingAccount)
}
