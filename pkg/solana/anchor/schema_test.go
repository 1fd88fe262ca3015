package anchor

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codec "github.com/code-payments/code-actions/pkg/solana/binary"
	"github.com/code-payments/code-actions/pkg/testutil"
)

type amountArgs struct {
	Amount uint64
}

func (a amountArgs) MarshalCompact(enc *bin.Encoder) error {
	return enc.WriteUint64(a.Amount, binary.LittleEndian)
}

var testSchema = NewSchema(
	"stake",
	ReadonlySigner("owner"),
	Writable("state"),
	WritableSigner("payer"),
	Readonly("mint"),
)

func TestSchema_Build(t *testing.T) {
	program := testutil.NewRandomAccount(t)
	owner := testutil.NewRandomAccount(t)
	state := testutil.NewRandomAccount(t)
	payer := testutil.NewRandomAccount(t)
	mint := testutil.NewRandomAccount(t)

	ixn, err := testSchema.BuildCompact(program, Accounts{
		"mint":  mint,
		"payer": payer,
		"state": state,
		"owner": owner,
	}, amountArgs{Amount: 5})
	require.NoError(t, err)

	assert.Equal(t, program, ixn.Program)

	disc := GlobalDiscriminator("stake")
	assert.Equal(t, append(disc[:], 5, 0, 0, 0, 0, 0, 0, 0), ixn.Data)

	require.Len(t, ixn.Accounts, 4)
	for i, expected := range []struct {
		key      ed25519.PublicKey
		writable bool
		signer   bool
	}{
		{owner, false, true},
		{state, true, false},
		{payer, true, true},
		{mint, false, false},
	} {
		assert.Equal(t, expected.key, ixn.Accounts[i].PublicKey)
		assert.Equal(t, expected.writable, ixn.Accounts[i].IsWritable)
		assert.Equal(t, expected.signer, ixn.Accounts[i].IsSigner)
	}
}

func TestSchema_BuildWithoutArgs(t *testing.T) {
	schema := NewSchema("withdraw_unstaked_deposits", Writable("state"))
	state := testutil.NewRandomAccount(t)

	ixn, err := schema.BuildCompact(testutil.NewRandomAccount(t), Accounts{"state": state}, nil)
	require.NoError(t, err)

	disc := schema.Discriminator()
	assert.Equal(t, disc[:], ixn.Data)
}

func TestSchema_BuildBorsh(t *testing.T) {
	schema := NewSchema("create", WritableSigner("creator"))

	args := struct {
		Threshold uint16
		Meta      string
	}{1, "x"}

	ixn, err := schema.BuildBorsh(testutil.NewRandomAccount(t), Accounts{"creator": testutil.NewRandomAccount(t)}, args)
	require.NoError(t, err)

	expected := []byte{24, 30, 200, 40, 5, 28, 7, 119, 1, 0, 1, 0, 0, 0, 'x'}
	assert.Equal(t, expected, ixn.Data)
}

func TestSchema_MissingAccount(t *testing.T) {
	accounts := Accounts{
		"owner": testutil.NewRandomAccount(t),
		"state": testutil.NewRandomAccount(t),
		"payer": testutil.NewRandomAccount(t),
	}

	_, err := testSchema.Build(testutil.NewRandomAccount(t), accounts, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAccount))
	assert.Contains(t, err.Error(), "mint")

	accounts["mint"] = ed25519.PublicKey{1, 2, 3}
	_, err = testSchema.Build(testutil.NewRandomAccount(t), accounts, nil)
	assert.True(t, errors.Is(err, ErrMissingAccount))

	accounts["mint"] = testutil.NewRandomAccount(t)
	_, err = testSchema.Build(nil, accounts, nil)
	assert.True(t, errors.Is(err, ErrMissingAccount))
}

func TestSchema_EncodingFailure(t *testing.T) {
	schema := NewSchema("create", WritableSigner("creator"))

	_, err := schema.BuildCompact(testutil.NewRandomAccount(t), Accounts{"creator": testutil.NewRandomAccount(t)}, failingArgs{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrEncodingFailure))
}

func TestNewSchema_Misdeclared(t *testing.T) {
	assert.Panics(t, func() { NewSchema("") })
	assert.Panics(t, func() { NewSchema("stake", Readonly("")) })
	assert.Panics(t, func() { NewSchema("stake", Readonly("owner"), Writable("owner")) })
}

type failingArgs struct{}

func (failingArgs) MarshalCompact(*bin.Encoder) error {
	return errors.New("unsupported")
}
