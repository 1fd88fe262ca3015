package compute_budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/testutil"
)

func TestComputeUnitLimit(t *testing.T) {
	ixn := SetComputeUnitLimit(1_400_000)
	assert.EqualValues(t, ProgramKey[:], ixn.Program)
	assert.Empty(t, ixn.Accounts)

	limit, err := ParseSetComputeUnitLimitIxnData(ixn.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 1_400_000, limit)

	_, err = ParseSetComputeUnitPriceIxnData(ixn.Data)
	assert.Error(t, err)

	_, err = ParseSetComputeUnitLimitIxnData([]byte{commandSetComputeUnitPrice, 0, 0, 0, 0})
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestComputeUnitPrice(t *testing.T) {
	ixn := SetComputeUnitPrice(12345)

	price, err := ParseSetComputeUnitPriceIxnData(ixn.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 12345, price)

	_, err = ParseSetComputeUnitLimitIxnData(ixn.Data)
	assert.Error(t, err)
}

func TestParseSettings(t *testing.T) {
	settings := ParseSettings(nil)
	assert.Nil(t, settings.UnitLimit)
	assert.Nil(t, settings.UnitPrice)

	other := solana.NewInstruction(testutil.NewRandomAccount(t), []byte{commandSetComputeUnitLimit, 1, 0, 0, 0})

	settings = ParseSettings([]solana.Instruction{
		other,
		SetComputeUnitLimit(200_000),
		SetComputeUnitPrice(50),
	})
	require.NotNil(t, settings.UnitLimit)
	require.NotNil(t, settings.UnitPrice)
	assert.EqualValues(t, 200_000, *settings.UnitLimit)
	assert.EqualValues(t, 50, *settings.UnitPrice)
}
