package actions

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codec "github.com/code-payments/code-actions/pkg/solana/binary"
)

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		value    string
		decimals int32
		expected string
	}{
		{"0", 6, "0"},
		{"1", 6, "1000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		{"12.340000", 6, "12340000"},
		{"100", 0, "100"},
		{"1", 24, "1000000000000000000000000"},
	} {
		actual, err := ParseAmount("amount", tc.value, tc.decimals)
		require.NoError(t, err, tc.value)
		assert.Equal(t, tc.expected, actual.String(), tc.value)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, value := range []string{"", "abc", "-1", "0.0000001", "1e-7", "1,5", "1e-2000000000", "5e-1000000000000"} {
		_, err := ParseAmount("amount", value, 6)
		assert.Equal(t, InvalidInput, KindOf(err), value)
		assert.Equal(t, "amount", FieldOf(err), value)
	}
}

func TestParseAmount_TooWide(t *testing.T) {
	for _, value := range []string{"1e100000000", "1e2000000000", "1e34", "1" + strings.Repeat("0", 40)} {
		start := time.Now()

		_, err := ParseAmount("amount", value, 6)
		assert.Equal(t, EncodingFailure, KindOf(err), value)
		assert.Equal(t, "amount", FieldOf(err), value)
		assert.Less(t, time.Since(start), time.Second, value)

		_, err = ParseAmountUint64("amount", value, 6)
		assert.Equal(t, EncodingFailure, KindOf(err), value)

		_, err = ParseAmountUint128("amount", value, 6)
		assert.Equal(t, EncodingFailure, KindOf(err), value)
	}

	// Exponent notation within range is still accepted
	actual, err := ParseAmount("amount", "1e3", 6)
	require.NoError(t, err)
	assert.Equal(t, "1000000000", actual.String())
}

func TestParseAmountUint64(t *testing.T) {
	actual, err := ParseAmountUint64("amount", "2.5", 6)
	require.NoError(t, err)
	assert.EqualValues(t, 2_500_000, actual)

	_, err = ParseAmountUint64("amount", "18446744073709551616", 0)
	assert.Equal(t, EncodingFailure, KindOf(err))
}

func TestParseAmountUint128(t *testing.T) {
	actual, err := ParseAmountUint128("amount", "1.5", 24)
	require.NoError(t, err)

	expected, _ := new(big.Int).SetString("1500000000000000000000000", 10)
	assert.Equal(t, 0, expected.Cmp(actual.Big()))

	// 2^128
	_, err = ParseAmountUint128("amount", "340282366920938463463374607431768211456", 0)
	assert.Equal(t, EncodingFailure, KindOf(err))

	maxValue, err := ParseAmountUint128("amount", "340282366920938463463374607431768211455", 0)
	require.NoError(t, err)
	assert.Equal(t, codec.Uint128{Lo: ^uint64(0), Hi: ^uint64(0)}, maxValue)
}

func TestParseAccount(t *testing.T) {
	account, err := ParseAccount("account", "11111111111111111111111111111111")
	require.NoError(t, err)
	assert.Len(t, account, 32)

	for _, value := range []string{"", "abc", "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl"} {
		_, err := ParseAccount("receiver", value)
		assert.Equal(t, InvalidInput, KindOf(err), value)
		assert.Equal(t, "receiver", FieldOf(err), value)
	}
}
