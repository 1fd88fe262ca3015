package actions

import (
	"crypto/ed25519"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/code-payments/code-actions/pkg/solana"
	codec "github.com/code-payments/code-actions/pkg/solana/binary"
)

// maxAmountDigits is the number of decimal digits in the largest u128.
const maxAmountDigits = 39

// ParseAccount decodes a base58 account address supplied by a caller.
func ParseAccount(field, value string) (ed25519.PublicKey, error) {
	account, err := solana.PublicKeyFromString(value)
	if err != nil {
		return nil, newInvalidInputError(field, "%q is not a valid account: %v", value, err)
	}
	return account, nil
}

// ParseAmount converts a decimal UI amount to integer base units given the
// number of decimals of the unit. Amounts finer than one base unit and
// negative amounts are rejected. Amounts wider than any supported argument
// are an EncodingFailure.
func ParseAmount(field, value string, decimals int32) (*big.Int, error) {
	if len(value) == 0 {
		return nil, newInvalidInputError(field, "amount is required")
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, newInvalidInputError(field, "%q is not a decimal amount", value)
	}
	if parsed.IsNegative() {
		return nil, newInvalidInputError(field, "amount cannot be negative")
	}

	if parsed.IsZero() {
		return new(big.Int), nil
	}

	// Bound the magnitude before any big integer is built. The exponent alone
	// can make materialising the value arbitrarily expensive.
	exponent := int64(parsed.Exponent()) + int64(decimals)
	integerDigits := int64(parsed.NumDigits()) + exponent
	if integerDigits > maxAmountDigits {
		return nil, &Error{
			Kind:  EncodingFailure,
			Field: field,
			Err:   codec.ErrEncodingFailure,
		}
	}
	if integerDigits <= 0 {
		return nil, newInvalidInputError(field, "amount has more than %d decimal places", decimals)
	}

	shifted := parsed.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, newInvalidInputError(field, "amount has more than %d decimal places", decimals)
	}
	return shifted.BigInt(), nil
}

// ParseAmountUint64 is ParseAmount for u64 encoded arguments.
func ParseAmountUint64(field, value string, decimals int32) (uint64, error) {
	amount, err := ParseAmount(field, value, decimals)
	if err != nil {
		return 0, err
	}
	if !amount.IsUint64() {
		return 0, &Error{
			Kind:  EncodingFailure,
			Field: field,
			Err:   codec.ErrEncodingFailure,
		}
	}
	return amount.Uint64(), nil
}

// ParseAmountUint128 is ParseAmount for u128 encoded arguments.
func ParseAmountUint128(field, value string, decimals int32) (codec.Uint128, error) {
	amount, err := ParseAmount(field, value, decimals)
	if err != nil {
		return codec.Uint128{}, err
	}
	res, err := codec.NewUint128FromBig(amount)
	if err != nil {
		return codec.Uint128{}, &Error{
			Kind:  EncodingFailure,
			Field: field,
			Err:   err,
		}
	}
	return res, nil
}
