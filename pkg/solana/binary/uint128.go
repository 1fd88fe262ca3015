package binary

import (
	"encoding/binary"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// Uint128 is an unsigned 128 bit integer laid out as two little endian words,
// low word first. The field order makes the borsh and compact layouts equal.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func NewUint128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// NewUint128FromBig converts v, failing with ErrEncodingFailure when v is
// negative or does not fit in 128 bits.
func NewUint128FromBig(v *big.Int) (Uint128, error) {
	if v == nil {
		return Uint128{}, errors.Wrap(ErrEncodingFailure, "nil u128 value")
	}
	if v.Sign() < 0 {
		return Uint128{}, errors.Wrapf(ErrEncodingFailure, "negative u128 value: %s", v)
	}
	if v.Cmp(maxUint128) > 0 {
		return Uint128{}, errors.Wrapf(ErrEncodingFailure, "u128 overflow: %s", v)
	}

	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(v, 64)
	return Uint128{Lo: lo.Uint64(), Hi: hi.Uint64()}, nil
}

func (u Uint128) Big() *big.Int {
	v := new(big.Int).SetUint64(u.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string {
	return u.Big().String()
}

func (u Uint128) MarshalCompact(enc *bin.Encoder) error {
	if err := enc.WriteUint64(u.Lo, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint64(u.Hi, binary.LittleEndian)
}

func (u *Uint128) UnmarshalCompact(dec *bin.Decoder) (err error) {
	if u.Lo, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return err
	}
	u.Hi, err = dec.ReadUint64(binary.LittleEndian)
	return err
}
