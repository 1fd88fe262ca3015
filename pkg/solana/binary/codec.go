package binary

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/near/borsh-go"
	"github.com/pkg/errors"
)

// ErrEncodingFailure is the cause of every codec error. Callers test for it
// with errors.Is.
var ErrEncodingFailure = errors.New("encoding failure")

// CompactMarshaler is implemented by records with a fixed-width compact
// (bincode compatible) layout.
type CompactMarshaler interface {
	MarshalCompact(enc *bin.Encoder) error
}

// CompactUnmarshaler is the decoding counterpart of CompactMarshaler.
type CompactUnmarshaler interface {
	UnmarshalCompact(dec *bin.Decoder) error
}

// MarshalBorsh encodes v with the borsh layout: fields in declared order,
// little endian integers, u32 length prefixes on strings and slices and no
// prefix on fixed size arrays.
func MarshalBorsh(v interface{}) (data []byte, err error) {
	defer recoverEncodingFailure("borsh encode", &err)

	data, err = borsh.Serialize(v)
	if err != nil {
		return nil, errors.Wrapf(ErrEncodingFailure, "borsh encode: %v", err)
	}
	return data, nil
}

// UnmarshalBorsh decodes data into the value pointed to by v.
func UnmarshalBorsh(data []byte, v interface{}) (err error) {
	defer recoverEncodingFailure("borsh decode", &err)

	if err := borsh.Deserialize(v, data); err != nil {
		return errors.Wrapf(ErrEncodingFailure, "borsh decode: %v", err)
	}
	return nil
}

// MarshalCompact encodes v with its compact layout.
func MarshalCompact(v CompactMarshaler) (data []byte, err error) {
	defer recoverEncodingFailure("compact encode", &err)

	var buf bytes.Buffer
	if err := v.MarshalCompact(bin.NewBinEncoder(&buf)); err != nil {
		return nil, errors.Wrapf(ErrEncodingFailure, "compact encode: %v", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalCompact decodes data into v. Trailing bytes are an error.
func UnmarshalCompact(data []byte, v CompactUnmarshaler) (err error) {
	defer recoverEncodingFailure("compact decode", &err)

	dec := bin.NewBinDecoder(data)
	if err := v.UnmarshalCompact(dec); err != nil {
		return errors.Wrapf(ErrEncodingFailure, "compact decode: %v", err)
	}
	if dec.Remaining() > 0 {
		return errors.Wrapf(ErrEncodingFailure, "compact decode: %d trailing bytes", dec.Remaining())
	}
	return nil
}

func recoverEncodingFailure(op string, err *error) {
	if r := recover(); r != nil {
		*err = errors.Wrapf(ErrEncodingFailure, "%s: %s", op, fmt.Sprint(r))
	}
}
