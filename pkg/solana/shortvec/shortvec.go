// Package shortvec implements the compact-u16 length prefix used throughout
// the transaction wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxEncodedSize is the number of bytes needed to encode math.MaxUint16.
const maxEncodedSize = 3

// EncodeLen writes length as a compact-u16. Lengths outside [0, math.MaxUint16]
// are rejected.
func EncodeLen(w io.Writer, length int) (int, error) {
	if length < 0 || length > math.MaxUint16 {
		return 0, errors.Errorf("len exceeds %d", math.MaxUint16)
	}

	buf := make([]byte, 0, maxEncodedSize)
	for {
		b := byte(length & 0x7f)
		length >>= 7
		if length == 0 {
			buf = append(buf, b)
			break
		}
		buf = append(buf, b|0x80)
	}

	return w.Write(buf)
}

// DecodeLen reads a compact-u16 length from r.
func DecodeLen(r io.Reader) (int, error) {
	var val int
	b := make([]byte, 1)

	for size := 1; ; size++ {
		if size > maxEncodedSize {
			return 0, errors.Errorf("invalid size: %d (max %d)", size, maxEncodedSize)
		}

		if _, err := io.ReadFull(r, b); err != nil {
			return 0, err
		}

		val |= int(b[0]&0x7f) << ((size - 1) * 7)
		if b[0]&0x80 == 0 {
			return val, nil
		}
	}
}
