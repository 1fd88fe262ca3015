package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")

	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrProgramAddressExhausted is returned when every bump seed produced an
	// address on the ed25519 curve.
	ErrProgramAddressExhausted = errors.New("program address bump seeds exhausted")
)

var (
	programHashCtor = sha256.New
)

// PublicKeyFromString decodes a base58 encoded 32 byte public key.
func PublicKeyFromString(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base58 encoding")
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid public key length: %d", len(decoded))
	}
	return decoded, nil
}

// MustPublicKeyFromString is PublicKeyFromString for package level constants.
func MustPublicKeyFromString(value string) ed25519.PublicKey {
	decoded, err := PublicKeyFromString(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

// CreateProgramAddress mirrors the implementation of the Solana SDK's CreateProgramAddress.
//
// ProgramAddresses are public keys that _do not_ lie on the ed25519 curve to ensure that
// there is no associated private key. In the event that the program and seed parameters
// result in a valid public key, ErrInvalidPublicKey is returned.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if len(seeds) > maxSeeds {
		return nil, ErrTooManySeeds
	}

	h := programHashCtor()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return nil, ErrMaxSeedLengthExceeded
		}

		if _, err := h.Write(s); err != nil {
			return nil, errors.Wrap(err, "failed to hash seed")
		}
	}

	for _, v := range [][]byte{program, []byte("ProgramDerivedAddress")} {
		if _, err := h.Write(v); err != nil {
			return nil, errors.Wrap(err, "failed to hash seed")
		}
	}

	hash := h.Sum(nil)
	var pub [32]byte
	copy(pub[:], hash)

	// Following the Solana SDK, we want to _reject_ the generated public key
	// if it's a valid compressed EdwardsPoint.
	//
	// The edwards25519.ExtendedGroupElement (the EdwardsPoint) is internal to
	// the golang.org/x/crypto library, so we rely on an open source alternative
	// that exposes point decompression.
	//
	// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
	var A edwards25519.ExtendedGroupElement
	if A.FromBytes(&pub) {
		return nil, ErrInvalidPublicKey
	}

	return pub[:], nil
}

// ProgramAddressSearch is the outcome of a bump seed search. Exactly one of
// the two states holds: Found with Address and Bump set, or exhausted.
type ProgramAddressSearch struct {
	Found   bool
	Address ed25519.PublicKey
	Bump    uint8
}

// Exhausted reports whether the search ran out of bump seeds.
func (s ProgramAddressSearch) Exhausted() bool {
	return !s.Found
}

// SearchProgramAddress tries bump seeds from fromBump down to 1, appending each
// as the final seed, and returns the first off-curve address. Searching again
// from Bump-1 resumes where a previous search stopped.
//
// Seed validation errors are returned as errors; running out of bumps is not
// an error but an exhausted result.
func SearchProgramAddress(program ed25519.PublicKey, fromBump uint8, seeds ...[]byte) (ProgramAddressSearch, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := int(fromBump); bump > 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}

		pub, err := CreateProgramAddress(program, withBump...)
		if err == nil {
			return ProgramAddressSearch{
				Found:   true,
				Address: pub,
				Bump:    byte(bump),
			}, nil
		}
		if err != ErrInvalidPublicKey {
			return ProgramAddressSearch{}, err
		}
	}

	return ProgramAddressSearch{}, nil
}

// FindProgramAddressAndBump mirrors the implementation of the Solana SDK's
// FindProgramAddress. It returns the address and bump seed.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	res, err := SearchProgramAddress(program, math.MaxUint8, seeds...)
	if err != nil {
		return nil, 0, err
	}
	if res.Exhausted() {
		return nil, 0, ErrProgramAddressExhausted
	}
	return res.Address, res.Bump, nil
}

// FindProgramAddress mirrors the implementation of the Solana SDK's FindProgramAddress.
// It only returns the address.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	pub, _, err := FindProgramAddressAndBump(program, seeds...)
	return pub, err
}
