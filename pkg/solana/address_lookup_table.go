package solana

import (
	"bytes"
	"crypto/ed25519"
	"math"
	"sort"
)

// AddressLookupTable is the resolved state of an on-chain lookup table that a
// v0 message can reference accounts through.
type AddressLookupTable struct {
	PublicKey ed25519.PublicKey
	Addresses []ed25519.PublicKey
}

// IndexOf returns the position of address in the table. Only the first 256
// entries are addressable from a message.
func (t AddressLookupTable) IndexOf(address ed25519.PublicKey) (uint8, bool) {
	for i, candidate := range t.Addresses {
		if i > math.MaxUint8 {
			break
		}
		if bytes.Equal(candidate, address) {
			return uint8(i), true
		}
	}
	return 0, false
}

// sortAddressLookupTables returns a copy of tables ordered by table address,
// so compiled messages do not depend on the order tables were provided in.
func sortAddressLookupTables(tables []AddressLookupTable) []AddressLookupTable {
	sorted := make([]AddressLookupTable, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].PublicKey, sorted[j].PublicKey) < 0
	})
	return sorted
}
