package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Taken from: https://github.com/solana-labs/solana/blob/14339dec0a960e8161d1165b6a8e5cfb73e78f23/sdk/src/transaction.rs#L523
const rustGenerated = "AUc7Cbu+gZalFSGeSFdukHhP7oSGaSdmdNEd5ZokaSysdoMWfIOzjrAbdaBZZuDMAfyNAogAJdrhgVya+jthsgoBAAEDnON0wdcmjhYIDuXvd10F2qEjAyEAJGSe/CGhYbk+WWMBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="

// The above example does not have the correct public key encoded in the keypair.
// This is the above example with the correctly generated keypair.
const rustGeneratedAdjusted = "ATMfBMZ8phHEheLph8K9TJhRKhnE4qNZvWiXdUdJRmlTCRsQjWmW2CkQJeRHBCcsqFm2gynjL40M9mTe0Dxp4QIBAAEDfEya6wnC7f3Cv53qnOEywwIJ928rIdqAlfXYI1adXroBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="

func TestLegacyTransaction_CrossImpl(t *testing.T) {
	keypair := ed25519.PrivateKey{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32, 255, 101, 36, 24, 124, 23,
		167, 21, 132, 204, 155, 5, 185, 58, 121, 75, 156, 227, 116, 193, 215, 38, 142, 22, 8,
		14, 229, 239, 119, 93, 5, 218, 161, 35, 3, 33, 0, 36, 100, 158, 252, 33, 161, 97, 185,
		62, 89, 99}
	programID := ed25519.PublicKey{2, 2, 2, 4, 5, 6, 7, 8, 9, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 8, 7, 6, 5, 4,
		2, 2, 2}
	to := ed25519.PublicKey{1, 1, 1, 4, 5, 6, 7, 8, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 8, 7, 6, 5, 4, 1, 1, 1}

	ixn := NewInstruction(
		programID,
		[]byte{1, 2, 3},
		NewAccountMeta(keypair.Public().(ed25519.PublicKey), true),
		NewAccountMeta(to, false),
	)

	generated, err := base64.StdEncoding.DecodeString(rustGenerated)
	require.NoError(t, err)

	// One shortvec encoded signature count followed by a single signature
	generatedMessage := generated[1+ed25519.SignatureSize:]

	withPayer := NewTransaction(keypair.Public().(ed25519.PublicKey), ixn)
	assert.Equal(t, generatedMessage, withPayer.Message.Marshal())

	// The only signer is implied as the fee payer
	unsigned := NewUnsignedTransaction(ixn)
	assert.Equal(t, generatedMessage, unsigned.Message.Marshal())

	require.Len(t, unsigned.Signatures, 1)
	assert.Equal(t, Signature{}, unsigned.Signatures[0])
}

func TestLegacyTransaction_EmptyAccount(t *testing.T) {
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	tx := NewTransaction(
		pub,
		NewInstruction(
			program,
			[]byte{1, 2, 3},
			NewAccountMeta(nil, false),
		),
	)

	var rtt Transaction
	require.NoError(t, rtt.Unmarshal(tx.Marshal()))
	assert.Equal(t, tx.Marshal(), rtt.Marshal())
}

func TestLegacyTransaction_MarshalRoundTrip(t *testing.T) {
	expected := "AaZAGNONKTsNypCfvwHGipcWmAX/J03VfLQEHgMDSuHz0ktydqlLb7I4tZnX0Yw8KMTbma28M+yiZPaRolOJGgwBAAgQCR2hNbdxjAiYwC9CSEo2Vso3yq8OXlgoCbepyseaRXoIFE8MTz2ZtOsdNl55fj/zi0S+ArjIP4zJ3Y+MC4tKyQu7s1JPy6Hur6YbU0nF+1XBJYwii/dKtLsNFU/pTo19J7jOgutpJBZbNIhC5ppqC/OYlbzW1KqamkV3p+cslAoyBJxvWrSMXX+X0Ih0+sEzarslIYSV0T/NuLFcjpX8S7ajCdht+3+POhvGcGFzDyc4kIgjN/SAdypJM1Grs+eEtzXhQGM4VMy0p0J2CiOH+k2kwfya5F7fSaYXWOi3CJUGp9UXGSxWjuCKhF9z0peIzwNcMUWyGrNE2AYuqUAAAAan1RcZLFxRIYzJTD1K8X9Y2u4Im6H9ROPb2YoAAAAABt324ddloZPZy+FGzut5rBy0he1fWzeROoz1hX7/AKlDDB9w5G7eh4xhLJIgxblM0E4dxW+ZTABRcCVBt2LcH8b6evO+2606PWXzaqvJdDGxu+TC0vbg5HymAgNFL11hDcYoaKd+VYB6HNWIyaKadms+4q7NwH3gjP6RB91LMWUAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAMGRm/lIRcy/+ytunLDm+e8jOW7xfcSayxDmzpAAAAAjJclj04kifG7PRApFI4NgwtaE5na/xCEBI572Nvp+FmMVCZzhQC2pwD9u6aAm8haUDNRSZG/a7c1U/ltYtc+KAUNAwIHAAQEAAAADgAJA+gDAAAAAAAADgAFAkjoAQAPBwADCgsNCQgBAQwLAAUBBAwMBgwMAwlcCAoCAAAAmhMJCgIAAAAAAUgAAABlmEW1THFmZqyjBehuSli5bMSJBNiQMkZcr19LINSM4KF/whE1IayV174tmVwC9MMlQSmG3j6aJVhIDGMUITUNXRMTAAAAAAA="
	decoded, err := base64.StdEncoding.DecodeString(expected)
	require.NoError(t, err)
	var txn Transaction
	require.NoError(t, txn.Unmarshal(decoded))
	assert.Equal(t, decoded, txn.Marshal())
}

func TestLegacyTransaction_SingleInstruction(t *testing.T) {
	keys := generateKeys(t, 2)
	payer := keys[0]
	program := keys[1]

	keys = generateKeys(t, 4)
	data := []byte{1, 2, 3}

	tx := NewTransaction(
		payer,
		NewInstruction(
			program,
			data,
			NewReadonlyAccountMeta(keys[0], true),
			NewReadonlyAccountMeta(keys[1], false),
			NewAccountMeta(keys[2], false),
			NewAccountMeta(keys[3], true),
		),
	)

	require.Len(t, tx.Signatures, 3)
	require.Len(t, tx.Message.Accounts, 6)
	assert.EqualValues(t, 3, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, tx.Message.Header.NumReadOnly)

	assert.Equal(t, MessageVersionLegacy, tx.Message.Version())

	assert.Equal(t, payer, tx.Message.Accounts[0])
	assert.Equal(t, keys[3], tx.Message.Accounts[1])
	assert.Equal(t, keys[0], tx.Message.Accounts[2])
	assert.Equal(t, keys[2], tx.Message.Accounts[3])
	assert.Equal(t, keys[1], tx.Message.Accounts[4])
	assert.Equal(t, program, tx.Message.Accounts[5])

	assert.Equal(t, byte(5), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, data, tx.Message.Instructions[0].Data)
	assert.Equal(t, []byte{2, 4, 3, 1}, tx.Message.Instructions[0].Accounts)
}

func TestLegacyTransaction_UnsignedPreservesInstructionOrder(t *testing.T) {
	keys := generateKeys(t, 4)
	owner := keys[0]
	program := keys[1]
	program2 := keys[2]
	state := keys[3]

	tx := NewUnsignedTransaction(
		NewInstruction(program2, []byte{2}, NewAccountMeta(owner, true), NewAccountMeta(state, false)),
		NewInstruction(program, []byte{1}, NewReadonlyAccountMeta(owner, true), NewAccountMeta(state, false)),
		NewInstruction(program2, []byte{3}, NewReadonlyAccountMeta(state, false)),
	)

	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, Signature{}, tx.Signatures[0])
	assert.EqualValues(t, 1, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 0, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, tx.Message.Header.NumReadOnly)

	// Permissions are promoted, so the owner is the writable fee payer
	assert.Equal(t, owner, tx.Message.Accounts[0])
	assert.Equal(t, state, tx.Message.Accounts[1])

	require.Len(t, tx.Message.Instructions, 3)
	assert.Equal(t, []byte{2}, tx.Message.Instructions[0].Data)
	assert.Equal(t, []byte{1}, tx.Message.Instructions[1].Data)
	assert.Equal(t, []byte{3}, tx.Message.Instructions[2].Data)
	assert.Equal(t, tx.Message.Instructions[0].ProgramIndex, tx.Message.Instructions[2].ProgramIndex)
	assert.NotEqual(t, tx.Message.Instructions[0].ProgramIndex, tx.Message.Instructions[1].ProgramIndex)
}

func TestLegacyTransaction_DuplicateKeys(t *testing.T) {
	keys := generateKeys(t, 2)
	payer := keys[0]
	program := keys[1]

	keys = generateKeys(t, 4)
	sortKeys(keys)

	data := []byte{1, 2, 3}

	// Key[0]: ReadOnlySigner -> WritableSigner
	// Key[1]: ReadOnly       -> ReadOnlySigner
	// Key[2]: Writable       -> Writable       (ReadOnly,noop)
	// Key[3]: WritableSigner -> WritableSigner (ReadOnly,noop)

	tx := NewTransaction(
		payer,
		NewInstruction(
			program,
			data,
			NewReadonlyAccountMeta(keys[0], true),
			NewReadonlyAccountMeta(keys[1], false),
			NewAccountMeta(keys[2], false),
			NewAccountMeta(keys[3], true),
			// Upgrade keys [0] and [1]
			NewAccountMeta(keys[0], false),
			NewReadonlyAccountMeta(keys[1], true),
			// 'Downgrade' keys [2] and [3] (noop)
			NewReadonlyAccountMeta(keys[2], false),
			NewReadonlyAccountMeta(keys[3], false),
		),
	)

	require.Len(t, tx.Signatures, 4)
	require.Len(t, tx.Message.Accounts, 6)
	assert.EqualValues(t, 4, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadOnly)

	assert.Equal(t, payer, tx.Message.Accounts[0])
	assert.Equal(t, keys[0], tx.Message.Accounts[1])
	assert.Equal(t, keys[3], tx.Message.Accounts[2])
	assert.Equal(t, keys[1], tx.Message.Accounts[3])
	assert.Equal(t, keys[2], tx.Message.Accounts[4])
	assert.Equal(t, program, tx.Message.Accounts[5])

	assert.Equal(t, byte(5), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, data, tx.Message.Instructions[0].Data)
	assert.Equal(t, []byte{1, 3, 4, 2, 1, 3, 4, 2}, tx.Message.Instructions[0].Accounts)
}

func TestV0Transaction_MultipleAlts(t *testing.T) {
	keys := generateKeys(t, 8)
	sortKeys(keys)

	payer := keys[0]
	program := keys[1]
	program2 := keys[2]
	accountSigner := keys[3]
	accountReadonly := keys[4]
	accountReadonly2 := keys[5]
	accountWriteable := keys[6]
	accountWriteable2 := keys[7]

	var bh Blockhash
	rand.Read(bh[:])

	ixns := []Instruction{
		NewInstruction(
			program,
			[]byte{0x1, 0x2, 0x3, 0x4},
			NewReadonlyAccountMeta(accountReadonly, false),
			NewReadonlyAccountMeta(accountReadonly2, false),
			NewReadonlyAccountMeta(accountWriteable, false),
			NewAccountMeta(accountWriteable2, false),
		),
		NewInstruction(
			program2,
			[]byte{0x5, 0x6, 0x7, 0x8},
			NewAccountMeta(accountWriteable, false),
			NewReadonlyAccountMeta(accountWriteable, false),
			NewReadonlyAccountMeta(accountReadonly, false),
			NewReadonlyAccountMeta(accountSigner, true),
		),
	}

	altKeys := generateKeys(t, 2)
	sortKeys(altKeys)

	alts := []AddressLookupTable{
		{
			PublicKey: altKeys[1],
			Addresses: []ed25519.PublicKey{
				payer,
				program,
				program2,
				accountReadonly,
				accountReadonly2,
				accountWriteable,
				accountWriteable2,
			},
		},
		{
			PublicKey: altKeys[0],
			Addresses: []ed25519.PublicKey{
				accountSigner,
				accountReadonly,
				accountReadonly,
				accountWriteable,
				accountWriteable,
			},
		},
	}

	tx := NewVersionedTransaction(payer, alts, ixns)
	tx.SetBlockhash(bh)

	require.Len(t, tx.Signatures, 2)
	require.Len(t, tx.Message.Accounts, 4)
	require.Len(t, tx.Message.AddressTableLookups, 2)

	assert.EqualValues(t, 2, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, tx.Message.Header.NumReadOnly)

	assert.Equal(t, bh, tx.Message.RecentBlockhash)
	assert.Equal(t, MessageVersion0, tx.Message.Version())

	assert.Equal(t, payer, tx.Message.Accounts[0])
	assert.Equal(t, accountSigner, tx.Message.Accounts[1])
	assert.Equal(t, program, tx.Message.Accounts[2])
	assert.Equal(t, program2, tx.Message.Accounts[3])

	assert.Equal(t, byte(2), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, []byte{6, 7, 4, 5}, tx.Message.Instructions[0].Accounts)

	assert.Equal(t, byte(3), tx.Message.Instructions[1].ProgramIndex)
	assert.Equal(t, []byte{4, 4, 6, 1}, tx.Message.Instructions[1].Accounts)

	assert.Equal(t, altKeys[0], tx.Message.AddressTableLookups[0].PublicKey)
	assert.Equal(t, []byte{1}, tx.Message.AddressTableLookups[0].ReadonlyIndexes)
	assert.Equal(t, []byte{3}, tx.Message.AddressTableLookups[0].WritableIndexes)

	assert.Equal(t, altKeys[1], tx.Message.AddressTableLookups[1].PublicKey)
	assert.Equal(t, []byte{4}, tx.Message.AddressTableLookups[1].ReadonlyIndexes)
	assert.Equal(t, []byte{6}, tx.Message.AddressTableLookups[1].WritableIndexes)

	// Version prefix byte
	assert.Equal(t, byte(0x80), tx.Message.Marshal()[0])
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}

func sortKeys(keys []ed25519.PublicKey) {
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i], keys[j]) < 0
	})
}

func TestV0Transaction_MarshalRoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)
	payer, program, readonly, writable := keys[0], keys[1], keys[2], keys[3]

	alt := AddressLookupTable{
		PublicKey: generateKeys(t, 1)[0],
		Addresses: []ed25519.PublicKey{readonly, writable},
	}

	tx := NewVersionedTransaction(payer, []AddressLookupTable{alt}, []Instruction{
		NewInstruction(
			program,
			[]byte{1, 2, 3},
			NewReadonlyAccountMeta(readonly, false),
			NewAccountMeta(writable, false),
		),
	})
	require.Equal(t, MessageVersion0, tx.Message.Version())

	encoded := tx.Marshal()
	assert.EqualValues(t, 0x80, tx.Message.Marshal()[0])

	var rtt Transaction
	require.NoError(t, rtt.Unmarshal(encoded))
	assert.Equal(t, MessageVersion0, rtt.Message.Version())
	assert.Equal(t, tx.Message.Accounts, rtt.Message.Accounts)
	assert.Equal(t, tx.Message.AddressTableLookups, rtt.Message.AddressTableLookups)
	assert.Equal(t, []byte{3, 2}, rtt.Message.Instructions[0].Accounts)
	assert.Equal(t, encoded, rtt.Marshal())
}

func TestMessage_UnmarshalInvalid(t *testing.T) {
	var m Message
	assert.Error(t, m.Unmarshal(nil))
	assert.Error(t, m.Unmarshal([]byte{0x81, 1, 0, 0}))
	assert.Error(t, m.Unmarshal([]byte{1, 0}))
}

func TestAddressLookupTable_IndexOf(t *testing.T) {
	keys := generateKeys(t, 3)

	table := AddressLookupTable{Addresses: keys[:2]}

	i, ok := table.IndexOf(keys[1])
	assert.True(t, ok)
	assert.EqualValues(t, 1, i)

	_, ok = table.IndexOf(keys[2])
	assert.False(t, ok)

	large := AddressLookupTable{Addresses: make([]ed25519.PublicKey, 300)}
	for i := range large.Addresses {
		large.Addresses[i] = make([]byte, ed25519.PublicKeySize)
	}
	large.Addresses[299] = keys[2]
	_, ok = large.IndexOf(keys[2])
	assert.False(t, ok)
}
