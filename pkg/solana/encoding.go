package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/solana/shortvec"
)

// versionPrefix is set on the first byte of versioned messages. Legacy
// messages start with the signature count, which never has the bit set.
const versionPrefix = 0x80

// Marshal encodes the transaction in the wire format.
func (t Transaction) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_, _ = shortvec.EncodeLen(b, len(t.Signatures))
	for _, s := range t.Signatures {
		_, _ = b.Write(s[:])
	}

	_, _ = b.Write(t.Message.Marshal())

	return b.Bytes()
}

// Unmarshal decodes a legacy or v0 transaction.
func (t *Transaction) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)

	sigLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read signature length")
	}

	t.Signatures = make([]Signature, sigLen)
	for i := 0; i < sigLen; i++ {
		if _, err = io.ReadFull(buf, t.Signatures[i][:]); err != nil {
			return errors.Wrapf(err, "failed to read signature at %d", i)
		}
	}

	return (&t.Message).Unmarshal(buf.Bytes())
}

// Marshal encodes the message in the format of its version.
func (m Message) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	switch m.version {
	case MessageVersionLegacy:
	case MessageVersion0:
		_ = b.WriteByte(versionPrefix | byte(m.version-MessageVersion0))
	default:
		panic("unsupported message version")
	}

	_ = b.WriteByte(m.Header.NumSignatures)
	_ = b.WriteByte(m.Header.NumReadonlySigned)
	_ = b.WriteByte(m.Header.NumReadOnly)

	_, _ = shortvec.EncodeLen(b, len(m.Accounts))
	for _, a := range m.Accounts {
		_, _ = b.Write(a)
	}

	_, _ = b.Write(m.RecentBlockhash[:])

	_, _ = shortvec.EncodeLen(b, len(m.Instructions))
	for _, i := range m.Instructions {
		_ = b.WriteByte(i.ProgramIndex)

		_, _ = shortvec.EncodeLen(b, len(i.Accounts))
		_, _ = b.Write(i.Accounts)

		_, _ = shortvec.EncodeLen(b, len(i.Data))
		_, _ = b.Write(i.Data)
	}

	if m.version == MessageVersionLegacy {
		return b.Bytes()
	}

	_, _ = shortvec.EncodeLen(b, len(m.AddressTableLookups))
	for _, lookup := range m.AddressTableLookups {
		_, _ = b.Write(lookup.PublicKey)

		_, _ = shortvec.EncodeLen(b, len(lookup.WritableIndexes))
		_, _ = b.Write(lookup.WritableIndexes)

		_, _ = shortvec.EncodeLen(b, len(lookup.ReadonlyIndexes))
		_, _ = b.Write(lookup.ReadonlyIndexes)
	}

	return b.Bytes()
}

// Unmarshal decodes a legacy or v0 message. Index bounds are only checked
// against static accounts for legacy messages, since v0 indexes may refer to
// accounts loaded from lookup tables.
func (m *Message) Unmarshal(b []byte) (err error) {
	if len(b) == 0 {
		return errors.New("empty message")
	}

	buf := bytes.NewBuffer(b)

	m.version = MessageVersionLegacy
	if b[0]&versionPrefix != 0 {
		version := b[0] &^ versionPrefix
		if version != 0 {
			return errors.Errorf("unsupported message version: %d", version)
		}
		m.version = MessageVersion0
		_, _ = buf.ReadByte()
	}

	if m.Header.NumSignatures, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num signatures")
	}
	if m.Header.NumReadonlySigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly signatures")
	}
	if m.Header.NumReadOnly, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read num readonly")
	}

	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read account len")
	}
	m.Accounts = make([]ed25519.PublicKey, accountLen)
	for i := 0; i < accountLen; i++ {
		if m.Accounts[i], err = readKey(buf); err != nil {
			return errors.Wrapf(err, "failed to read account at index %d", i)
		}
	}

	if _, err = io.ReadFull(buf, m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "failed to read recent block hash")
	}

	instructionLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read instruction len")
	}
	m.Instructions = make([]CompiledInstruction, instructionLen)
	for i := 0; i < instructionLen; i++ {
		var c CompiledInstruction

		if c.ProgramIndex, err = buf.ReadByte(); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] program index", i)
		}
		if int(c.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("program index out of range: %d:%d", i, c.ProgramIndex)
		}

		if c.Accounts, err = readBytes(buf); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] accounts", i)
		}
		if m.version == MessageVersionLegacy {
			for _, index := range c.Accounts {
				if int(index) >= len(m.Accounts) {
					return errors.Errorf("account index out of range: %d:%d", i, index)
				}
			}
		}

		if c.Data, err = readBytes(buf); err != nil {
			return errors.Wrapf(err, "failed to read instruction[%d] data", i)
		}

		m.Instructions[i] = c
	}

	m.AddressTableLookups = nil
	if m.version == MessageVersionLegacy {
		return nil
	}

	lookupLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read address table lookup len")
	}
	for i := 0; i < lookupLen; i++ {
		var lookup MessageAddressTableLookup

		if lookup.PublicKey, err = readKey(buf); err != nil {
			return errors.Wrapf(err, "failed to read address table lookup[%d] key", i)
		}
		if lookup.WritableIndexes, err = readBytes(buf); err != nil {
			return errors.Wrapf(err, "failed to read address table lookup[%d] writable indexes", i)
		}
		if lookup.ReadonlyIndexes, err = readBytes(buf); err != nil {
			return errors.Wrapf(err, "failed to read address table lookup[%d] readonly indexes", i)
		}

		m.AddressTableLookups = append(m.AddressTableLookups, lookup)
	}

	return nil
}

func readKey(buf *bytes.Buffer) (ed25519.PublicKey, error) {
	key := make([]byte, ed25519.PublicKeySize)
	if _, err := io.ReadFull(buf, key); err != nil {
		return nil, err
	}
	return key, nil
}

// readBytes reads a shortvec length prefixed byte array.
func readBytes(buf *bytes.Buffer) ([]byte, error) {
	n, err := shortvec.DecodeLen(buf)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(buf, b); err != nil {
		return nil, err
	}
	return b, nil
}
