package compute_budget

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/code-actions/pkg/solana"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

const (
	commandRequestUnits uint8 = iota
	commandRequestHeapFrame
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
)

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], computeUnitLimit)

	return solana.NewInstruction(ProgramKey, data)
}

// SetComputeUnitPrice sets the priority fee in micro-lamports per compute unit.
func SetComputeUnitPrice(computeUnitPrice uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], computeUnitPrice)

	return solana.NewInstruction(ProgramKey, data)
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	if err := checkCommand(data, commandSetComputeUnitLimit, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data[1:]), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	if err := checkCommand(data, commandSetComputeUnitPrice, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data[1:]), nil
}

func checkCommand(data []byte, command uint8, argSize int) error {
	if len(data) != 1+argSize {
		return errors.Errorf("invalid length: %d", len(data))
	}
	if data[0] != command {
		return solana.ErrIncorrectInstruction
	}
	return nil
}

// Settings are the compute budget values requested by a set of instructions.
// Unset values are nil.
type Settings struct {
	UnitLimit *uint32
	UnitPrice *uint64
}

// ParseSettings extracts the compute budget from instructions. Instructions
// for other programs, or that fail to parse, are skipped.
func ParseSettings(instructions []solana.Instruction) Settings {
	var settings Settings
	for _, ixn := range instructions {
		if !bytes.Equal(ixn.Program, ProgramKey) || len(ixn.Data) == 0 {
			continue
		}

		switch ixn.Data[0] {
		case commandSetComputeUnitLimit:
			if limit, err := ParseSetComputeUnitLimitIxnData(ixn.Data); err == nil {
				settings.UnitLimit = &limit
			}
		case commandSetComputeUnitPrice:
			if price, err := ParseSetComputeUnitPriceIxnData(ixn.Data); err == nil {
				settings.UnitPrice = &price
			}
		}
	}
	return settings
}
