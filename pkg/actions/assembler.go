package actions

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/metrics"
	"github.com/code-payments/code-actions/pkg/solana"
	address_lookup_table "github.com/code-payments/code-actions/pkg/solana/addresslookuptable"
	compute_budget "github.com/code-payments/code-actions/pkg/solana/computebudget"
)

var (
	errNoInstructions      = errors.New("no instructions to assemble")
	errTransactionTooLarge = errors.New("transaction exceeds max size")
)

// Plan is the set of instructions for one action, grouped by the part they
// play. Assemble flattens it in a fixed order:
//
//	prerequisites, initialization, swap (token ledger, compute budget, setup,
//	swap), primary, swap cleanup
type Plan struct {
	Prerequisites  []solana.Instruction
	Initialization *solana.Instruction
	Swap           *jupiter.SwapInstructions
	Primary        []solana.Instruction

	// FeePayer, when set, is placed first as a writable signer. Otherwise the
	// payer falls out of the account roles, which leaves it read-only if no
	// instruction marks it writable.
	FeePayer ed25519.PublicKey

	// Message is an optional human readable status for the caller.
	Message string
}

// Instructions returns the ordered instruction list. Nothing is reordered or
// deduplicated.
func (p *Plan) Instructions() []solana.Instruction {
	var res []solana.Instruction

	res = append(res, p.Prerequisites...)

	if p.Initialization != nil {
		res = append(res, *p.Initialization)
	}

	if p.Swap != nil {
		if p.Swap.TokenLedgerInstruction != nil {
			res = append(res, *p.Swap.TokenLedgerInstruction)
		}
		res = append(res, p.Swap.ComputeBudgetInstructions...)
		res = append(res, p.Swap.SetupInstructions...)
		res = append(res, p.Swap.SwapInstruction)
	}

	res = append(res, p.Primary...)

	if p.Swap != nil && p.Swap.CleanupInstruction != nil {
		res = append(res, *p.Swap.CleanupInstruction)
	}

	return res
}

// UnsignedTransaction is handed to the caller whole. Signature slots are
// zeroed.
type UnsignedTransaction struct {
	Transaction  solana.Transaction
	Instructions []solana.Instruction
	Message      string
}

// Base64 is the wire encoding of the transaction, signature slots included.
func (t *UnsignedTransaction) Base64() string {
	return base64.StdEncoding.EncodeToString(t.Transaction.Marshal())
}

// BlockhashSource provides a recent blockhash for assembled transactions.
type BlockhashSource interface {
	GetLatestBlockhash(ctx context.Context) (solana.Blockhash, error)
}

// Assembler packages plans into unsigned transactions.
type Assembler struct {
	log          *logrus.Entry
	blockhashes  BlockhashSource
	lookupTables solana.Client
}

type AssemblerOption func(*Assembler)

// WithBlockhashSource sets the recent blockhash of assembled transactions.
// Without one the blockhash is left zeroed for the signer to fill in.
func WithBlockhashSource(source BlockhashSource) AssemblerOption {
	return func(a *Assembler) {
		a.blockhashes = source
	}
}

// WithLookupTables enables v0 transactions when a swap references address
// lookup tables. Tables are loaded through client.
func WithLookupTables(client solana.Client) AssemblerOption {
	return func(a *Assembler) {
		a.lookupTables = client
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		log: logrus.StandardLogger().WithField("type", "actions/assembler"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SupportsLookupTables reports whether swaps may use address lookup tables.
// When false, swaps must be requested as legacy transactions.
func (a *Assembler) SupportsLookupTables() bool {
	return a.lookupTables != nil
}

// Assemble builds the unsigned transaction for plan.
func (a *Assembler) Assemble(ctx context.Context, plan *Plan) (*UnsignedTransaction, error) {
	tracer := metrics.TraceMethodCall(ctx, "actions", "Assemble")
	defer tracer.End()

	res, err := a.assemble(ctx, plan)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	tracer.AddAttributes(map[string]interface{}{
		"instructions": len(res.Instructions),
		"version":      res.Transaction.Message.Version().String(),
	})
	return res, nil
}

func (a *Assembler) assemble(ctx context.Context, plan *Plan) (*UnsignedTransaction, error) {
	if plan == nil {
		return nil, newError(AssemblyFailure, errNoInstructions, "nil plan")
	}

	instructions := plan.Instructions()
	if len(instructions) == 0 {
		return nil, newError(AssemblyFailure, errNoInstructions, "empty plan")
	}

	var alts []solana.AddressLookupTable
	if plan.Swap != nil && len(plan.Swap.AddressLookupTableAddresses) > 0 {
		if a.lookupTables == nil {
			a.log.Debug("swap references lookup tables, assembling without them")
		} else {
			var err error
			alts, err = a.loadLookupTables(ctx, plan.Swap.AddressLookupTableAddresses)
			if err != nil {
				return nil, err
			}
		}
	}

	var txn solana.Transaction
	if len(alts) > 0 {
		txn = solana.NewVersionedTransaction(plan.FeePayer, alts, instructions)
	} else if len(plan.FeePayer) > 0 {
		txn = solana.NewTransaction(plan.FeePayer, instructions...)
	} else {
		txn = solana.NewUnsignedTransaction(instructions...)
	}

	if a.blockhashes != nil {
		blockhash, err := a.blockhashes.GetLatestBlockhash(ctx)
		if err != nil {
			return nil, newError(LedgerQueryFailure, err, "error getting latest blockhash")
		}
		txn.SetBlockhash(blockhash)
	}

	if size := len(txn.Marshal()); size > solana.MaxTransactionSize {
		return nil, &Error{
			Kind: AssemblyFailure,
			Err:  errors.Wrapf(errTransactionTooLarge, "%d bytes", size),
		}
	}

	settings := compute_budget.ParseSettings(instructions)
	log := a.log.WithField("instructions", len(instructions))
	if settings.UnitLimit != nil {
		log = log.WithField("compute_unit_limit", *settings.UnitLimit)
	}
	if settings.UnitPrice != nil {
		log = log.WithField("compute_unit_price", *settings.UnitPrice)
	}
	log.Debug("assembled transaction")

	return &UnsignedTransaction{
		Transaction:  txn,
		Instructions: instructions,
		Message:      plan.Message,
	}, nil
}

func (a *Assembler) loadLookupTables(ctx context.Context, addresses []ed25519.PublicKey) ([]solana.AddressLookupTable, error) {
	alts := make([]solana.AddressLookupTable, 0, len(addresses))
	for _, address := range addresses {
		info, err := a.lookupTables.GetAccountInfo(ctx, address, solana.CommitmentConfirmed)
		if err != nil {
			return nil, newError(LedgerQueryFailure, err, "error getting address lookup table "+base58.Encode(address))
		}

		alt, err := address_lookup_table.FromAccountInfo(address, info)
		if err != nil {
			return nil, newError(MalformedResponse, err, "invalid address lookup table "+base58.Encode(address))
		}
		alts = append(alts, alt)
	}
	return alts, nil
}
