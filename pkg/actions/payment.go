package actions

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/solana"
	"github.com/code-payments/code-actions/pkg/solana/token"
)

// SEND token mint, SENDdRQtYMWaQrBroBrJ2Q53fgVuq95CV9UPGEvpCxa
var SendMint = solana.MustPublicKeyFromString("SENDdRQtYMWaQrBroBrJ2Q53fgVuq95CV9UPGEvpCxa")

const paymentMessage = "Payment successfully sent"

var errNotConfigured = errors.New("payments are not configured")

// TokenInfo resolves the metadata of mint. An unknown or non-fungible mint is
// reported as InvalidInput on field.
func (s *Service) TokenInfo(ctx context.Context, field string, mint ed25519.PublicKey) (*helius.TokenInfo, error) {
	if s.tokens == nil {
		return nil, newError(ExternalServiceFailure, errNotConfigured, "token info")
	}

	info, err := s.tokens.GetTokenInfo(ctx, mint)
	if err != nil {
		return nil, newTokenInfoError(field, err)
	}
	return info, nil
}

// Pay swaps amount of tokenMint, in UI units, held by payer into SEND
// delivered to receiver. The receiver's SEND token account is created first,
// funded by payer, when it doesn't exist.
func (s *Service) Pay(ctx context.Context, payer, tokenMint, receiver ed25519.PublicKey, amount string) (*UnsignedTransaction, error) {
	p := s.newPipeline("pay")

	if s.swaps == nil {
		return nil, p.fail(newError(ExternalServiceFailure, errNotConfigured, "swap client"))
	}
	if bytes.Equal(tokenMint, SendMint) {
		return nil, p.fail(newInvalidInputError("token_mint", "payments must be made in a token other than SEND"))
	}

	info, err := s.TokenInfo(ctx, "token_mint", tokenMint)
	if err != nil {
		return nil, p.fail(err)
	}

	baseUnits, err := ParseAmountUint64("amount", amount, int32(info.Decimals))
	if err != nil {
		return nil, p.fail(err)
	}
	if baseUnits == 0 {
		return nil, p.fail(newInvalidInputError("amount", "amount must be positive"))
	}

	createAtaIxn, receiverAta, err := token.CreateAssociatedTokenAccountIdempotent(payer, receiver, SendMint)
	if err != nil {
		return nil, p.fail(newError(AddressDerivationFailure, err, "error deriving receiver send token account"))
	}
	p.advance(stageInstructionsBuilt)

	quote, swap, err := s.swaps.GetSwap(
		ctx,
		jupiter.QuoteRequest{
			InputMint:           tokenMint,
			OutputMint:          SendMint,
			Amount:              baseUnits,
			MaxAccounts:         s.maxAccounts,
			SlippageBps:         s.slippageBps,
			AsLegacyTransaction: !s.assembler.SupportsLookupTables(),
		},
		payer,
		receiverAta,
	)
	if err != nil {
		return nil, p.fail(newSwapError(err, "error getting swap"))
	}
	p.advance(stageQuoteFetched)

	p.log.WithFields(logrus.Fields{
		"in_amount":        quote.InAmount,
		"out_amount":       quote.OutAmount,
		"min_out_amount":   quote.GetEstimatedSwapAmount(),
		"price_impact_pct": quote.PriceImpactPct.String(),
	}).Debug("quote fetched")

	txn, err := s.assembler.Assemble(ctx, &Plan{
		Prerequisites: []solana.Instruction{createAtaIxn},
		Swap:          swap,
		Message:       paymentMessage,
	})
	if err != nil {
		return nil, p.fail(err)
	}
	return p.done(txn), nil
}
