package jupiter

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"github.com/code-payments/code-actions/pkg/solana"
)

// Decoding of the transport encoding of quotes and instructions is confined to
// this file.

func decodeQuote(body []byte) (*Quote, error) {
	var parsed jsonQuote
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, malformed("invalid quote json: %v", err)
	}

	if len(parsed.RoutePlan) == 0 {
		return nil, ErrQuoteUnavailable
	}

	quote := &Quote{
		raw:         append(json.RawMessage(nil), body...),
		InputMint:   parsed.InputMint,
		OutputMint:  parsed.OutputMint,
		SwapMode:    parsed.SwapMode,
		SlippageBps: parsed.SlippageBps,
		ContextSlot: parsed.ContextSlot,
	}

	var err error
	if quote.InAmount, err = parseAmount("inAmount", parsed.InAmount); err != nil {
		return nil, err
	}
	if quote.OutAmount, err = parseAmount("outAmount", parsed.OutAmount); err != nil {
		return nil, err
	}
	if quote.OtherAmountThreshold, err = parseAmount("otherAmountThreshold", parsed.OtherAmountThreshold); err != nil {
		return nil, err
	}
	if len(parsed.PriceImpactPct) > 0 {
		if quote.PriceImpactPct, err = decimal.NewFromString(parsed.PriceImpactPct); err != nil {
			return nil, malformed("invalid priceImpactPct %q", parsed.PriceImpactPct)
		}
	}

	for i, step := range parsed.RoutePlan {
		leg := RouteLeg{
			AmmKey:     step.SwapInfo.AmmKey,
			Label:      step.SwapInfo.Label,
			InputMint:  step.SwapInfo.InputMint,
			OutputMint: step.SwapInfo.OutputMint,
			FeeMint:    step.SwapInfo.FeeMint,
			Percent:    step.Percent,
		}
		if leg.InAmount, err = parseAmount("routePlan.inAmount", step.SwapInfo.InAmount); err != nil {
			return nil, err
		}
		if leg.OutAmount, err = parseAmount("routePlan.outAmount", step.SwapInfo.OutAmount); err != nil {
			return nil, err
		}
		if leg.FeeAmount, err = parseAmount("routePlan.feeAmount", step.SwapInfo.FeeAmount); err != nil {
			return nil, err
		}
		if len(leg.AmmKey) == 0 {
			return nil, malformed("route plan leg %d has no amm key", i)
		}
		quote.RoutePlan = append(quote.RoutePlan, leg)
	}

	return quote, nil
}

func decodeSwapInstructions(body []byte) (*SwapInstructions, error) {
	var jsonBody jsonSwapInstructions
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		return nil, malformed("invalid swap instructions json: %v", err)
	}

	var res SwapInstructions
	var err error

	if jsonBody.TokenLedgerInstruction != nil {
		res.TokenLedgerInstruction, err = jsonBody.TokenLedgerInstruction.toSolanaInstruction()
		if err != nil {
			return nil, malformed("token ledger instruction: %v", err)
		}
	}

	for _, jsonIxn := range jsonBody.ComputeBudgetInstructions {
		cbIxn, err := jsonIxn.toSolanaInstruction()
		if err != nil {
			return nil, malformed("compute budget instruction: %v", err)
		}
		res.ComputeBudgetInstructions = append(res.ComputeBudgetInstructions, *cbIxn)
	}

	for _, jsonIxn := range jsonBody.SetupInstructions {
		setupIxn, err := jsonIxn.toSolanaInstruction()
		if err != nil {
			return nil, malformed("setup instruction: %v", err)
		}
		res.SetupInstructions = append(res.SetupInstructions, *setupIxn)
	}

	if jsonBody.SwapInstruction == nil {
		return nil, malformed("swap instruction not provided")
	}

	swapIxn, err := jsonBody.SwapInstruction.toSolanaInstruction()
	if err != nil {
		return nil, malformed("swap instruction: %v", err)
	}
	res.SwapInstruction = *swapIxn

	if jsonBody.CleanupInstruction != nil {
		res.CleanupInstruction, err = jsonBody.CleanupInstruction.toSolanaInstruction()
		if err != nil {
			return nil, malformed("cleanup instruction: %v", err)
		}
	}

	for _, address := range jsonBody.AddressLookupTableAddresses {
		decoded, err := decodePublicKey(address)
		if err != nil {
			return nil, malformed("address lookup table address: %v", err)
		}
		res.AddressLookupTableAddresses = append(res.AddressLookupTableAddresses, decoded)
	}

	res.PrioritizationFeeLamports = jsonBody.PrioritizationFeeLamports

	return &res, nil
}

func (i *jsonInstruction) toSolanaInstruction() (*solana.Instruction, error) {
	if i == nil {
		return nil, malformed("null instruction")
	}

	decodedProgramKey, err := decodePublicKey(i.ProgramId)
	if err != nil {
		return nil, malformed("invalid program public key: %v", err)
	}

	decodedData, err := base64.StdEncoding.DecodeString(i.Data)
	if err != nil {
		return nil, malformed("error decoding base64 instruction data: %v", err)
	}

	accountMetas := make([]solana.AccountMeta, 0, len(i.Accounts))
	for _, instructionAccount := range i.Accounts {
		decodedPubkey, err := decodePublicKey(instructionAccount.Pubkey)
		if err != nil {
			return nil, malformed("invalid instruction account public key: %v", err)
		}

		accountMetas = append(accountMetas, solana.AccountMeta{
			PublicKey:  decodedPubkey,
			IsSigner:   instructionAccount.IsSigner,
			IsWritable: instructionAccount.IsWritable,
		})
	}

	return &solana.Instruction{
		Program:  decodedProgramKey,
		Accounts: accountMetas,
		Data:     decodedData,
	}, nil
}

func decodePublicKey(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, err
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, malformed("invalid public key length %d", len(decoded))
	}
	return decoded, nil
}
