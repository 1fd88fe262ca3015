package jupiter

import (
	"crypto/ed25519"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/code-payments/code-actions/pkg/solana"
)

// QuoteRequest are the parameters of a quote.
type QuoteRequest struct {
	InputMint  ed25519.PublicKey
	OutputMint ed25519.PublicKey
	// Amount of InputMint in its smallest unit
	Amount uint64
	// MaxAccounts bounds the accounts used by the route. Zero uses DefaultMaxAccounts.
	MaxAccounts uint8
	// SlippageBps of zero leaves slippage to the service default.
	SlippageBps uint32
	// AsLegacyTransaction restricts routes to ones that fit a legacy transaction.
	AsLegacyTransaction bool
}

// Quote is a priced route. The raw response is kept and echoed back verbatim
// when requesting swap instructions.
type Quote struct {
	raw json.RawMessage

	InputMint            string
	OutputMint           string
	InAmount             uint64
	OutAmount            uint64
	OtherAmountThreshold uint64
	SwapMode             string
	SlippageBps          uint32
	PriceImpactPct       decimal.Decimal
	RoutePlan            []RouteLeg
	ContextSlot          uint64

	asLegacyTransaction bool
}

// RouteLeg is one AMM hop of a route.
type RouteLeg struct {
	AmmKey     string
	Label      string
	InputMint  string
	OutputMint string
	InAmount   uint64
	OutAmount  uint64
	FeeAmount  uint64
	FeeMint    string
	Percent    uint32
}

// Raw returns the quote as returned by the service.
func (q *Quote) Raw() json.RawMessage {
	return q.raw
}

// GetEstimatedSwapAmount is the minimum output amount after slippage.
func (q *Quote) GetEstimatedSwapAmount() uint64 {
	return q.OtherAmountThreshold
}

// SwapInstructions is the instruction set returned for a quote.
type SwapInstructions struct {
	TokenLedgerInstruction      *solana.Instruction
	ComputeBudgetInstructions   []solana.Instruction
	SetupInstructions           []solana.Instruction
	SwapInstruction             solana.Instruction
	CleanupInstruction          *solana.Instruction
	AddressLookupTableAddresses []ed25519.PublicKey
	PrioritizationFeeLamports   uint64
}

type jsonRouteSwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`
	FeeAmount  string `json:"feeAmount"`
	FeeMint    string `json:"feeMint"`
}

type jsonRoutePlanStep struct {
	SwapInfo jsonRouteSwapInfo `json:"swapInfo"`
	Percent  uint32            `json:"percent"`
}

type jsonQuote struct {
	InputMint            string              `json:"inputMint"`
	InAmount             string              `json:"inAmount"`
	OutputMint           string              `json:"outputMint"`
	OutAmount            string              `json:"outAmount"`
	OtherAmountThreshold string              `json:"otherAmountThreshold"`
	SwapMode             string              `json:"swapMode"`
	SlippageBps          uint32              `json:"slippageBps"`
	PriceImpactPct       string              `json:"priceImpactPct"`
	RoutePlan            []jsonRoutePlanStep `json:"routePlan"`
	ContextSlot          uint64              `json:"contextSlot"`
}

type jsonError struct {
	Error     string `json:"error"`
	ErrorCode string `json:"errorCode"`
}

type jsonSwapRequest struct {
	QuoteResponse           json.RawMessage `json:"quoteResponse"`
	UserPublicKey           string          `json:"userPublicKey"`
	DestinationTokenAccount string          `json:"destinationTokenAccount,omitempty"`
	AsLegacyTransaction     bool            `json:"asLegacyTransaction,omitempty"`
}

type jsonInstructionAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type jsonInstruction struct {
	ProgramId string                   `json:"programId"`
	Accounts  []jsonInstructionAccount `json:"accounts"`
	Data      string                   `json:"data"`
}

type jsonSwapInstructions struct {
	TokenLedgerInstruction      *jsonInstruction   `json:"tokenLedgerInstruction"`
	ComputeBudgetInstructions   []*jsonInstruction `json:"computeBudgetInstructions"`
	SetupInstructions           []*jsonInstruction `json:"setupInstructions"`
	SwapInstruction             *jsonInstruction   `json:"swapInstruction"`
	CleanupInstruction          *jsonInstruction   `json:"cleanupInstruction"`
	AddressLookupTableAddresses []string           `json:"addressLookupTableAddresses"`
	PrioritizationFeeLamports   uint64             `json:"prioritizationFeeLamports"`
}

func parseAmount(name, value string) (uint64, error) {
	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, malformed("invalid %s %q", name, value)
	}
	return amount, nil
}
