package actions

import (
	"context"
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/solana"
)

// SwapClient fetches a quote and its swap instructions.
type SwapClient interface {
	GetSwap(
		ctx context.Context,
		req jupiter.QuoteRequest,
		owner ed25519.PublicKey,
		destinationTokenAccount ed25519.PublicKey,
	) (*jupiter.Quote, *jupiter.SwapInstructions, error)
}

// CreateKeyGenerator returns a fresh key used to seed a new multisig.
type CreateKeyGenerator func() (ed25519.PublicKey, error)

func randomCreateKey() (ed25519.PublicKey, error) {
	pub, _, err := ed25519.GenerateKey(nil)
	return pub, err
}

// Service builds unsigned transactions for every supported action. It holds
// no per request state and is safe for concurrent use.
type Service struct {
	log       *logrus.Entry
	probe     *AccountProbe
	assembler *Assembler

	swaps  SwapClient
	tokens helius.Client

	createKeys  CreateKeyGenerator
	maxAccounts uint8
	slippageBps uint32
}

type Option func(*Service)

// WithAssembler replaces the default assembler, which leaves blockhashes
// zeroed and never uses lookup tables.
func WithAssembler(assembler *Assembler) Option {
	return func(s *Service) {
		s.assembler = assembler
	}
}

// WithSwapClient is required for payments.
func WithSwapClient(swaps SwapClient) Option {
	return func(s *Service) {
		s.swaps = swaps
	}
}

// WithTokenInfo is required for payments.
func WithTokenInfo(tokens helius.Client) Option {
	return func(s *Service) {
		s.tokens = tokens
	}
}

func WithCreateKeyGenerator(generator CreateKeyGenerator) Option {
	return func(s *Service) {
		s.createKeys = generator
	}
}

func WithMaxAccounts(maxAccounts uint8) Option {
	return func(s *Service) {
		s.maxAccounts = maxAccounts
	}
}

func WithSlippageBps(slippageBps uint32) Option {
	return func(s *Service) {
		s.slippageBps = slippageBps
	}
}

// NewService returns a Service that probes ledger state through client.
func NewService(client solana.Client, opts ...Option) *Service {
	s := &Service{
		log:         logrus.StandardLogger().WithField("type", "actions/service"),
		probe:       NewAccountProbe(client),
		assembler:   NewAssembler(),
		createKeys:  randomCreateKey,
		maxAccounts: jupiter.DefaultMaxAccounts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type stage uint8

const (
	stageStart stage = iota
	stageAddressesDerived
	stageStateProbed
	stageInstructionsBuilt
	stageQuoteFetched
	stageAssembled
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageAddressesDerived:
		return "addresses_derived"
	case stageStateProbed:
		return "state_probed"
	case stageInstructionsBuilt:
		return "instructions_built"
	case stageQuoteFetched:
		return "quote_fetched"
	case stageAssembled:
		return "assembled"
	}
	return "unknown"
}

// pipeline tracks the progress of a single request. Any failure is terminal.
type pipeline struct {
	log   *logrus.Entry
	stage stage
}

func (s *Service) newPipeline(action string) *pipeline {
	return &pipeline{
		log: s.log.WithField("action", action),
	}
}

func (p *pipeline) advance(to stage) {
	p.stage = to
}

func (p *pipeline) fail(err error) error {
	log := p.log.WithFields(logrus.Fields{
		"stage": p.stage.String(),
		"kind":  KindOf(err).String(),
	}).WithError(err)

	switch KindOf(err) {
	case InvalidInput, QuoteUnavailable:
		log.Debug("action rejected")
	default:
		log.Warn("failure building action")
	}
	return err
}

func (p *pipeline) done(txn *UnsignedTransaction) *UnsignedTransaction {
	p.advance(stageAssembled)
	p.log.WithField("instructions", len(txn.Instructions)).Debug("action built")
	return txn
}
