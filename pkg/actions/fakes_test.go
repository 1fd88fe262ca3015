package actions

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/code-payments/code-actions/pkg/helius"
	"github.com/code-payments/code-actions/pkg/jupiter"
	"github.com/code-payments/code-actions/pkg/solana"
)

type fakeLedger struct {
	sync.Mutex

	accounts  map[string]solana.AccountInfo
	err       error
	blockhash solana.Blockhash
	hashErr   error

	accountInfoCalls int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: make(map[string]solana.AccountInfo),
	}
}

func (l *fakeLedger) setAccount(address ed25519.PublicKey, info solana.AccountInfo) {
	l.Lock()
	defer l.Unlock()
	l.accounts[base58.Encode(address)] = info
}

func (l *fakeLedger) GetAccountInfo(_ context.Context, account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	l.Lock()
	defer l.Unlock()

	l.accountInfoCalls++

	if l.err != nil {
		return solana.AccountInfo{}, l.err
	}

	info, ok := l.accounts[base58.Encode(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (l *fakeLedger) GetLatestBlockhash(_ context.Context) (solana.Blockhash, error) {
	l.Lock()
	defer l.Unlock()
	return l.blockhash, l.hashErr
}

type fakeTokens struct {
	infos map[string]*helius.TokenInfo
	err   error
}

func (t *fakeTokens) GetTokenInfo(_ context.Context, mint ed25519.PublicKey) (*helius.TokenInfo, error) {
	if t.err != nil {
		return nil, t.err
	}
	info, ok := t.infos[base58.Encode(mint)]
	if !ok {
		return nil, helius.ErrAssetNotFound
	}
	return info, nil
}

type fakeSwaps struct {
	quote *jupiter.Quote
	swap  *jupiter.SwapInstructions
	err   error

	lastRequest     jupiter.QuoteRequest
	lastOwner       ed25519.PublicKey
	lastDestination ed25519.PublicKey
}

func (s *fakeSwaps) GetSwap(_ context.Context, req jupiter.QuoteRequest, owner, destination ed25519.PublicKey) (*jupiter.Quote, *jupiter.SwapInstructions, error) {
	s.lastRequest = req
	s.lastOwner = owner
	s.lastDestination = destination

	if s.err != nil {
		return nil, nil, s.err
	}
	return s.quote, s.swap, nil
}

func newTestInstruction(data ...byte) solana.Instruction {
	program, _, _ := ed25519.GenerateKey(nil)
	account, _, _ := ed25519.GenerateKey(nil)
	return solana.NewInstruction(program, data, solana.NewAccountMeta(account, false))
}
