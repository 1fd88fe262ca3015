package actions

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-actions/pkg/metrics"
	"github.com/code-payments/code-actions/pkg/solana"
)

type AccountStatus uint8

const (
	AccountMissing AccountStatus = iota
	AccountExists
)

func (s AccountStatus) String() string {
	switch s {
	case AccountExists:
		return "exists"
	case AccountMissing:
		return "missing"
	}
	return "unknown"
}

// AccountState is the outcome of a successful probe. Info is only set when the
// account exists.
type AccountState struct {
	Status AccountStatus
	Info   *solana.AccountInfo
}

func (s AccountState) Exists() bool {
	return s.Status == AccountExists
}

// AccountProbe checks whether derived accounts have been initialized.
type AccountProbe struct {
	log        *logrus.Entry
	client     solana.Client
	commitment solana.Commitment
}

func NewAccountProbe(client solana.Client) *AccountProbe {
	return &AccountProbe{
		log:        logrus.StandardLogger().WithField("type", "actions/probe"),
		client:     client,
		commitment: solana.CommitmentConfirmed,
	}
}

// Probe reports whether address holds an account. A failed query is returned
// as a LedgerQueryFailure and never reported as a missing account.
func (p *AccountProbe) Probe(ctx context.Context, address ed25519.PublicKey) (AccountState, error) {
	tracer := metrics.TraceMethodCall(ctx, "actions", "Probe")
	defer tracer.End()

	log := p.log.WithField("address", base58.Encode(address))

	info, err := p.client.GetAccountInfo(ctx, address, p.commitment)
	switch {
	case err == nil:
		tracer.AddAttribute("status", AccountExists.String())
		return AccountState{Status: AccountExists, Info: &info}, nil
	case errors.Is(err, solana.ErrNoAccountInfo):
		tracer.AddAttribute("status", AccountMissing.String())
		return AccountState{Status: AccountMissing}, nil
	}

	log.WithError(err).Warn("failure probing account")
	tracer.OnError(err)
	return AccountState{}, newError(LedgerQueryFailure, err, "error getting account info")
}
