// pkg/network/cosmos/orchestrator.go
package cosmos

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"cosmossdk.io/log"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// State is a step of a sign-and-broadcast attempt.
type State string

const (
	StateIdle           State = "idle"
	StateAccountFetched State = "account_fetched"
	StateEncoded        State = "encoded"
	StateSigned         State = "signed"
	StateBroadcast      State = "broadcast"
	StateSuccess        State = "success"
	StateFailed         State = "failed"
)

// StateObserver is notified of every state transition of an attempt.
type StateObserver func(attempt string, state State)

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithStateObserver registers a state transition observer.
func WithStateObserver(fn StateObserver) OrchestratorOption {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// Orchestrator fetches the signer account, encodes the envelope, obtains a
// signature and broadcasts through the transport selected by wallet kind.
// Each call is a single attempt; nothing is retried.
type Orchestrator struct {
	cfg      ChainConfig
	accounts network.AccountSource
	rest     network.BroadcastTransport
	logger   log.Logger
	observer StateObserver
}

// NewOrchestrator creates an Orchestrator. rest is used for wallets that are not native.
func NewOrchestrator(cfg ChainConfig, accounts network.AccountSource, rest network.BroadcastTransport, logger log.Logger, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		accounts: accounts,
		rest:     rest,
		logger:   logger.With(log.ModuleKey, "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// attempt tracks one pass through the state machine.
type attempt struct {
	id     string
	state  State
	logger log.Logger
	o      *Orchestrator
}

func (a *attempt) transition(to State, keyvals ...any) {
	a.state = to
	a.logger.Debug("state transition", append([]any{"state", to}, keyvals...)...)
	if a.o.observer != nil {
		a.o.observer(a.id, to)
	}
}

func (a *attempt) fail(err error) error {
	a.logger.Error("transaction failed", "from_state", a.state, "error", err)
	a.transition(StateFailed)
	return err
}

// SignAndBroadcast runs one attempt for msgs and returns the uppercase hex tx hash on success.
func (o *Orchestrator) SignAndBroadcast(ctx context.Context, wallet network.Wallet, msgs []Message, fee Fee, memo string) (*network.TxResult, error) {
	a := &attempt{id: uuid.NewString(), state: StateIdle, o: o}
	a.logger = o.logger.With("attempt", a.id)

	address, err := wallet.Address(ctx)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: failed to resolve signer address: %w", ErrAccountLookupFailed, err))
	}
	a.logger = a.logger.With("address", address)

	record, err := o.accounts.GetAccount(ctx, address)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: %w", ErrAccountLookupFailed, err))
	}
	account, err := ResolveAccount(record)
	if err != nil {
		return nil, a.fail(err)
	}
	a.transition(StateAccountFetched, "account_number", account.AccountNumber, "sequence", account.Sequence)

	pubKey, err := wallet.GetPublicKey(ctx, o.cfg.ChainID)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: failed to get public key: %w", ErrSigningRejected, err))
	}

	body, err := EncodeTxBody(msgs, memo)
	if err != nil {
		return nil, a.fail(err)
	}
	authInfo := EncodeAuthInfo(&PubKey{TypeURL: o.cfg.PubKeyTypeURL, Key: pubKey}, account.Sequence, fee)
	a.transition(StateEncoded, "messages", len(msgs), "gas", fee.GasLimit)

	doc := network.SignDoc{
		BodyBytes:     body,
		AuthInfoBytes: authInfo,
		ChainID:       o.cfg.ChainID,
		AccountNumber: strconv.FormatUint(account.AccountNumber, 10),
	}
	resp, err := wallet.RequestSignature(ctx, o.cfg.ChainID, address, doc)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: %w", ErrSigningRejected, err))
	}
	if resp == nil {
		return nil, a.fail(fmt.Errorf("%w: signer returned no response", ErrSigningRejected))
	}
	sig, err := base64.StdEncoding.DecodeString(resp.Signature)
	if err != nil {
		return nil, a.fail(fmt.Errorf("%w: invalid signature encoding: %w", ErrSigningRejected, err))
	}
	a.transition(StateSigned)

	txBytes, err := EncodeTxRaw(resp.Signed.BodyBytes, resp.Signed.AuthInfoBytes, [][]byte{sig})
	if err != nil {
		return nil, a.fail(err)
	}

	transport, err := o.transportFor(wallet)
	if err != nil {
		return nil, a.fail(err)
	}
	a.transition(StateBroadcast, "wallet_kind", wallet.Kind(), "tx_size", len(txBytes))

	hash, err := transport.Broadcast(ctx, txBytes)
	if err != nil {
		return nil, a.fail(err)
	}

	a.logger = a.logger.With("tx_hash", hash)
	a.transition(StateSuccess)
	a.logger.Info("transaction broadcast")

	return &network.TxResult{Success: true, TxHash: hash}, nil
}

// transportFor picks the wallet's own raw sender for native wallets and the REST
// transport for everything else.
func (o *Orchestrator) transportFor(wallet network.Wallet) (network.BroadcastTransport, error) {
	if wallet.Kind() != network.WalletKindNative {
		return o.rest, nil
	}
	sender, ok := wallet.(network.RawSender)
	if !ok {
		return nil, fmt.Errorf("%w: native wallet cannot send raw transactions", ErrBroadcastTransportFailed)
	}
	return NewNativeTransport(sender, o.cfg.ChainID), nil
}
