// pkg/network/txbuilder.go
package network

import (
	"context"
)

// TxType identifies a staking operation.
type TxType string

// Staking operations supported by the facade.
const (
	TxTypeStakingDelegate        TxType = "staking/delegate"
	TxTypeStakingUnbond          TxType = "staking/unbond"
	TxTypeStakingRedelegate      TxType = "staking/redelegate"
	TxTypeStakingCancelUnbonding TxType = "staking/cancel-unbonding"
	TxTypeDistributionClaim      TxType = "distribution/claim"
)

// WalletKind selects the broadcast transport used for a wallet.
type WalletKind string

const (
	// WalletKindNative wallets broadcast through their own RawSender.
	WalletKindNative WalletKind = "native"

	// WalletKindREST wallets broadcast through the chain's REST tx endpoint.
	WalletKindREST WalletKind = "rest"
)

// BroadcastMode specifies how a raw transaction is handed to a node.
type BroadcastMode string

const (
	BroadcastModeSync  BroadcastMode = "sync"
	BroadcastModeAsync BroadcastMode = "async"
)

// Account is the signer state needed to build a sign document.
type Account struct {
	// AccountNumber is the unique identifier for the account on the chain.
	AccountNumber uint64

	// Sequence is the transaction sequence number (nonce).
	Sequence uint64
}

// AccountRecord is the account as returned by the chain, before its shape is resolved.
// Plain accounts carry the fields directly; wrapped accounts (Ethermint EthAccount,
// module accounts) nest them under base_account.
type AccountRecord struct {
	Type          string       `json:"@type"`
	Address       string       `json:"address,omitempty"`
	AccountNumber *string      `json:"account_number,omitempty"`
	Sequence      *string      `json:"sequence,omitempty"`
	BaseAccount   *BaseAccount `json:"base_account,omitempty"`
	PubKey        *AccountKey  `json:"pub_key,omitempty"`
}

// BaseAccount is the nested account payload of wrapped account types.
type BaseAccount struct {
	Address       string      `json:"address"`
	AccountNumber string      `json:"account_number"`
	Sequence      string      `json:"sequence"`
	PubKey        *AccountKey `json:"pub_key,omitempty"`
}

// AccountKey is a public key as rendered by the REST API.
type AccountKey struct {
	Type string `json:"@type"`
	Key  string `json:"key"`
}

// AccountSource fetches on-chain account state.
type AccountSource interface {
	GetAccount(ctx context.Context, address string) (*AccountRecord, error)
}

// SignDoc is the document a direct-mode signature is computed over.
// ChainID and AccountNumber are strings because signer interfaces are string-typed.
type SignDoc struct {
	BodyBytes     []byte `json:"bodyBytes"`
	AuthInfoBytes []byte `json:"authInfoBytes"`
	ChainID       string `json:"chainId"`
	AccountNumber string `json:"accountNumber"`
}

// SignResponse is returned by a Signer after the user approved a sign document.
type SignResponse struct {
	// Signed holds the body and auth info bytes the signature covers.
	// Signers may adjust them (for example the fee), so these are what gets broadcast.
	Signed SignDoc `json:"signed"`

	// Signature is the base64-encoded signature.
	Signature string `json:"signature"`
}

// Signer is the external signing capability. RequestSignature may block until a human
// approves or rejects; cancellation is only through ctx.
type Signer interface {
	GetPublicKey(ctx context.Context, chainID string) ([]byte, error)
	RequestSignature(ctx context.Context, chainID, address string, doc SignDoc) (*SignResponse, error)
}

// Wallet is a connected signer with a known address and broadcast kind.
type Wallet interface {
	Signer

	// Address returns the bech32 account address of the signer.
	Address(ctx context.Context) (string, error)

	// Kind selects the broadcast transport.
	Kind() WalletKind
}

// RawSender is implemented by native wallets that broadcast raw transaction bytes themselves.
type RawSender interface {
	SendRaw(ctx context.Context, chainID string, txBytes []byte, mode BroadcastMode) ([]byte, error)
}

// BroadcastTransport submits raw transaction bytes and returns the uppercase hex tx hash.
type BroadcastTransport interface {
	Broadcast(ctx context.Context, txBytes []byte) (string, error)
}

// TxResult is the outcome of a successful staking operation.
type TxResult struct {
	Success bool   `json:"success"`
	TxHash  string `json:"txHash"`
}
