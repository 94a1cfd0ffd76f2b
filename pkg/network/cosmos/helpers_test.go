// pkg/network/cosmos/helpers_test.go
package cosmos

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

const (
	testDelegator  = "qubetics1qyqszqgpqyqszqgpqyqszqgpqyqszqgpsmaypt"
	testValidator  = "qubeticsvaloper1qyqszqgpqyqszqgpqyqszqgpqyqszqgpnetjv0"
	testValidator2 = "qubeticsvaloper1qgpqyqszqgpqyqszqgpqyqszqgpqyqszzadh8e"
	testValidator3 = "qubeticsvaloper1qvpsxqcrqvpsxqcrqvpsxqcrqvpsxqcrrdvkdc"
)

// testChainConfig returns the default config pointed at endpoint.
func testChainConfig(endpoint string) ChainConfig {
	cfg := DefaultChainConfig()
	cfg.RESTEndpoint = endpoint
	cfg.RPCEndpoint = endpoint
	cfg.Validator.OperatorAddress = testValidator
	return cfg
}

// fakeAccounts is an in-memory network.AccountSource.
type fakeAccounts struct {
	record *network.AccountRecord
	err    error
	calls  int
}

func (f *fakeAccounts) GetAccount(_ context.Context, _ string) (*network.AccountRecord, error) {
	f.calls++
	return f.record, f.err
}

func strPtr(s string) *string { return &s }

// ethAccount returns an EthAccount style record with nested base_account.
func ethAccount(accountNumber, sequence string) *network.AccountRecord {
	return &network.AccountRecord{
		Type: "/ethermint.types.v1.EthAccount",
		BaseAccount: &network.BaseAccount{
			Address:       testDelegator,
			AccountNumber: accountNumber,
			Sequence:      sequence,
		},
	}
}

// fakeWallet is a scripted network.Wallet.
type fakeWallet struct {
	address string
	kind    network.WalletKind
	pubKey  []byte

	signature string
	signErr   error
	// mutate lets a test change the signed doc the wallet hands back.
	mutate func(doc network.SignDoc) network.SignDoc

	lastDoc *network.SignDoc
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		address:   testDelegator,
		kind:      network.WalletKindREST,
		pubKey:    make([]byte, 33),
		signature: base64.StdEncoding.EncodeToString([]byte("signature-bytes")),
	}
}

func (w *fakeWallet) Address(_ context.Context) (string, error) {
	if w.address == "" {
		return "", errors.New("wallet not connected")
	}
	return w.address, nil
}

func (w *fakeWallet) Kind() network.WalletKind { return w.kind }

func (w *fakeWallet) GetPublicKey(_ context.Context, _ string) ([]byte, error) {
	return w.pubKey, nil
}

func (w *fakeWallet) RequestSignature(_ context.Context, _, _ string, doc network.SignDoc) (*network.SignResponse, error) {
	w.lastDoc = &doc
	if w.signErr != nil {
		return nil, w.signErr
	}
	signed := doc
	if w.mutate != nil {
		signed = w.mutate(doc)
	}
	return &network.SignResponse{Signed: signed, Signature: w.signature}, nil
}

// nativeWallet adds a RawSender to fakeWallet.
type nativeWallet struct {
	*fakeWallet
	hash    []byte
	sendErr error
	sent    []byte
	mode    network.BroadcastMode
}

func (w *nativeWallet) SendRaw(_ context.Context, _ string, txBytes []byte, mode network.BroadcastMode) ([]byte, error) {
	w.sent = txBytes
	w.mode = mode
	return w.hash, w.sendErr
}

// fakeTransport records broadcast bytes.
type fakeTransport struct {
	hash  string
	err   error
	sent  []byte
	calls int
}

func (f *fakeTransport) Broadcast(_ context.Context, txBytes []byte) (string, error) {
	f.calls++
	f.sent = txBytes
	return f.hash, f.err
}
