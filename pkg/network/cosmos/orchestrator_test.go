// pkg/network/cosmos/orchestrator_test.go
package cosmos

import (
	"context"
	"errors"
	"testing"

	"cosmossdk.io/log"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

type stateRecorder struct {
	attempts map[string]bool
	states   []State
}

func (r *stateRecorder) observe(attempt string, state State) {
	if r.attempts == nil {
		r.attempts = map[string]bool{}
	}
	r.attempts[attempt] = true
	r.states = append(r.states, state)
}

func newTestOrchestrator(accounts network.AccountSource, rest network.BroadcastTransport, rec *stateRecorder) *Orchestrator {
	return NewOrchestrator(testChainConfig("http://localhost:1317"), accounts, rest, log.NewNopLogger(),
		WithStateObserver(rec.observe))
}

func TestSignAndBroadcast_REST(t *testing.T) {
	accounts := &fakeAccounts{record: ethAccount("42", "7")}
	rest := &fakeTransport{hash: "ABCDEF0123"}
	rec := &stateRecorder{}
	wallet := newFakeWallet()

	orch := newTestOrchestrator(accounts, rest, rec)
	result, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "hello")
	require.NoError(t, err)
	require.Equal(t, &network.TxResult{Success: true, TxHash: "ABCDEF0123"}, result)

	require.Equal(t, []State{StateAccountFetched, StateEncoded, StateSigned, StateBroadcast, StateSuccess}, rec.states)
	require.Len(t, rec.attempts, 1)
	require.Equal(t, 1, accounts.calls)

	// the sign doc carries the fetched account number as a string
	require.NotNil(t, wallet.lastDoc)
	require.Equal(t, "42", wallet.lastDoc.AccountNumber)
	require.Equal(t, "qubetics_9030-1", wallet.lastDoc.ChainID)

	var raw txtypes.TxRaw
	require.NoError(t, raw.Unmarshal(rest.sent))
	require.Equal(t, [][]byte{[]byte("signature-bytes")}, raw.Signatures)
	require.Equal(t, wallet.lastDoc.BodyBytes, raw.BodyBytes)

	var authInfo txtypes.AuthInfo
	require.NoError(t, authInfo.Unmarshal(raw.AuthInfoBytes))
	require.Equal(t, uint64(7), authInfo.SignerInfos[0].Sequence)
	require.Equal(t, PubKeyTypeEthSecp256k1, authInfo.SignerInfos[0].PublicKey.TypeUrl)

	var body txtypes.TxBody
	require.NoError(t, body.Unmarshal(raw.BodyBytes))
	require.Equal(t, "hello", body.Memo)
}

func TestSignAndBroadcast_UsesSignedBytes(t *testing.T) {
	rest := &fakeTransport{hash: "AA"}
	wallet := newFakeWallet()
	adjusted := EncodeAuthInfo(nil, 7, Fee{Amount: []Coin{{Denom: "tics", Amount: "9"}}, GasLimit: 300000})
	wallet.mutate = func(doc network.SignDoc) network.SignDoc {
		doc.AuthInfoBytes = adjusted
		return doc
	}

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "7")}, rest, &stateRecorder{})
	_, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
	require.NoError(t, err)

	var raw txtypes.TxRaw
	require.NoError(t, raw.Unmarshal(rest.sent))
	require.Equal(t, adjusted, raw.AuthInfoBytes)
}

func TestSignAndBroadcast_Native(t *testing.T) {
	rest := &fakeTransport{hash: "SHOULD-NOT-BE-USED"}
	wallet := &nativeWallet{fakeWallet: newFakeWallet(), hash: []byte{0xde, 0xad, 0xbe, 0xef}}
	wallet.kind = network.WalletKindNative

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, rest, &stateRecorder{})
	result, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
	require.NoError(t, err)
	require.Equal(t, "DEADBEEF", result.TxHash)
	require.Equal(t, 0, rest.calls)
	require.Equal(t, network.BroadcastModeSync, wallet.mode)
	require.NotEmpty(t, wallet.sent)
}

func TestSignAndBroadcast_NativeWithoutSender(t *testing.T) {
	wallet := newFakeWallet()
	wallet.kind = network.WalletKindNative

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, &fakeTransport{}, &stateRecorder{})
	_, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
	require.ErrorIs(t, err, ErrBroadcastTransportFailed)
}

func TestSignAndBroadcast_AccountLookupFailed(t *testing.T) {
	tests := []struct {
		name     string
		accounts *fakeAccounts
	}{
		{name: "source error", accounts: &fakeAccounts{err: errors.New("connection refused")}},
		{name: "neither shape", accounts: &fakeAccounts{record: &network.AccountRecord{Type: "/x.Unknown"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest := &fakeTransport{}
			wallet := newFakeWallet()
			rec := &stateRecorder{}

			orch := newTestOrchestrator(tt.accounts, rest, rec)
			result, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
			require.Nil(t, result)
			require.ErrorIs(t, err, ErrAccountLookupFailed)
			require.Equal(t, []State{StateFailed}, rec.states)
			require.Nil(t, wallet.lastDoc, "signer must not be asked")
			require.Equal(t, 0, rest.calls)
		})
	}
}

func TestSignAndBroadcast_SigningRejected(t *testing.T) {
	rest := &fakeTransport{}
	wallet := newFakeWallet()
	wallet.signErr = errors.New("Request rejected")
	rec := &stateRecorder{}

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, rest, rec)
	_, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
	require.ErrorIs(t, err, ErrSigningRejected)
	require.Contains(t, err.Error(), "Request rejected")
	require.Equal(t, []State{StateAccountFetched, StateEncoded, StateFailed}, rec.states)
	require.Equal(t, 0, rest.calls, "nothing is broadcast after a rejection")
}

func TestSignAndBroadcast_InvalidSignatureEncoding(t *testing.T) {
	wallet := newFakeWallet()
	wallet.signature = "not base64!"

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, &fakeTransport{}, &stateRecorder{})
	_, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{delegateMsg()}, testFee(), "")
	require.ErrorIs(t, err, ErrSigningRejected)
}

func TestSignAndBroadcast_UnsupportedMessage(t *testing.T) {
	wallet := newFakeWallet()
	rec := &stateRecorder{}

	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, &fakeTransport{}, rec)
	_, err := orch.SignAndBroadcast(context.Background(), wallet, []Message{{TypeURL: "/foo.Bar"}}, testFee(), "")
	require.ErrorIs(t, err, ErrUnsupportedMessageType)
	require.Nil(t, wallet.lastDoc)
	require.Equal(t, []State{StateAccountFetched, StateFailed}, rec.states)
}

func TestSignAndBroadcast_BroadcastErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "transport", err: &TransportError{StatusCode: 502, Body: "bad gateway"}, target: ErrBroadcastTransportFailed},
		{name: "rejected", err: &RejectedError{Code: 13, RawLog: "insufficient fee"}, target: ErrBroadcastRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stateRecorder{}
			orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, &fakeTransport{err: tt.err}, rec)

			_, err := orch.SignAndBroadcast(context.Background(), newFakeWallet(), []Message{delegateMsg()}, testFee(), "")
			require.ErrorIs(t, err, tt.target)
			require.Equal(t, StateFailed, rec.states[len(rec.states)-1])
			require.Equal(t, StateBroadcast, rec.states[len(rec.states)-2])
		})
	}
}

func TestSignAndBroadcast_AttemptIDsAreUnique(t *testing.T) {
	rec := &stateRecorder{}
	orch := newTestOrchestrator(&fakeAccounts{record: ethAccount("1", "0")}, &fakeTransport{hash: "AA"}, rec)

	for i := 0; i < 3; i++ {
		_, err := orch.SignAndBroadcast(context.Background(), newFakeWallet(), []Message{delegateMsg()}, testFee(), "")
		require.NoError(t, err)
	}
	require.Len(t, rec.attempts, 3)
}

func TestSignAndBroadcast_LocalSignerEndToEnd(t *testing.T) {
	// the real signer and the fake transport together produce a tx whose
	// signature verifies over the sign doc rebuilt from the broadcast bytes
	privKey := make([]byte, 32)
	privKey[31] = 7
	cfg := testChainConfig("http://localhost:1317")
	cfg.PubKeyTypeURL = PubKeyTypeSecp256k1
	signer, err := NewLocalSigner(cfg, KeyTypeSecp256k1, privKey)
	require.NoError(t, err)

	rest := &fakeTransport{hash: "BB"}
	orch := NewOrchestrator(cfg, &fakeAccounts{record: ethAccount("5", "2")}, rest, log.NewNopLogger())
	b := NewMsgBuilder(cfg)
	address, _ := signer.Address(context.Background())
	msg, err := b.WithdrawReward(address, testValidator)
	require.NoError(t, err)

	_, err = orch.SignAndBroadcast(context.Background(), signer, []Message{msg}, testFee(), "")
	require.NoError(t, err)

	body, authInfo, sigs, err := DecodeTxRaw(rest.sent)
	require.NoError(t, err)
	require.Len(t, sigs, 1)

	signBytes, err := EncodeSignDoc(network.SignDoc{BodyBytes: body, AuthInfoBytes: authInfo, ChainID: cfg.ChainID, AccountNumber: "5"})
	require.NoError(t, err)

	key, err := LoadPrivateKey(privKey)
	require.NoError(t, err)
	require.True(t, key.PubKey().VerifySignature(signBytes, sigs[0]))
}
