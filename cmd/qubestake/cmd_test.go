// cmd/qubestake/cmd_test.go
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/qubestake/internal/journal"
)

const testPrivateKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// chainMock serves the REST endpoints the CLI talks to.
type chainMock struct {
	t          *testing.T
	server     *httptest.Server
	sdkVersion string
	txCode     int

	mu  sync.Mutex
	txs [][]byte
}

func newChainMock(t *testing.T) *chainMock {
	m := &chainMock{t: t, sdkVersion: "v0.50.13"}

	mux := http.NewServeMux()
	mux.HandleFunc("/cosmos/auth/v1beta1/accounts/", func(w http.ResponseWriter, r *http.Request) {
		addr := strings.TrimPrefix(r.URL.Path, "/cosmos/auth/v1beta1/accounts/")
		w.Write([]byte(`{"account": {"@type": "/ethermint.types.v1.EthAccount", "base_account": {
			"address": "` + addr + `", "account_number": "7", "sequence": "2"}}}`))
	})
	mux.HandleFunc("/cosmos/tx/v1beta1/txs", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TxBytes string `json:"tx_bytes"`
			Mode    string `json:"mode"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "BROADCAST_MODE_SYNC", req.Mode)
		raw, err := base64.StdEncoding.DecodeString(req.TxBytes)
		require.NoError(t, err)

		m.mu.Lock()
		m.txs = append(m.txs, raw)
		m.mu.Unlock()

		if m.txCode != 0 {
			w.Write([]byte(`{"tx_response": {"code": 5, "codespace": "sdk", "raw_log": "insufficient funds", "txhash": "DEAD"}}`))
			return
		}
		w.Write([]byte(`{"tx_response": {"code": 0, "txhash": "c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00"}}`))
	})
	mux.HandleFunc("/cosmos/base/tendermint/v1beta1/node_info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"default_node_info": {"network": "qubetics_9030-1"},
			"application_version": {"cosmos_sdk_version": "` + m.sdkVersion + `"}}`))
	})
	mux.HandleFunc("/cosmos/bank/v1beta1/balances/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances": [{"denom": "tics", "amount": "2500000000000000000"}]}`))
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/delegations/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"delegation_responses": [{"delegation": {"validator_address": "qubeticsvaloper1tzk9f84cv2gmk3du3m9dpxcuph70sfj6uf6kld"},
			"balance": {"denom": "tics", "amount": "1000000000000000000"}}]}`))
	})
	mux.HandleFunc("/cosmos/distribution/v1beta1/delegators/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/rewards") {
			w.Write([]byte(`{"rewards": [], "total": [{"denom": "tics", "amount": "500000000000000000.5"}]}`))
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/delegators/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unbonding_responses": []}`))
	})
	mux.HandleFunc("/cosmos/staking/v1beta1/validators", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"validators": [
			{"operator_address": "qubeticsvaloper1qyqszqgpqyqszqgpqyqszqgpqyqszqgpnetjv0", "tokens": "10", "description": {"moniker": "small"},
			 "commission": {"commission_rates": {"rate": "0.100000000000000000"}}},
			{"operator_address": "qubeticsvaloper1tzk9f84cv2gmk3du3m9dpxcuph70sfj6uf6kld", "tokens": "3000000000000000000000", "description": {"moniker": "big"},
			 "commission": {"commission_rates": {"rate": "0.050000000000000000"}}}
		]}`))
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *chainMock) lastBody() txtypes.TxBody {
	m.t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(m.t, m.txs)

	var raw txtypes.TxRaw
	require.NoError(m.t, raw.Unmarshal(m.txs[len(m.txs)-1]))
	var body txtypes.TxBody
	require.NoError(m.t, body.Unmarshal(raw.BodyBytes))
	return body
}

// cliEnv is an isolated home directory with a key file.
type cliEnv struct {
	home    string
	keyFile string
	chain   *chainMock
}

func newCLIEnv(t *testing.T) *cliEnv {
	home := t.TempDir()
	keyFile := filepath.Join(home, "key.hex")
	require.NoError(t, os.WriteFile(keyFile, []byte(testPrivateKeyHex+"\n"), 0o600))
	return &cliEnv{home: home, keyFile: keyFile, chain: newChainMock(t)}
}

func (e *cliEnv) execute(args ...string) (string, string, error) {
	base := []string{"--home", e.home, "--rest", e.chain.server.URL, "--key-file", e.keyFile, "--no-color"}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDelegateCommand(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("--yes", "-o", "json", "delegate", "1.5", "--memo", "stake")
	require.NoError(t, err)

	var result txOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.True(t, result.Success)
	require.Equal(t, "C0FFEE00C0FFEE00C0FFEE00C0FFEE00C0FFEE00C0FFEE00C0FFEE00C0FFEE00", result.TxHash)
	require.Equal(t, uint64(250000), result.Gas)
	require.Equal(t, "6250000000000000tics", result.Fee)

	body := env.chain.lastBody()
	require.Equal(t, "stake", body.Memo)
	require.Len(t, body.Messages, 1)
	require.Equal(t, "/cosmos.staking.v1beta1.MsgDelegate", body.Messages[0].TypeUrl)

	// The attempt is journaled.
	stdout, _, err = env.execute("-o", "json", "history")
	require.NoError(t, err)
	var records []journal.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	require.Equal(t, "staking/delegate", records[0].TxType)
	require.Equal(t, result.TxHash, records[0].TxHash)
}

func TestDelegateCommand_TextOutput(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("--yes", "delegate", "1000000000000000000", "--base")
	require.NoError(t, err)
	require.Contains(t, stdout, "✓ Transaction broadcast")
	require.Contains(t, stdout, "C0FFEE00")
	require.Contains(t, stdout, "0.00625 TICS")
}

func TestDelegateCommand_Rejected(t *testing.T) {
	env := newCLIEnv(t)
	env.chain.txCode = 5

	_, _, err := env.execute("--yes", "delegate", "1")
	require.Error(t, err)
	require.Contains(t, describeError(err), `codespace "sdk" code 5`)

	stdout, _, err := env.execute("-o", "json", "history")
	require.NoError(t, err)
	var records []journal.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	require.False(t, records[0].Success)
	require.Contains(t, records[0].Error, "insufficient funds")
}

func TestDelegateCommand_InvalidAmount(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("--yes", "delegate", "1.5.5")
	require.Error(t, err)
	require.Empty(t, env.chain.txs)
}

func TestClaimCommand_MultipleValidators(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("--yes", "-o", "json", "claim",
		"qubeticsvaloper1qyqszqgpqyqszqgpqyqszqgpqyqszqgpnetjv0",
		"qubeticsvaloper1qgpqyqszqgpqyqszqgpqyqszqgpqyqszzadh8e")
	require.NoError(t, err)

	var result txOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Equal(t, uint64(400000), result.Gas)

	body := env.chain.lastBody()
	require.Len(t, body.Messages, 2)
	require.Equal(t, "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward", body.Messages[1].TypeUrl)
}

func TestRedelegateCommand(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("--yes", "redelegate", "2", "--to", "qubeticsvaloper1qvpsxqcrqvpsxqcrqvpsxqcrqvpsxqcrrdvkdc")
	require.NoError(t, err)
	require.Equal(t, "/cosmos.staking.v1beta1.MsgBeginRedelegate", env.chain.lastBody().Messages[0].TypeUrl)
}

func TestCancelUnbondingCommand(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("--yes", "cancel-unbonding", "1", "--height", "12345")
	require.NoError(t, err)
	require.Equal(t, "/cosmos.staking.v1beta1.MsgCancelUnbondingDelegation", env.chain.lastBody().Messages[0].TypeUrl)
}

func TestCancelUnbondingCommand_OldSDK(t *testing.T) {
	env := newCLIEnv(t)
	env.chain.sdkVersion = "v0.45.16"

	_, _, err := env.execute("--yes", "cancel-unbonding", "1", "--height", "12345")
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires v0.46")
	require.Empty(t, env.chain.txs)
}

func TestOverviewCommand(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("overview", "qubetics1qyqszqgpqyqszqgpqyqszqgpqyqszqgpsmaypt")
	require.NoError(t, err)
	require.Contains(t, stdout, "Staking overview for qubetics1qyqszqgpqyqszqgpqyqszqgpqyqszqgpsmaypt")
	require.Contains(t, stdout, "2.5 TICS")
	require.Contains(t, stdout, "Pending rewards:")
	require.Contains(t, stdout, "0.5 TICS")
}

func TestAccountCommand_DefaultsToKeyAddress(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("-o", "json", "account")
	require.NoError(t, err)

	var info struct {
		Address       string `json:"address"`
		AccountNumber string `json:"accountNumber"`
		Sequence      string `json:"sequence"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	require.True(t, strings.HasPrefix(info.Address, "qubetics1"))
	require.Equal(t, "7", info.AccountNumber)
	require.Equal(t, "2", info.Sequence)
}

func TestValidatorsCommand(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("validators")
	require.NoError(t, err)
	require.Less(t, strings.Index(stdout, "big"), strings.Index(stdout, "small"))
	require.Contains(t, stdout, "3000 TICS")
	require.Contains(t, stdout, "5.00%")
}

func TestHistoryCommand_Empty(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := env.execute("history")
	require.NoError(t, err)
	require.Contains(t, stdout, "No transactions recorded.")
}

func TestConfigInitAndShow(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("config", "init")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(env.home, "qubestake.toml"))

	_, _, err = env.execute("config", "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	stdout, _, err := env.execute("config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "[chain]")
	require.Contains(t, stdout, env.chain.server.URL)
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("-o", "yaml", "history")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid output format")
}

func TestRootCommand_InvalidKeyType(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.execute("--key-type", "ed25519", "history")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported key type")
}
