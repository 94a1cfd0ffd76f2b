// pkg/network/cosmos/broadcast.go
package cosmos

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// restBroadcastModeSync is the gRPC gateway name of sync broadcast mode.
const restBroadcastModeSync = "BROADCAST_MODE_SYNC"

// restBroadcastRequest is the body of POST /cosmos/tx/v1beta1/txs.
type restBroadcastRequest struct {
	TxBytes string `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

// restBroadcastResponse is the REST broadcast response.
type restBroadcastResponse struct {
	TxResponse *struct {
		Height    string `json:"height"`
		TxHash    string `json:"txhash"`
		Codespace string `json:"codespace"`
		Code      uint32 `json:"code"`
		RawLog    string `json:"raw_log"`
	} `json:"tx_response"`
}

// Broadcast submits signed tx bytes through the REST endpoint in sync mode and
// returns the uppercase hex hash. It implements network.BroadcastTransport.
func (c *ChainClient) Broadcast(ctx context.Context, txBytes []byte) (string, error) {
	reqBody, err := json.Marshal(restBroadcastRequest{
		TxBytes: base64.StdEncoding.EncodeToString(txBytes),
		Mode:    restBroadcastModeSync,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal broadcast request: %w", err)
	}

	url := strings.TrimRight(c.cfg.RESTEndpoint, "/") + "/cosmos/tx/v1beta1/txs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastTransportFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrBroadcastTransportFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result restBroadcastResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to parse broadcast response: %w", ErrBroadcastTransportFailed, err)
	}
	if result.TxResponse == nil {
		return "", fmt.Errorf("%w: response has no tx_response", ErrBroadcastTransportFailed)
	}

	tr := result.TxResponse
	hash := normalizeHash(tr.TxHash)
	if tr.Code != 0 {
		return "", &RejectedError{Code: tr.Code, Codespace: tr.Codespace, RawLog: tr.RawLog, TxHash: hash}
	}
	return hash, nil
}

// BroadcastRequest is the JSON-RPC request for broadcast_tx_sync.
type BroadcastRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

// BroadcastResponse is the JSON-RPC response for broadcast.
type BroadcastResponse struct {
	Result *struct {
		Code      uint32 `json:"code"`
		Data      string `json:"data"`
		Log       string `json:"log"`
		Codespace string `json:"codespace"`
		Hash      string `json:"hash"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error,omitempty"`
}

// RPCSender broadcasts raw tx bytes through CometBFT JSON-RPC. It is the native
// sender of the local wallet.
type RPCSender struct {
	endpoint string
	chainID  string
	client   *http.Client
	logger   log.Logger
}

// NewRPCSender creates an RPCSender for the chain's RPC endpoint.
func NewRPCSender(cfg ChainConfig, client *http.Client, logger log.Logger) *RPCSender {
	if client == nil {
		client = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &RPCSender{
		endpoint: strings.TrimRight(cfg.RPCEndpoint, "/"),
		chainID:  cfg.ChainID,
		client:   client,
		logger:   logger.With(log.ModuleKey, "rpc-sender"),
	}
}

// SendRaw broadcasts txBytes and returns the tx hash bytes. It implements network.RawSender.
func (s *RPCSender) SendRaw(ctx context.Context, chainID string, txBytes []byte, mode network.BroadcastMode) ([]byte, error) {
	if chainID != s.chainID {
		return nil, fmt.Errorf("chain ID mismatch: sender is bound to %s, got %s", s.chainID, chainID)
	}

	method := "broadcast_tx_sync"
	switch mode {
	case network.BroadcastModeSync:
	case network.BroadcastModeAsync:
		method = "broadcast_tx_async"
	default:
		return nil, fmt.Errorf("unsupported broadcast mode: %s", mode)
	}

	reqBody := BroadcastRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params: map[string]string{
			"tx": base64.StdEncoding.EncodeToString(txBytes),
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBroadcastTransportFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrBroadcastTransportFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result BroadcastResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %w", ErrBroadcastTransportFailed, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: rpc error %d: %s %s", ErrBroadcastTransportFailed,
			result.Error.Code, result.Error.Message, result.Error.Data)
	}
	if result.Result == nil {
		return nil, fmt.Errorf("%w: response has no result", ErrBroadcastTransportFailed)
	}

	r := result.Result
	if r.Code != 0 {
		return nil, &RejectedError{Code: r.Code, Codespace: r.Codespace, RawLog: r.Log, TxHash: normalizeHash(r.Hash)}
	}

	hash, err := hex.DecodeString(r.Hash)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tx hash %q: %w", ErrBroadcastTransportFailed, r.Hash, err)
	}
	s.logger.Debug("raw tx sent", "method", method, "tx_hash", normalizeHash(r.Hash))
	return hash, nil
}

// NativeTransport adapts a wallet's RawSender to network.BroadcastTransport.
type NativeTransport struct {
	sender  network.RawSender
	chainID string
}

// NewNativeTransport creates a NativeTransport sending through sender in sync mode.
func NewNativeTransport(sender network.RawSender, chainID string) *NativeTransport {
	return &NativeTransport{sender: sender, chainID: chainID}
}

// Broadcast sends txBytes and hex encodes the returned hash bytes in uppercase.
func (t *NativeTransport) Broadcast(ctx context.Context, txBytes []byte) (string, error) {
	hash, err := t.sender.SendRaw(ctx, t.chainID, txBytes, network.BroadcastModeSync)
	if err != nil {
		if errors.Is(err, ErrBroadcastRejected) || errors.Is(err, ErrBroadcastTransportFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrBroadcastTransportFailed, err)
	}
	if len(hash) == 0 {
		return "", fmt.Errorf("%w: sender returned an empty hash", ErrBroadcastTransportFailed)
	}
	return strings.ToUpper(hex.EncodeToString(hash)), nil
}

// normalizeHash renders a hex hash in uppercase without a 0x prefix.
func normalizeHash(h string) string {
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	return strings.ToUpper(h)
}
