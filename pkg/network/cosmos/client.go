// pkg/network/cosmos/client.go
package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"
)

// DefaultRequestTimeout bounds a single REST or RPC request.
const DefaultRequestTimeout = 30 * time.Second

// ChainClient reads chain state from the REST (gRPC gateway) endpoint.
type ChainClient struct {
	cfg    ChainConfig
	client *http.Client
	logger log.Logger
}

// ClientOption configures a ChainClient.
type ClientOption func(*ChainClient)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ChainClient) {
		c.client = client
	}
}

// NewChainClient creates a ChainClient for the REST endpoint in cfg.
func NewChainClient(cfg ChainConfig, logger log.Logger, opts ...ClientOption) *ChainClient {
	c := &ChainClient{
		cfg:    cfg,
		client: &http.Client{Timeout: DefaultRequestTimeout},
		logger: logger.With(log.ModuleKey, "chain-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the chain configuration the client was built with.
func (c *ChainClient) Config() ChainConfig {
	return c.cfg
}

// getJSON issues a GET against the REST endpoint and decodes the JSON body into out.
// A 404 maps to ErrNotFound and any other non-200 status to ErrQueryFailed.
func (c *ChainClient) getJSON(ctx context.Context, path string, out any) error {
	url := strings.TrimRight(c.cfg.RESTEndpoint, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrQueryFailed, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("rest query", "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrQueryFailed, resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", path, err)
	}
	return nil
}
