// cmd/qubestake/wiring.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/altuslabsxyz/qubestake/internal/config"
	"github.com/altuslabsxyz/qubestake/internal/interactive"
	"github.com/altuslabsxyz/qubestake/internal/journal"
	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// wallet bundles the local signer with the confirmation gate in front of it.
type wallet struct {
	signer    *cosmos.LocalSigner
	confirmer *interactive.Confirmer
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.Timeouts.Request}
}

func (a *app) chainClient() *cosmos.ChainClient {
	return cosmos.NewChainClient(a.cfg.ChainConfig(), a.logger, cosmos.WithHTTPClient(a.httpClient()))
}

// loadPrivateKey reads the key from the key file, then the environment, then a hidden prompt.
func (a *app) loadPrivateKey() ([]byte, error) {
	if path := a.cfg.Wallet.KeyFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		return cosmos.ParsePrivateKeyHex(string(data))
	}
	if v := os.Getenv(config.EnvPrivateKey); v != "" {
		return cosmos.ParsePrivateKeyHex(v)
	}
	hexKey, err := interactive.PromptPrivateKey(a.out.ErrWriter())
	if err != nil {
		return nil, err
	}
	return cosmos.ParsePrivateKeyHex(hexKey)
}

// newWallet builds the signer. Native wallets broadcast through the CometBFT RPC.
func (a *app) newWallet() (*wallet, error) {
	keyType, err := cosmos.ParseKeyType(a.cfg.Wallet.KeyType)
	if err != nil {
		return nil, err
	}
	key, err := a.loadPrivateKey()
	if err != nil {
		return nil, err
	}

	chain := a.cfg.ChainConfig()
	confirmer := interactive.NewConfirmer(a.out.ErrWriter(), a.flags.yes)
	opts := []cosmos.LocalSignerOption{cosmos.WithConfirm(confirmer.Confirm)}
	if a.cfg.Wallet.Kind == config.WalletKindNative {
		opts = append(opts, cosmos.WithRawSender(cosmos.NewRPCSender(chain, a.httpClient(), a.logger)))
	}

	signer, err := cosmos.NewLocalSigner(chain, keyType, key, opts...)
	if err != nil {
		return nil, err
	}
	return &wallet{signer: signer, confirmer: confirmer}, nil
}

// stakingService wires the orchestrator and facade around w.
func (a *app) stakingService(client *cosmos.ChainClient, w *wallet) (*cosmos.StakingService, error) {
	chain := a.cfg.ChainConfig()
	orch := cosmos.NewOrchestrator(chain, client, client, a.logger,
		cosmos.WithStateObserver(func(attempt string, state cosmos.State) {
			a.out.Debug("attempt %s: %s", attempt, state)
		}),
	)
	return cosmos.NewStakingService(chain, w.signer, orch, a.logger)
}

// resolveAddress returns addr, or the address of the configured key when empty.
func (a *app) resolveAddress(ctx context.Context, addr string) (string, error) {
	if addr != "" {
		return addr, nil
	}
	w, err := a.newWallet()
	if err != nil {
		return "", fmt.Errorf("no address given and no key available: %w", err)
	}
	return w.signer.Address(ctx)
}

// record appends rec to the journal when enabled. Journal failures only warn.
func (a *app) record(rec journal.Record) {
	if !a.cfg.Journal.Enabled {
		return
	}
	j, err := journal.Open(a.cfg.Journal.Dir)
	if err != nil {
		a.out.Warn("journal unavailable: %v", err)
		return
	}
	defer j.Close()
	if err := j.Append(rec); err != nil {
		a.out.Warn("failed to journal transaction: %v", err)
	}
}
