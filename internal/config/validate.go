// internal/config/validate.go
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// ValidLogLevels are the allowed log level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration and returns an error if invalid.
func Validate(cfg *Config) error {
	var errs []string

	if !slices.Contains(ValidLogLevels, cfg.Log.Level) {
		errs = append(errs, fmt.Sprintf("invalid log level %q (must be one of: %s)",
			cfg.Log.Level, strings.Join(ValidLogLevels, ", ")))
	}

	switch cfg.Wallet.Kind {
	case WalletKindREST:
	case WalletKindNative:
		if cfg.Chain.RPC == "" {
			errs = append(errs, "chain.rpc is required for native wallets")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid wallet kind %q (must be one of: %s, %s)",
			cfg.Wallet.Kind, WalletKindREST, WalletKindNative))
	}

	keyType, err := cosmos.ParseKeyType(cfg.Wallet.KeyType)
	if err != nil {
		errs = append(errs, err.Error())
	} else if cfg.Chain.PubKeyTypeURL != keyType.PubKeyTypeURL() {
		errs = append(errs, fmt.Sprintf("pubkey_type_url %q does not match key type %s (expected %q)",
			cfg.Chain.PubKeyTypeURL, keyType, keyType.PubKeyTypeURL()))
	}

	if cfg.Timeouts.Request <= 0 {
		errs = append(errs, "request timeout must be positive")
	}
	if cfg.Timeouts.Signing < 0 {
		errs = append(errs, "signing timeout must be non-negative")
	}

	if cfg.Journal.Enabled && cfg.Journal.Dir == "" {
		errs = append(errs, "journal.dir is required when the journal is enabled")
	}

	if err := cfg.ChainConfig().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
