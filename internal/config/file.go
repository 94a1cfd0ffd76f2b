// internal/config/file.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileConfig represents the raw qubestake.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	Chain     FileChainConfig     `toml:"chain"`
	Fees      FileFeesConfig      `toml:"fees"`
	Gas       FileGasConfig       `toml:"gas"`
	Validator FileValidatorConfig `toml:"validator"`
	Wallet    FileWalletConfig    `toml:"wallet"`
	Log       FileLogConfig       `toml:"log"`
	Timeouts  FileTimeoutConfig   `toml:"timeouts"`
	Journal   FileJournalConfig   `toml:"journal"`
}

// FileChainConfig is the TOML representation of ChainConfig.
type FileChainConfig struct {
	ChainID       *string `toml:"chain_id"`
	REST          *string `toml:"rest"`
	RPC           *string `toml:"rpc"`
	Denom         *string `toml:"denom"`
	DisplayDenom  *string `toml:"display_denom"`
	Decimals      *uint32 `toml:"decimals"`
	Bech32Prefix  *string `toml:"bech32_prefix"`
	PubKeyTypeURL *string `toml:"pubkey_type_url"`
}

// FileFeesConfig is the TOML representation of FeesConfig.
type FileFeesConfig struct {
	GasPriceLow     *string `toml:"gas_price_low"`
	GasPriceAverage *string `toml:"gas_price_average"`
	GasPriceHigh    *string `toml:"gas_price_high"`
}

// FileGasConfig is the TOML representation of GasConfig.
type FileGasConfig struct {
	Delegate        *uint64 `toml:"delegate"`
	Undelegate      *uint64 `toml:"undelegate"`
	Redelegate      *uint64 `toml:"redelegate"`
	ClaimRewards    *uint64 `toml:"claim_rewards"`
	CancelUnbonding *uint64 `toml:"cancel_unbonding"`
}

// FileValidatorConfig is the TOML representation of ValidatorConfig.
type FileValidatorConfig struct {
	OperatorAddress *string `toml:"operator_address"`
	MinDelegation   *string `toml:"min_delegation"`
}

// FileWalletConfig is the TOML representation of WalletConfig.
type FileWalletConfig struct {
	Kind    *string `toml:"kind"`
	KeyType *string `toml:"key_type"`
	KeyFile *string `toml:"key_file"`
}

// FileLogConfig is the TOML representation of LogConfig.
type FileLogConfig struct {
	Level *string `toml:"level"`
}

// FileTimeoutConfig is the TOML representation of TimeoutConfig.
// Uses strings for duration values since TOML cannot decode directly to time.Duration.
type FileTimeoutConfig struct {
	Request *string `toml:"request"`
	Signing *string `toml:"signing"`
}

// FileJournalConfig is the TOML representation of JournalConfig.
type FileJournalConfig struct {
	Enabled *bool   `toml:"enabled"`
	Dir     *string `toml:"dir"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Chain == (FileChainConfig{}) &&
		f.Fees == (FileFeesConfig{}) &&
		f.Gas == (FileGasConfig{}) &&
		f.Validator == (FileValidatorConfig{}) &&
		f.Wallet == (FileWalletConfig{}) &&
		f.Log == (FileLogConfig{}) &&
		f.Timeouts == (FileTimeoutConfig{}) &&
		f.Journal == (FileJournalConfig{})
}

// fileView is the TOML layout written by WriteFile. Durations are rendered as strings.
type fileView struct {
	Chain     ChainConfig     `toml:"chain"`
	Fees      FeesConfig      `toml:"fees"`
	Gas       GasConfig       `toml:"gas"`
	Validator ValidatorConfig `toml:"validator"`
	Wallet    WalletConfig    `toml:"wallet"`
	Log       LogConfig       `toml:"log"`
	Timeouts  struct {
		Request string `toml:"request"`
		Signing string `toml:"signing"`
	} `toml:"timeouts"`
	Journal JournalConfig `toml:"journal"`
}

// Marshal renders cfg as TOML in the same layout the loader reads.
func Marshal(cfg *Config) ([]byte, error) {
	view := fileView{
		Chain:     cfg.Chain,
		Fees:      cfg.Fees,
		Gas:       cfg.Gas,
		Validator: cfg.Validator,
		Wallet:    cfg.Wallet,
		Log:       cfg.Log,
		Journal:   cfg.Journal,
	}
	view.Timeouts.Request = cfg.Timeouts.Request.String()
	view.Timeouts.Signing = cfg.Timeouts.Signing.String()
	return toml.Marshal(view)
}

// WriteFile writes cfg to path, creating the parent directory.
func WriteFile(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
