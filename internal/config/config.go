// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// Config is the single source of truth for qubestake configuration.
// Priority: defaults < config file < environment variables < CLI flags
type Config struct {
	Chain     ChainConfig     `toml:"chain"`
	Fees      FeesConfig      `toml:"fees"`
	Gas       GasConfig       `toml:"gas"`
	Validator ValidatorConfig `toml:"validator"`
	Wallet    WalletConfig    `toml:"wallet"`
	Log       LogConfig       `toml:"log"`
	Timeouts  TimeoutConfig   `toml:"timeouts"`
	Journal   JournalConfig   `toml:"journal"`
}

// ChainConfig holds the chain connection settings.
type ChainConfig struct {
	ChainID       string `toml:"chain_id"`
	REST          string `toml:"rest"`
	RPC           string `toml:"rpc"`
	Denom         string `toml:"denom"`
	DisplayDenom  string `toml:"display_denom"`
	Decimals      uint32 `toml:"decimals"`
	Bech32Prefix  string `toml:"bech32_prefix"`
	PubKeyTypeURL string `toml:"pubkey_type_url"`
}

// FeesConfig holds gas prices in base denom per gas unit.
type FeesConfig struct {
	GasPriceLow     string `toml:"gas_price_low"`
	GasPriceAverage string `toml:"gas_price_average"`
	GasPriceHigh    string `toml:"gas_price_high"`
}

// GasConfig holds gas limits per operation.
type GasConfig struct {
	Delegate        uint64 `toml:"delegate"`
	Undelegate      uint64 `toml:"undelegate"`
	Redelegate      uint64 `toml:"redelegate"`
	ClaimRewards    uint64 `toml:"claim_rewards"` // per validator
	CancelUnbonding uint64 `toml:"cancel_unbonding"`
}

// ValidatorConfig holds the default validator.
type ValidatorConfig struct {
	OperatorAddress string `toml:"operator_address"`
	MinDelegation   string `toml:"min_delegation"`
}

// WalletConfig selects how transactions are signed and broadcast.
type WalletConfig struct {
	Kind    string `toml:"kind"`     // "rest" or "native"
	KeyType string `toml:"key_type"` // "eth_secp256k1" or "secp256k1"
	KeyFile string `toml:"key_file"` // hex private key file, empty = prompt
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// TimeoutConfig holds various timeout settings.
type TimeoutConfig struct {
	// Request bounds a single REST or RPC request.
	Request time.Duration `toml:"request"`
	// Signing bounds one sign-and-broadcast attempt, confirmation included. Zero disables it.
	Signing time.Duration `toml:"signing"`
}

// JournalConfig holds broadcast journal settings.
type JournalConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultHomeDir returns the default home directory path.
func DefaultHomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qubestake")
}

// DefaultConfig returns configuration with the Qubetics mainnet defaults.
func DefaultConfig() *Config {
	return defaultConfigFor(DefaultHomeDir())
}

func defaultConfigFor(homeDir string) *Config {
	chain := cosmos.DefaultChainConfig()
	return &Config{
		Chain: ChainConfig{
			ChainID:       chain.ChainID,
			REST:          chain.RESTEndpoint,
			RPC:           chain.RPCEndpoint,
			Denom:         chain.Denom,
			DisplayDenom:  chain.DisplayDenom,
			Decimals:      chain.Decimals,
			Bech32Prefix:  chain.Bech32Prefix,
			PubKeyTypeURL: chain.PubKeyTypeURL,
		},
		Fees: FeesConfig{
			GasPriceLow:     chain.GasPrice.Low,
			GasPriceAverage: chain.GasPrice.Average,
			GasPriceHigh:    chain.GasPrice.High,
		},
		Gas: GasConfig{
			Delegate:        chain.Gas.Delegate,
			Undelegate:      chain.Gas.Undelegate,
			Redelegate:      chain.Gas.Redelegate,
			ClaimRewards:    chain.Gas.ClaimRewards,
			CancelUnbonding: chain.Gas.CancelUnbonding,
		},
		Validator: ValidatorConfig{
			OperatorAddress: chain.Validator.OperatorAddress,
			MinDelegation:   chain.Validator.MinDelegation,
		},
		Wallet: WalletConfig{
			Kind:    WalletKindREST,
			KeyType: string(cosmos.KeyTypeEthSecp256k1),
		},
		Log: LogConfig{
			Level: "warn",
		},
		Timeouts: TimeoutConfig{
			Request: cosmos.DefaultRequestTimeout,
			Signing: 2 * time.Minute,
		},
		Journal: JournalConfig{
			Enabled: true,
			Dir:     filepath.Join(homeDir, "journal"),
		},
	}
}

// Wallet kinds accepted in [wallet] kind.
const (
	WalletKindREST   = "rest"
	WalletKindNative = "native"
)

// ChainConfig converts the file-level settings into the immutable chain
// parameters consumed by the transaction pipeline.
func (c *Config) ChainConfig() cosmos.ChainConfig {
	return cosmos.ChainConfig{
		ChainID:       c.Chain.ChainID,
		RESTEndpoint:  c.Chain.REST,
		RPCEndpoint:   c.Chain.RPC,
		Denom:         c.Chain.Denom,
		DisplayDenom:  c.Chain.DisplayDenom,
		Decimals:      c.Chain.Decimals,
		Bech32Prefix:  c.Chain.Bech32Prefix,
		PubKeyTypeURL: c.Chain.PubKeyTypeURL,
		GasPrice: cosmos.GasPriceStep{
			Low:     c.Fees.GasPriceLow,
			Average: c.Fees.GasPriceAverage,
			High:    c.Fees.GasPriceHigh,
		},
		Gas: cosmos.GasLimits{
			Delegate:        c.Gas.Delegate,
			Undelegate:      c.Gas.Undelegate,
			Redelegate:      c.Gas.Redelegate,
			CancelUnbonding: c.Gas.CancelUnbonding,
			ClaimRewards:    c.Gas.ClaimRewards,
		},
		Validator: cosmos.ValidatorConfig{
			OperatorAddress: c.Validator.OperatorAddress,
			MinDelegation:   c.Validator.MinDelegation,
		},
	}
}
