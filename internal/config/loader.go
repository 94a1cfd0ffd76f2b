// internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "qubestake.toml"

// Environment variable names
const (
	EnvHome           = "QUBESTAKE_HOME"
	EnvChainID        = "QUBESTAKE_CHAIN_ID"
	EnvREST           = "QUBESTAKE_REST"
	EnvRPC            = "QUBESTAKE_RPC"
	EnvGasPrice       = "QUBESTAKE_GAS_PRICE"
	EnvValidator      = "QUBESTAKE_VALIDATOR"
	EnvWalletKind     = "QUBESTAKE_WALLET_KIND"
	EnvKeyType        = "QUBESTAKE_KEY_TYPE"
	EnvKeyFile        = "QUBESTAKE_KEY_FILE"
	EnvLogLevel       = "QUBESTAKE_LOG_LEVEL"
	EnvRequestTimeout = "QUBESTAKE_REQUEST_TIMEOUT"
	EnvJournal        = "QUBESTAKE_JOURNAL"

	// EnvPrivateKey carries a hex private key. It is read by the wallet setup
	// and never stored in Config.
	EnvPrivateKey = "QUBESTAKE_PRIVATE_KEY" //nolint:gosec // This is an env var name, not a credential
)

// Loader loads configuration from file, environment, and applies defaults.
type Loader struct {
	homeDir    string
	configPath string // explicit config path (empty = use default)
}

// NewLoader creates a new config loader.
// homeDir is the base directory (for finding qubestake.toml).
// configPath is an explicit config file path (empty = use homeDir/qubestake.toml).
func NewLoader(homeDir, configPath string) *Loader {
	return &Loader{
		homeDir:    homeDir,
		configPath: configPath,
	}
}

// HomeDir returns the resolved home directory.
func (l *Loader) HomeDir() string {
	if l.homeDir != "" {
		return l.homeDir
	}
	if v := os.Getenv(EnvHome); v != "" {
		return v
	}
	return DefaultHomeDir()
}

// Path returns the config file the loader reads.
func (l *Loader) Path() string {
	if l.configPath != "" {
		return l.configPath
	}
	return filepath.Join(l.HomeDir(), ConfigFileName)
}

// Load loads configuration with priority: defaults < file < env.
// Returns fully populated Config ready for use.
func (l *Loader) Load() (*Config, error) {
	cfg := defaultConfigFor(l.HomeDir())

	fileCfg, err := l.loadFile()
	if err != nil {
		return nil, err
	}
	if fileCfg != nil {
		if err := mergeFileConfig(cfg, fileCfg); err != nil {
			return nil, fmt.Errorf("invalid config in %s: %w", l.Path(), err)
		}
	}

	if err := applyEnvVars(cfg); err != nil {
		return nil, err
	}

	// The pubkey type follows the key type unless pinned in the file.
	if fileCfg == nil || fileCfg.Chain.PubKeyTypeURL == nil {
		if keyType, err := cosmos.ParseKeyType(cfg.Wallet.KeyType); err == nil {
			cfg.Chain.PubKeyTypeURL = keyType.PubKeyTypeURL()
		}
	}
	return cfg, nil
}

// loadFile loads and parses the config file.
// Returns nil if no config file exists (not an error).
func (l *Loader) loadFile() (*FileConfig, error) {
	configPath := l.Path()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No config file is OK
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg FileConfig
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("invalid TOML in %s: %w", configPath, err)
	}

	return &fileCfg, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setUint64(dst *uint64, src *uint64) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, name string) error {
	if src == nil {
		return nil
	}
	d, err := time.ParseDuration(*src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

// mergeFileConfig merges non-nil FileConfig values into Config.
func mergeFileConfig(cfg *Config, file *FileConfig) error {
	// Chain
	setString(&cfg.Chain.ChainID, file.Chain.ChainID)
	setString(&cfg.Chain.REST, file.Chain.REST)
	setString(&cfg.Chain.RPC, file.Chain.RPC)
	setString(&cfg.Chain.Denom, file.Chain.Denom)
	setString(&cfg.Chain.DisplayDenom, file.Chain.DisplayDenom)
	if file.Chain.Decimals != nil {
		cfg.Chain.Decimals = *file.Chain.Decimals
	}
	setString(&cfg.Chain.Bech32Prefix, file.Chain.Bech32Prefix)
	setString(&cfg.Chain.PubKeyTypeURL, file.Chain.PubKeyTypeURL)

	// Fees
	setString(&cfg.Fees.GasPriceLow, file.Fees.GasPriceLow)
	setString(&cfg.Fees.GasPriceAverage, file.Fees.GasPriceAverage)
	setString(&cfg.Fees.GasPriceHigh, file.Fees.GasPriceHigh)

	// Gas
	setUint64(&cfg.Gas.Delegate, file.Gas.Delegate)
	setUint64(&cfg.Gas.Undelegate, file.Gas.Undelegate)
	setUint64(&cfg.Gas.Redelegate, file.Gas.Redelegate)
	setUint64(&cfg.Gas.ClaimRewards, file.Gas.ClaimRewards)
	setUint64(&cfg.Gas.CancelUnbonding, file.Gas.CancelUnbonding)

	// Validator
	setString(&cfg.Validator.OperatorAddress, file.Validator.OperatorAddress)
	setString(&cfg.Validator.MinDelegation, file.Validator.MinDelegation)

	// Wallet
	setString(&cfg.Wallet.Kind, file.Wallet.Kind)
	setString(&cfg.Wallet.KeyType, file.Wallet.KeyType)
	setString(&cfg.Wallet.KeyFile, file.Wallet.KeyFile)

	// Log
	setString(&cfg.Log.Level, file.Log.Level)

	// Timeouts (parse duration strings)
	if err := setDuration(&cfg.Timeouts.Request, file.Timeouts.Request, "timeouts.request"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Timeouts.Signing, file.Timeouts.Signing, "timeouts.signing"); err != nil {
		return err
	}

	// Journal
	if file.Journal.Enabled != nil {
		cfg.Journal.Enabled = *file.Journal.Enabled
	}
	setString(&cfg.Journal.Dir, file.Journal.Dir)

	return nil
}

// applyEnvVars applies environment variable overrides to config.
func applyEnvVars(cfg *Config) error {
	if v := os.Getenv(EnvChainID); v != "" {
		cfg.Chain.ChainID = v
	}
	if v := os.Getenv(EnvREST); v != "" {
		cfg.Chain.REST = v
	}
	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Chain.RPC = v
	}
	if v := os.Getenv(EnvGasPrice); v != "" {
		cfg.Fees.GasPriceAverage = v
	}
	if v := os.Getenv(EnvValidator); v != "" {
		cfg.Validator.OperatorAddress = v
	}
	if v := os.Getenv(EnvWalletKind); v != "" {
		cfg.Wallet.Kind = v
	}
	if v := os.Getenv(EnvKeyType); v != "" {
		cfg.Wallet.KeyType = v
	}
	if v := os.Getenv(EnvKeyFile); v != "" {
		cfg.Wallet.KeyFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		cfg.Timeouts.Request = d
	}
	if v := os.Getenv(EnvJournal); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvJournal, err)
		}
		cfg.Journal.Enabled = enabled
	}
	return nil
}
