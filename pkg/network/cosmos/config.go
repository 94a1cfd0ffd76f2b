// pkg/network/cosmos/config.go
package cosmos

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Public key type URLs for the supported key algorithms.
const (
	PubKeyTypeEthSecp256k1 = "/ethermint.crypto.v1.ethsecp256k1.PubKey"
	PubKeyTypeSecp256k1    = "/cosmos.crypto.secp256k1.PubKey"
)

// ChainConfig holds the chain parameters used by every component.
// It is passed by value and never mutated after construction.
type ChainConfig struct {
	ChainID      string
	RESTEndpoint string
	RPCEndpoint  string

	// Denom is the base denomination used for stake and fees (e.g. "tics").
	Denom string
	// DisplayDenom is the human readable denomination (e.g. "TICS").
	DisplayDenom string
	// Decimals is the exponent between display and base units.
	Decimals uint32

	// Bech32Prefix is the account address prefix; validator operators use Prefix+"valoper".
	Bech32Prefix string

	// PubKeyTypeURL is the Any type URL the signer's public key is wrapped in.
	PubKeyTypeURL string

	GasPrice  GasPriceStep
	Gas       GasLimits
	Validator ValidatorConfig
}

// GasPriceStep holds decimal gas prices in base denom per gas unit.
type GasPriceStep struct {
	Low     string
	Average string
	High    string
}

// GasLimits holds the default gas limit per operation.
type GasLimits struct {
	Delegate        uint64
	Undelegate      uint64
	Redelegate      uint64
	CancelUnbonding uint64
	// ClaimRewards is the gas per validator; batched claims multiply it.
	ClaimRewards uint64
}

// ValidatorConfig identifies the validator operations default to.
type ValidatorConfig struct {
	OperatorAddress string
	// MinDelegation is the smallest delegation accepted, in base units.
	MinDelegation string
}

// DefaultChainConfig returns the Qubetics mainnet parameters.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		ChainID:       "qubetics_9030-1",
		RESTEndpoint:  "https://swagger.qubetics.com",
		RPCEndpoint:   "https://tendermint.qubetics.com:443",
		Denom:         "tics",
		DisplayDenom:  "TICS",
		Decimals:      18,
		Bech32Prefix:  "qubetics",
		PubKeyTypeURL: PubKeyTypeEthSecp256k1,
		GasPrice: GasPriceStep{
			Low:     "10000000000",
			Average: "25000000000",
			High:    "40000000000",
		},
		Gas: GasLimits{
			Delegate:        250000,
			Undelegate:      300000,
			Redelegate:      500000,
			CancelUnbonding: 250000,
			ClaimRewards:    200000,
		},
		Validator: ValidatorConfig{
			OperatorAddress: "qubeticsvaloper1tzk9f84cv2gmk3du3m9dpxcuph70sfj6uf6kld",
			MinDelegation:   "100000000000000000",
		},
	}
}

// ValidatorPrefix returns the bech32 prefix of validator operator addresses.
func (c ChainConfig) ValidatorPrefix() string {
	return c.Bech32Prefix + "valoper"
}

// AverageGasPrice parses the average gas price step.
func (c ChainConfig) AverageGasPrice() (sdkmath.LegacyDec, error) {
	price, err := sdkmath.LegacyNewDecFromStr(c.GasPrice.Average)
	if err != nil {
		return sdkmath.LegacyDec{}, fmt.Errorf("%w: average gas price %q: %w", ErrInvalidConfig, c.GasPrice.Average, err)
	}
	if price.IsNegative() {
		return sdkmath.LegacyDec{}, fmt.Errorf("%w: average gas price must be non-negative", ErrInvalidConfig)
	}
	return price, nil
}

// Validate checks that the configuration is usable by the pipeline.
func (c ChainConfig) Validate() error {
	var errs []string

	if c.ChainID == "" {
		errs = append(errs, "chain ID is required")
	}
	if c.RESTEndpoint == "" {
		errs = append(errs, "REST endpoint is required")
	}
	if c.Denom == "" {
		errs = append(errs, "denom is required")
	}
	if c.Bech32Prefix == "" {
		errs = append(errs, "bech32 prefix is required")
	}
	if c.PubKeyTypeURL == "" || !strings.HasPrefix(c.PubKeyTypeURL, "/") {
		errs = append(errs, fmt.Sprintf("pubkey type URL %q must start with '/'", c.PubKeyTypeURL))
	}
	if _, err := c.AverageGasPrice(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Gas.Delegate == 0 || c.Gas.Undelegate == 0 || c.Gas.Redelegate == 0 ||
		c.Gas.CancelUnbonding == 0 || c.Gas.ClaimRewards == 0 {
		errs = append(errs, "gas limits must be positive")
	}
	if c.Validator.MinDelegation != "" {
		if err := validateAmount(c.Validator.MinDelegation); err != nil {
			errs = append(errs, fmt.Sprintf("min delegation: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}
