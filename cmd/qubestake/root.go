// cmd/qubestake/root.go
package main

import (
	"fmt"
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/qubestake/internal/config"
	"github.com/altuslabsxyz/qubestake/internal/output"
	"github.com/altuslabsxyz/qubestake/internal/version"
	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
)

// rootFlags holds the persistent CLI overrides.
type rootFlags struct {
	configPath string
	home       string
	rest       string
	rpc        string
	logLevel   string
	walletKind string
	keyType    string
	keyFile    string
	output     string
	noColor    bool
	verbose    bool
	yes        bool
}

// app is the state shared by all commands of one invocation.
type app struct {
	flags      rootFlags
	cfg        *config.Config
	configPath string
	out        *output.Logger
	logger     log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.NewNopLogger()}

	rootCmd := &cobra.Command{
		Use:   "qubestake",
		Short: "Stake on Qubetics from the command line",
		Long: `qubestake builds, signs and broadcasts staking transactions for the Qubetics chain:
delegate, undelegate, redelegate, claim rewards and cancel unbonding.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	defaults := config.DefaultConfig()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Config file path (default: ~/.qubestake/qubestake.toml)")
	pf.StringVar(&a.flags.home, "home", "", fmt.Sprintf("Home directory (default: %s)", config.DefaultHomeDir()))
	pf.StringVar(&a.flags.rest, "rest", "", fmt.Sprintf("REST endpoint (default: %s)", defaults.Chain.REST))
	pf.StringVar(&a.flags.rpc, "rpc", "", fmt.Sprintf("CometBFT RPC endpoint (default: %s)", defaults.Chain.RPC))
	pf.StringVar(&a.flags.logLevel, "log-level", "", fmt.Sprintf("Log level: debug, info, warn, error (default: %s)", defaults.Log.Level))
	pf.StringVar(&a.flags.walletKind, "wallet-kind", "", "Broadcast path: rest or native (default: rest)")
	pf.StringVar(&a.flags.keyType, "key-type", "", "Key type: eth_secp256k1 or secp256k1 (default: eth_secp256k1)")
	pf.StringVar(&a.flags.keyFile, "key-file", "", "File containing the hex private key")
	pf.StringVarP(&a.flags.output, "output", "o", outputText, "Output format: text or json")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Verbose output")
	pf.BoolVarP(&a.flags.yes, "yes", "y", false, "Sign without asking for confirmation")

	rootCmd.AddCommand(
		newDelegateCmd(a),
		newUndelegateCmd(a),
		newRedelegateCmd(a),
		newClaimCmd(a),
		newCancelUnbondingCmd(a),
		newOverviewCmd(a),
		newAccountCmd(a),
		newValidatorsCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
		version.NewCmd("qubestake", func() string {
			if a.cfg == nil {
				return ""
			}
			return a.cfg.Chain.ChainID
		}),
	)

	return rootCmd
}

// setup loads the configuration and builds the output and structured loggers.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.flags.output {
	case outputText, outputJSON:
	default:
		return fmt.Errorf("invalid output format %q (must be one of: %s, %s)", a.flags.output, outputText, outputJSON)
	}

	a.out = output.NewLoggerWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
	a.out.SetNoColor(a.flags.noColor)
	a.out.SetVerbose(a.flags.verbose)
	a.out.SetJSONMode(a.flags.output == outputJSON)

	// Load config: defaults < file < env
	loader := config.NewLoader(a.flags.home, a.flags.configPath)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI flag overrides (highest priority)
	if err := a.applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = loader.Path()

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, a.flags.noColor)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// applyFlagOverrides applies CLI flags to config (highest priority).
func (a *app) applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("rest") {
		cfg.Chain.REST = a.flags.rest
	}
	if flags.Changed("rpc") {
		cfg.Chain.RPC = a.flags.rpc
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if a.flags.verbose && !flags.Changed("log-level") {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("wallet-kind") {
		cfg.Wallet.Kind = a.flags.walletKind
	}
	if flags.Changed("key-type") {
		keyType, err := cosmos.ParseKeyType(a.flags.keyType)
		if err != nil {
			return err
		}
		cfg.Wallet.KeyType = string(keyType)
		cfg.Chain.PubKeyTypeURL = keyType.PubKeyTypeURL()
	}
	if flags.Changed("key-file") {
		cfg.Wallet.KeyFile = a.flags.keyFile
	}
	return nil
}

// newLogger creates the structured logger for pipeline components.
func newLogger(w io.Writer, level string, noColor bool) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewLogger(w, log.LevelOption(lvl), log.ColorOption(!noColor)), nil
}
