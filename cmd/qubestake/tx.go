// cmd/qubestake/tx.go
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/qubestake/internal/interactive"
	"github.com/altuslabsxyz/qubestake/internal/journal"
	"github.com/altuslabsxyz/qubestake/pkg/network"
	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

// txFlags are shared by every transaction command.
type txFlags struct {
	memo      string
	validator string
	base      bool
	pick      bool
}

func (f *txFlags) register(cmd *cobra.Command, withValidator bool) {
	cmd.Flags().StringVar(&f.memo, "memo", "", "Transaction memo")
	if withValidator {
		cmd.Flags().StringVar(&f.validator, "validator", "", "Validator operator address (default: configured validator)")
		cmd.Flags().BoolVar(&f.pick, "pick", false, "Pick the validator from the bonded set interactively")
	}
}

// txRequest describes one staking operation submitted through submitTx.
type txRequest struct {
	txType  network.TxType
	gas     uint64
	memo    string
	fields  []interactive.SummaryField
	summary string
	run     func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error)
}

// txOutput is the JSON shape of a broadcast result.
type txOutput struct {
	TxType  network.TxType `json:"txType"`
	Success bool           `json:"success"`
	TxHash  string         `json:"txHash"`
	Fee     string         `json:"fee"`
	Gas     uint64         `json:"gas"`
}

// submitTx signs and broadcasts req, journals the attempt and prints the result.
func (a *app) submitTx(cmd *cobra.Command, req txRequest) error {
	if !a.flags.yes && !interactive.IsInteractive() {
		return fmt.Errorf("refusing to sign without confirmation: stdin is not a terminal (pass --yes)")
	}

	ctx := cmd.Context()
	if a.cfg.Timeouts.Signing > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeouts.Signing)
		defer cancel()
	}

	w, err := a.newWallet()
	if err != nil {
		return err
	}
	signer, err := w.signer.Address(ctx)
	if err != nil {
		return err
	}
	svc, err := a.stakingService(a.chainClient(), w)
	if err != nil {
		return err
	}
	fee, err := svc.ComputeFee(req.gas)
	if err != nil {
		return err
	}
	feeDisplay := a.displayCoin(fee.Amount[0])

	w.confirmer.Stage(interactive.TxSummary{
		Operation: string(req.txType),
		ChainID:   a.cfg.Chain.ChainID,
		Signer:    signer,
		Fields:    req.fields,
		Fee:       feeDisplay,
		Gas:       req.gas,
		Memo:      req.memo,
	})

	result, txErr := req.run(ctx, svc)

	rec := journal.Record{
		ChainID: a.cfg.Chain.ChainID,
		Signer:  signer,
		TxType:  string(req.txType),
		Summary: req.summary,
		Fee:     fee.Amount[0].String(),
		Gas:     req.gas,
		Memo:    req.memo,
	}
	if txErr != nil {
		if !interactive.IsCancellation(txErr) {
			rec.Error = txErr.Error()
			a.record(rec)
		}
		return txErr
	}
	rec.Success = result.Success
	rec.TxHash = result.TxHash
	a.record(rec)

	if a.out.IsJSONMode() {
		return a.out.JSON(txOutput{
			TxType:  req.txType,
			Success: result.Success,
			TxHash:  result.TxHash,
			Fee:     fee.Amount[0].String(),
			Gas:     req.gas,
		})
	}
	a.out.Success("Transaction broadcast")
	a.out.Field("Tx hash", result.TxHash)
	a.out.Field("Fee", feeDisplay)
	return nil
}

// pickValidator resolves the validator flag, prompting when --pick is set.
func (a *app) pickValidator(cmd *cobra.Command, f *txFlags) (string, error) {
	if !f.pick {
		return f.validator, nil
	}
	validators, err := a.chainClient().GetValidators(cmd.Context(), 0)
	if err != nil {
		return "", err
	}
	items := make([]interactive.ValidatorItem, 0, len(validators))
	for _, v := range validators {
		items = append(items, interactive.ValidatorItem{
			Moniker:    v.Description.Moniker,
			Operator:   v.OperatorAddress,
			Tokens:     a.displayAmount(v.Tokens),
			Commission: formatPercent(v.Commission.CommissionRates.Rate),
			Jailed:     v.Jailed,
		})
	}
	return interactive.SelectValidator(items)
}

func (a *app) validatorOrDefault(v string) string {
	if v == "" {
		return a.cfg.Validator.OperatorAddress
	}
	return v
}

func newDelegateCmd(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "delegate <amount>",
		Short: "Delegate stake to a validator",
		Long:  "Delegate stake to a validator. The amount is in display units (e.g. 1.5 for 1.5 TICS) unless --base is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := a.baseAmount(args[0], f.base)
			if err != nil {
				return err
			}
			validator, err := a.pickValidator(cmd, &f)
			if err != nil {
				return err
			}
			target := a.validatorOrDefault(validator)
			return a.submitTx(cmd, txRequest{
				txType: network.TxTypeStakingDelegate,
				gas:    a.cfg.Gas.Delegate,
				memo:   f.memo,
				fields: []interactive.SummaryField{
					{Label: "Validator", Value: target},
					{Label: "Amount", Value: a.displayAmount(amount)},
				},
				summary: fmt.Sprintf("delegate %s to %s", a.displayAmount(amount), target),
				run: func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error) {
					return svc.Delegate(ctx, validator, amount, f.memo)
				},
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&f.base, "base", false, "Amount is in base units")
	return cmd
}

func newUndelegateCmd(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "undelegate <amount>",
		Short: "Start unbonding stake from a validator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := a.baseAmount(args[0], f.base)
			if err != nil {
				return err
			}
			validator, err := a.pickValidator(cmd, &f)
			if err != nil {
				return err
			}
			target := a.validatorOrDefault(validator)
			return a.submitTx(cmd, txRequest{
				txType: network.TxTypeStakingUnbond,
				gas:    a.cfg.Gas.Undelegate,
				memo:   f.memo,
				fields: []interactive.SummaryField{
					{Label: "Validator", Value: target},
					{Label: "Amount", Value: a.displayAmount(amount)},
				},
				summary: fmt.Sprintf("undelegate %s from %s", a.displayAmount(amount), target),
				run: func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error) {
					return svc.Undelegate(ctx, validator, amount, f.memo)
				},
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&f.base, "base", false, "Amount is in base units")
	return cmd
}

func newRedelegateCmd(a *app) *cobra.Command {
	var (
		f        txFlags
		src, dst string
	)
	cmd := &cobra.Command{
		Use:   "redelegate <amount> --to <valoper>",
		Short: "Move stake from one validator to another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := a.baseAmount(args[0], f.base)
			if err != nil {
				return err
			}
			from := a.validatorOrDefault(src)
			return a.submitTx(cmd, txRequest{
				txType: network.TxTypeStakingRedelegate,
				gas:    a.cfg.Gas.Redelegate,
				memo:   f.memo,
				fields: []interactive.SummaryField{
					{Label: "From", Value: from},
					{Label: "To", Value: dst},
					{Label: "Amount", Value: a.displayAmount(amount)},
				},
				summary: fmt.Sprintf("redelegate %s from %s to %s", a.displayAmount(amount), from, dst),
				run: func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error) {
					return svc.Redelegate(ctx, src, dst, amount, f.memo)
				},
			})
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&f.base, "base", false, "Amount is in base units")
	cmd.Flags().StringVar(&src, "from", "", "Source validator (default: configured validator)")
	cmd.Flags().StringVar(&dst, "to", "", "Destination validator")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newClaimCmd(a *app) *cobra.Command {
	var f txFlags
	cmd := &cobra.Command{
		Use:   "claim [validator...]",
		Short: "Withdraw staking rewards",
		Long:  "Withdraw rewards from the given validators in one transaction, or from the configured validator when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := args
			if len(targets) == 0 {
				targets = []string{a.cfg.Validator.OperatorAddress}
			}
			fields := make([]interactive.SummaryField, 0, len(targets))
			for _, v := range targets {
				fields = append(fields, interactive.SummaryField{Label: "Validator", Value: v})
			}
			return a.submitTx(cmd, txRequest{
				txType:  network.TxTypeDistributionClaim,
				gas:     a.cfg.Gas.ClaimRewards * uint64(len(targets)),
				memo:    f.memo,
				fields:  fields,
				summary: "claim rewards from " + strings.Join(targets, ", "),
				run: func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error) {
					return svc.ClaimRewards(ctx, args, f.memo)
				},
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCancelUnbondingCmd(a *app) *cobra.Command {
	var (
		f      txFlags
		height int64
	)
	cmd := &cobra.Command{
		Use:   "cancel-unbonding <amount> --height <creation-height>",
		Short: "Return an unbonding entry to delegation",
		Long: `Cancel (part of) the unbonding entry created at the given height and return it to
delegation with the same validator. Entry heights are listed by the overview command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := a.baseAmount(args[0], f.base)
			if err != nil {
				return err
			}
			if height <= 0 {
				return fmt.Errorf("--height must be a positive block height")
			}
			if err := a.checkCancelUnbondingSupport(cmd.Context()); err != nil {
				return err
			}
			validator, err := a.pickValidator(cmd, &f)
			if err != nil {
				return err
			}
			target := a.validatorOrDefault(validator)
			return a.submitTx(cmd, txRequest{
				txType: network.TxTypeStakingCancelUnbonding,
				gas:    a.cfg.Gas.CancelUnbonding,
				memo:   f.memo,
				fields: []interactive.SummaryField{
					{Label: "Validator", Value: target},
					{Label: "Amount", Value: a.displayAmount(amount)},
					{Label: "Entry height", Value: strconv.FormatInt(height, 10)},
				},
				summary: fmt.Sprintf("cancel unbonding of %s from %s at height %d", a.displayAmount(amount), target, height),
				run: func(ctx context.Context, svc *cosmos.StakingService) (*network.TxResult, error) {
					return svc.CancelUnbonding(ctx, validator, amount, height, f.memo)
				},
			})
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&f.base, "base", false, "Amount is in base units")
	cmd.Flags().Int64Var(&height, "height", 0, "Creation height of the unbonding entry")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

// checkCancelUnbondingSupport fails when the node runs an SDK without
// MsgCancelUnbondingDelegation. An unreachable node info endpoint only warns.
func (a *app) checkCancelUnbondingSupport(ctx context.Context) error {
	info, err := a.chainClient().CheckChainID(ctx)
	if err != nil {
		if info != nil {
			return err
		}
		a.out.Warn("could not verify node version: %v", err)
		return nil
	}
	if !info.SupportsCancelUnbonding() {
		return fmt.Errorf("node runs cosmos-sdk %s, cancel-unbonding requires v0.46 or later", info.SDKVersion)
	}
	return nil
}
