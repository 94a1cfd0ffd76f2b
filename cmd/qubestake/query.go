// cmd/qubestake/query.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/qubestake/pkg/network/cosmos"
)

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview [address]",
		Short: "Show balance, delegations, rewards and unbonding entries",
		Long:  "Show the staking position of address, or of the configured key when no address is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.resolveAddress(cmd.Context(), optionalArg(args))
			if err != nil {
				return err
			}
			overview, err := a.chainClient().StakingOverview(cmd.Context(), address)
			if err != nil {
				return err
			}
			if a.out.IsJSONMode() {
				return a.out.JSON(overview)
			}
			a.printOverview(overview)
			return nil
		},
	}
}

func (a *app) printOverview(o *cosmos.StakingOverview) {
	a.out.Bold("Staking overview for %s", o.Address)
	a.out.Field("Balance", a.displayAmount(o.Balance))
	a.out.Field("Delegated", a.displayAmount(o.TotalDelegated))
	a.out.Field("Pending rewards", a.displayAmount(o.TotalRewards))
	a.out.Field("Unbonding", a.displayAmount(o.TotalUnbonding))

	if len(o.Delegations) > 0 {
		a.out.Println("")
		a.out.Bold("Delegations")
		for _, d := range o.Delegations {
			a.out.Field(d.Delegation.ValidatorAddress, a.displayCoin(d.Balance))
		}
	}

	if len(o.Rewards.Rewards) > 0 {
		a.out.Println("")
		a.out.Bold("Rewards")
		for _, r := range o.Rewards.Rewards {
			for _, c := range r.Reward {
				if c.Denom == a.cfg.Chain.Denom {
					a.out.Field(r.ValidatorAddress, a.displayDecAmount(c.Amount))
				}
			}
		}
	}

	if len(o.UnbondingDelegations) > 0 {
		a.out.Println("")
		a.out.Bold("Unbonding")
		for _, u := range o.UnbondingDelegations {
			for _, e := range u.Entries {
				a.out.Field(u.ValidatorAddress, fmt.Sprintf("%s (height %s, completes %s)",
					a.displayAmount(e.Balance), e.CreationHeight, e.CompletionTime))
			}
		}
	}
}

func newAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account [address]",
		Short: "Show the account number and sequence used for signing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := a.resolveAddress(cmd.Context(), optionalArg(args))
			if err != nil {
				return err
			}
			info, err := a.chainClient().QueryAccount(cmd.Context(), address)
			if err != nil {
				return err
			}
			if a.out.IsJSONMode() {
				return a.out.JSON(info)
			}
			a.out.Bold("Account %s", info.Address)
			a.out.Field("Type", info.Type)
			a.out.Field("Account number", info.AccountNumber)
			a.out.Field("Sequence", info.Sequence)
			if len(info.PubKey) > 0 {
				a.out.Field("Public key", fmt.Sprintf("%X", info.PubKey))
			} else {
				a.out.Field("Public key", "not yet on chain")
			}
			return nil
		},
	}
}

func newValidatorsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "validators",
		Short: "List bonded validators by voting power",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			validators, err := a.chainClient().GetValidators(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.out.IsJSONMode() {
				return a.out.JSON(validators)
			}
			for i, v := range validators {
				jailed := ""
				if v.Jailed {
					jailed = " (jailed)"
				}
				a.out.Println("%3d. %s%s", i+1, v.Description.Moniker, jailed)
				a.out.Field("Operator", v.OperatorAddress)
				a.out.Field("Tokens", a.displayAmount(v.Tokens))
				a.out.Field("Commission", formatPercent(v.Commission.CommissionRates.Rate))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of validators")
	return cmd
}
