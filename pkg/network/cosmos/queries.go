// pkg/network/cosmos/queries.go
package cosmos

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	sdkmath "cosmossdk.io/math"
	"golang.org/x/sync/errgroup"
)

// DecCoin is a coin with a decimal amount, as reported for rewards.
type DecCoin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Delegation is one delegation of a delegator.
type Delegation struct {
	Delegation struct {
		DelegatorAddress string `json:"delegator_address"`
		ValidatorAddress string `json:"validator_address"`
		Shares           string `json:"shares"`
	} `json:"delegation"`
	Balance Coin `json:"balance"`
}

// ValidatorReward is the pending reward from one validator.
type ValidatorReward struct {
	ValidatorAddress string    `json:"validator_address"`
	Reward           []DecCoin `json:"reward"`
}

// Rewards is the delegator's pending rewards.
type Rewards struct {
	Rewards []ValidatorReward `json:"rewards"`
	Total   []DecCoin         `json:"total"`
}

// UnbondingEntry is a single unbonding entry. CreationHeight identifies it for cancellation.
type UnbondingEntry struct {
	CreationHeight string `json:"creation_height"`
	CompletionTime string `json:"completion_time"`
	InitialBalance string `json:"initial_balance"`
	Balance        string `json:"balance"`
}

// UnbondingDelegation groups the unbonding entries with one validator.
type UnbondingDelegation struct {
	DelegatorAddress string           `json:"delegator_address"`
	ValidatorAddress string           `json:"validator_address"`
	Entries          []UnbondingEntry `json:"entries"`
}

// Validator is a staking validator.
type Validator struct {
	OperatorAddress string `json:"operator_address"`
	Jailed          bool   `json:"jailed"`
	Status          string `json:"status"`
	Tokens          string `json:"tokens"`
	DelegatorShares string `json:"delegator_shares"`
	Description     struct {
		Moniker  string `json:"moniker"`
		Identity string `json:"identity"`
		Website  string `json:"website"`
		Details  string `json:"details"`
	} `json:"description"`
	Commission struct {
		CommissionRates struct {
			Rate          string `json:"rate"`
			MaxRate       string `json:"max_rate"`
			MaxChangeRate string `json:"max_change_rate"`
		} `json:"commission_rates"`
	} `json:"commission"`
	MinSelfDelegation string `json:"min_self_delegation"`
}

// StakingOverview joins balance, delegations, rewards and unbondings of a delegator.
// Totals are in base units of the stake denom.
type StakingOverview struct {
	Address              string                `json:"address"`
	Balance              string                `json:"balance"`
	TotalDelegated       string                `json:"totalDelegated"`
	TotalRewards         string                `json:"totalRewards"`
	TotalUnbonding       string                `json:"totalUnbonding"`
	Delegations          []Delegation          `json:"delegations"`
	Rewards              Rewards               `json:"rewards"`
	UnbondingDelegations []UnbondingDelegation `json:"unbondingDelegations"`
}

// GetBalance returns the stake denom balance of address; a missing denom is zero.
func (c *ChainClient) GetBalance(ctx context.Context, address string) (Coin, error) {
	var resp struct {
		Balances []Coin `json:"balances"`
	}
	if err := c.getJSON(ctx, "/cosmos/bank/v1beta1/balances/"+address, &resp); err != nil {
		return Coin{}, fmt.Errorf("failed to fetch balance: %w", err)
	}
	for _, b := range resp.Balances {
		if b.Denom == c.cfg.Denom {
			return b, nil
		}
	}
	return Coin{Denom: c.cfg.Denom, Amount: "0"}, nil
}

// GetDelegations returns all delegations of delegator.
func (c *ChainClient) GetDelegations(ctx context.Context, delegator string) ([]Delegation, error) {
	var resp struct {
		DelegationResponses []Delegation `json:"delegation_responses"`
	}
	if err := c.getJSON(ctx, "/cosmos/staking/v1beta1/delegations/"+delegator, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch delegations: %w", err)
	}
	return resp.DelegationResponses, nil
}

// GetRewards returns the pending rewards of delegator.
func (c *ChainClient) GetRewards(ctx context.Context, delegator string) (Rewards, error) {
	var resp Rewards
	path := fmt.Sprintf("/cosmos/distribution/v1beta1/delegators/%s/rewards", delegator)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return Rewards{}, fmt.Errorf("failed to fetch rewards: %w", err)
	}
	return resp, nil
}

// GetUnbondingDelegations returns the unbonding delegations of delegator.
func (c *ChainClient) GetUnbondingDelegations(ctx context.Context, delegator string) ([]UnbondingDelegation, error) {
	var resp struct {
		UnbondingResponses []UnbondingDelegation `json:"unbonding_responses"`
	}
	path := fmt.Sprintf("/cosmos/staking/v1beta1/delegators/%s/unbonding_delegations", delegator)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch unbonding delegations: %w", err)
	}
	return resp.UnbondingResponses, nil
}

// GetValidator returns a single validator by operator address.
func (c *ChainClient) GetValidator(ctx context.Context, operator string) (*Validator, error) {
	var resp struct {
		Validator Validator `json:"validator"`
	}
	if err := c.getJSON(ctx, "/cosmos/staking/v1beta1/validators/"+operator, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch validator: %w", err)
	}
	return &resp.Validator, nil
}

// GetValidators returns up to limit bonded validators sorted by tokens, largest first.
func (c *ChainClient) GetValidators(ctx context.Context, limit int) ([]Validator, error) {
	if limit <= 0 {
		limit = 100
	}
	q := url.Values{}
	q.Set("status", "BOND_STATUS_BONDED")
	q.Set("pagination.limit", fmt.Sprint(limit))

	var resp struct {
		Validators []Validator `json:"validators"`
	}
	if err := c.getJSON(ctx, "/cosmos/staking/v1beta1/validators?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch validators: %w", err)
	}

	validators := resp.Validators
	sort.SliceStable(validators, func(i, j int) bool {
		return tokensOf(validators[i]).GT(tokensOf(validators[j]))
	})
	return validators, nil
}

// StakingOverview fetches balance, delegations, rewards and unbondings concurrently.
// Any failing read fails the whole overview.
func (c *ChainClient) StakingOverview(ctx context.Context, address string) (*StakingOverview, error) {
	var (
		balance     Coin
		delegations []Delegation
		rewards     Rewards
		unbonding   []UnbondingDelegation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = c.GetBalance(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		delegations, err = c.GetDelegations(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		rewards, err = c.GetRewards(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		unbonding, err = c.GetUnbondingDelegations(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalRewards, err := c.totalRewards(rewards)
	if err != nil {
		return nil, err
	}

	return &StakingOverview{
		Address:              address,
		Balance:              balance.Amount,
		TotalDelegated:       totalDelegated(delegations).String(),
		TotalRewards:         totalRewards.String(),
		TotalUnbonding:       totalUnbonding(unbonding).String(),
		Delegations:          delegations,
		Rewards:              rewards,
		UnbondingDelegations: unbonding,
	}, nil
}

func totalDelegated(delegations []Delegation) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, d := range delegations {
		if v, ok := parseInt(d.Balance.Amount); ok {
			total = total.Add(v)
		}
	}
	return total
}

func totalUnbonding(unbonding []UnbondingDelegation) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, u := range unbonding {
		for _, e := range u.Entries {
			if v, ok := parseInt(e.Balance); ok {
				total = total.Add(v)
			}
		}
	}
	return total
}

// totalRewards floors the decimal stake denom reward total.
func (c *ChainClient) totalRewards(rewards Rewards) (sdkmath.Int, error) {
	for _, r := range rewards.Total {
		if r.Denom != c.cfg.Denom {
			continue
		}
		dec, err := sdkmath.LegacyNewDecFromStr(r.Amount)
		if err != nil {
			return sdkmath.Int{}, fmt.Errorf("invalid reward amount %q: %w", r.Amount, err)
		}
		return dec.TruncateInt(), nil
	}
	return sdkmath.ZeroInt(), nil
}

func tokensOf(v Validator) sdkmath.Int {
	if t, ok := parseInt(v.Tokens); ok {
		return t
	}
	return sdkmath.ZeroInt()
}
