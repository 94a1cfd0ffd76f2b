// pkg/network/cosmos/staking.go
package cosmos

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// StakingService exposes the staking operations for one connected wallet.
type StakingService struct {
	cfg    ChainConfig
	wallet network.Wallet
	orch   *Orchestrator
	msgs   *MsgBuilder
	logger log.Logger
}

// NewStakingService creates a StakingService. The config is validated once here.
func NewStakingService(cfg ChainConfig, wallet network.Wallet, orch *Orchestrator, logger log.Logger) (*StakingService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet is required")
	}
	return &StakingService{
		cfg:    cfg,
		wallet: wallet,
		orch:   orch,
		msgs:   NewMsgBuilder(cfg),
		logger: logger.With(log.ModuleKey, "staking"),
	}, nil
}

// ComputeFee returns ceil(gas * average gas price) in the base denom.
func (s *StakingService) ComputeFee(gas uint64) (Fee, error) {
	price, err := s.cfg.AverageGasPrice()
	if err != nil {
		return Fee{}, err
	}
	amount := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(gas)).Mul(price).Ceil().TruncateInt()
	return Fee{
		Amount:   []Coin{{Denom: s.cfg.Denom, Amount: amount.String()}},
		GasLimit: gas,
	}, nil
}

// Delegate stakes amount (base units) with validator, or the configured
// validator when empty.
func (s *StakingService) Delegate(ctx context.Context, validator, amount, memo string) (*network.TxResult, error) {
	coin, err := s.stakeCoin(amount)
	if err != nil {
		return nil, err
	}
	if err := s.checkMinDelegation(coin); err != nil {
		return nil, err
	}
	delegator, err := s.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountLookupFailed, err)
	}

	msg, err := s.msgs.Delegate(delegator, s.validatorOrDefault(validator), coin)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, network.TxTypeStakingDelegate, []Message{msg}, s.cfg.Gas.Delegate, memo)
}

// Undelegate starts unbonding amount (base units) from validator.
func (s *StakingService) Undelegate(ctx context.Context, validator, amount, memo string) (*network.TxResult, error) {
	coin, err := s.stakeCoin(amount)
	if err != nil {
		return nil, err
	}
	delegator, err := s.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountLookupFailed, err)
	}

	msg, err := s.msgs.Undelegate(delegator, s.validatorOrDefault(validator), coin)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, network.TxTypeStakingUnbond, []Message{msg}, s.cfg.Gas.Undelegate, memo)
}

// Redelegate moves amount (base units) of stake from src to dst.
func (s *StakingService) Redelegate(ctx context.Context, src, dst, amount, memo string) (*network.TxResult, error) {
	coin, err := s.stakeCoin(amount)
	if err != nil {
		return nil, err
	}
	delegator, err := s.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountLookupFailed, err)
	}

	msg, err := s.msgs.Redelegate(delegator, s.validatorOrDefault(src), dst, coin)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, network.TxTypeStakingRedelegate, []Message{msg}, s.cfg.Gas.Redelegate, memo)
}

// ClaimRewards withdraws rewards from every validator in one transaction. With no
// validators the configured validator is used. Gas scales with the validator count.
func (s *StakingService) ClaimRewards(ctx context.Context, validators []string, memo string) (*network.TxResult, error) {
	if len(validators) == 0 {
		validators = []string{s.cfg.Validator.OperatorAddress}
	}
	delegator, err := s.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountLookupFailed, err)
	}

	msgs := make([]Message, 0, len(validators))
	for _, v := range validators {
		msg, err := s.msgs.WithdrawReward(delegator, v)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	gas := s.cfg.Gas.ClaimRewards * uint64(len(msgs))
	return s.submit(ctx, network.TxTypeDistributionClaim, msgs, gas, memo)
}

// CancelUnbonding returns amount (base units) of the unbonding entry created at
// creationHeight back to delegation with validator.
func (s *StakingService) CancelUnbonding(ctx context.Context, validator, amount string, creationHeight int64, memo string) (*network.TxResult, error) {
	coin, err := s.stakeCoin(amount)
	if err != nil {
		return nil, err
	}
	delegator, err := s.wallet.Address(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccountLookupFailed, err)
	}

	msg, err := s.msgs.CancelUnbonding(delegator, s.validatorOrDefault(validator), coin, creationHeight)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, network.TxTypeStakingCancelUnbonding, []Message{msg}, s.cfg.Gas.CancelUnbonding, memo)
}

func (s *StakingService) submit(ctx context.Context, txType network.TxType, msgs []Message, gas uint64, memo string) (*network.TxResult, error) {
	fee, err := s.ComputeFee(gas)
	if err != nil {
		return nil, err
	}
	s.logger.Info("submitting transaction",
		"tx_type", txType,
		"messages", len(msgs),
		"gas", gas,
		"fee", fee.Amount[0].String(),
	)
	return s.orch.SignAndBroadcast(ctx, s.wallet, msgs, fee, memo)
}

// stakeCoin normalizes a positive base unit amount into a coin of the stake denom.
func (s *StakingService) stakeCoin(amount string) (Coin, error) {
	coin, err := NewCoin(s.cfg.Denom, amount)
	if err != nil {
		return Coin{}, err
	}
	if coin.Amount == "0" {
		return Coin{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return coin, nil
}

func (s *StakingService) checkMinDelegation(coin Coin) error {
	if s.cfg.Validator.MinDelegation == "" {
		return nil
	}
	minAmount, ok := parseInt(s.cfg.Validator.MinDelegation)
	if !ok {
		return fmt.Errorf("%w: min delegation %q", ErrInvalidConfig, s.cfg.Validator.MinDelegation)
	}
	amount, _ := parseInt(coin.Amount)
	if amount.LT(minAmount) {
		return fmt.Errorf("%w: delegation of %s is below the minimum of %s", ErrInvalidAmount,
			coin.String(), minAmount.String()+s.cfg.Denom)
	}
	return nil
}

func (s *StakingService) validatorOrDefault(validator string) string {
	if validator == "" {
		return s.cfg.Validator.OperatorAddress
	}
	return validator
}
