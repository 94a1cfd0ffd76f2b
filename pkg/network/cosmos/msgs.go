// pkg/network/cosmos/msgs.go
package cosmos

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// Type URLs of the supported staking messages.
const (
	TypeURLDelegate                = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeURLUndelegate              = "/cosmos.staking.v1beta1.MsgUndelegate"
	TypeURLBeginRedelegate         = "/cosmos.staking.v1beta1.MsgBeginRedelegate"
	TypeURLCancelUnbonding         = "/cosmos.staking.v1beta1.MsgCancelUnbondingDelegation"
	TypeURLWithdrawDelegatorReward = "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward"
)

// MessageValue is the typed payload of a Message. The set of implementations is closed.
type MessageValue interface {
	isMessageValue()
}

// DelegateValue is the payload of MsgDelegate.
type DelegateValue struct {
	DelegatorAddress string
	ValidatorAddress string
	Amount           Coin
}

// UndelegateValue is the payload of MsgUndelegate.
type UndelegateValue struct {
	DelegatorAddress string
	ValidatorAddress string
	Amount           Coin
}

// RedelegateValue is the payload of MsgBeginRedelegate.
type RedelegateValue struct {
	DelegatorAddress    string
	ValidatorSrcAddress string
	ValidatorDstAddress string
	Amount              Coin
}

// WithdrawRewardValue is the payload of MsgWithdrawDelegatorReward.
type WithdrawRewardValue struct {
	DelegatorAddress string
	ValidatorAddress string
}

// CancelUnbondingValue is the payload of MsgCancelUnbondingDelegation.
type CancelUnbondingValue struct {
	DelegatorAddress string
	ValidatorAddress string
	Amount           Coin
	// CreationHeight is the height at which the unbonding entry was created.
	CreationHeight int64
}

func (DelegateValue) isMessageValue()        {}
func (UndelegateValue) isMessageValue()      {}
func (RedelegateValue) isMessageValue()      {}
func (WithdrawRewardValue) isMessageValue()  {}
func (CancelUnbondingValue) isMessageValue() {}

// Message is a type URL paired with its typed payload.
type Message struct {
	TypeURL string
	Value   MessageValue
}

// EncodeMessageValue encodes the payload of m according to its type URL.
// Unknown type URLs and payloads of the wrong type are rejected without output.
func EncodeMessageValue(m Message) ([]byte, error) {
	switch m.TypeURL {
	case TypeURLDelegate:
		v, ok := m.Value.(DelegateValue)
		if !ok {
			return nil, valueMismatch(m)
		}
		return encodeDelegation(v.DelegatorAddress, v.ValidatorAddress, v.Amount), nil

	case TypeURLUndelegate:
		v, ok := m.Value.(UndelegateValue)
		if !ok {
			return nil, valueMismatch(m)
		}
		return encodeDelegation(v.DelegatorAddress, v.ValidatorAddress, v.Amount), nil

	case TypeURLBeginRedelegate:
		v, ok := m.Value.(RedelegateValue)
		if !ok {
			return nil, valueMismatch(m)
		}
		var b []byte
		b = appendString(b, 1, v.DelegatorAddress)
		b = appendString(b, 2, v.ValidatorSrcAddress)
		b = appendString(b, 3, v.ValidatorDstAddress)
		b = appendBytes(b, 4, EncodeCoin(v.Amount))
		return b, nil

	case TypeURLWithdrawDelegatorReward:
		v, ok := m.Value.(WithdrawRewardValue)
		if !ok {
			return nil, valueMismatch(m)
		}
		var b []byte
		b = appendString(b, 1, v.DelegatorAddress)
		b = appendString(b, 2, v.ValidatorAddress)
		return b, nil

	case TypeURLCancelUnbonding:
		v, ok := m.Value.(CancelUnbondingValue)
		if !ok {
			return nil, valueMismatch(m)
		}
		if v.CreationHeight < 0 {
			return nil, fmt.Errorf("creation height must be non-negative, got %d", v.CreationHeight)
		}
		b := encodeDelegation(v.DelegatorAddress, v.ValidatorAddress, v.Amount)
		b = appendVarint(b, 4, uint64(v.CreationHeight))
		return b, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMessageType, m.TypeURL)
	}
}

// encodeDelegation encodes the shared {1 delegator, 2 validator, 3 amount} layout.
func encodeDelegation(delegator, validator string, amount Coin) []byte {
	var b []byte
	b = appendString(b, 1, delegator)
	b = appendString(b, 2, validator)
	b = appendBytes(b, 3, EncodeCoin(amount))
	return b
}

func valueMismatch(m Message) error {
	return fmt.Errorf("%w: %s does not accept a %T value", ErrUnsupportedMessageType, m.TypeURL, m.Value)
}

// EncodeAny wraps an encoded message as google.protobuf.Any {1 type_url, 2 value}.
func EncodeAny(typeURL string, value []byte) []byte {
	var b []byte
	b = appendString(b, 1, typeURL)
	b = appendBytes(b, 2, value)
	return b
}

// DecodeAny splits an encoded Any into its type URL and value.
func DecodeAny(b []byte) (string, []byte, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode any: %w", err)
	}

	var typeURL string
	var value []byte
	for _, f := range fields {
		switch f.Num {
		case 1:
			typeURL = string(f.Bytes)
		case 2:
			value = f.Bytes
		}
	}
	if typeURL == "" {
		return "", nil, fmt.Errorf("failed to decode any: missing type url")
	}
	return typeURL, value, nil
}

// EncodeMessage encodes m and wraps it in an Any.
func EncodeMessage(m Message) ([]byte, error) {
	value, err := EncodeMessageValue(m)
	if err != nil {
		return nil, err
	}
	return EncodeAny(m.TypeURL, value), nil
}

// MsgBuilder constructs staking messages after validating addresses and amounts
// against the chain's bech32 prefixes.
type MsgBuilder struct {
	accountPrefix   string
	validatorPrefix string
}

// NewMsgBuilder creates a MsgBuilder for the chain.
func NewMsgBuilder(cfg ChainConfig) *MsgBuilder {
	return &MsgBuilder{
		accountPrefix:   cfg.Bech32Prefix,
		validatorPrefix: cfg.ValidatorPrefix(),
	}
}

// Delegate builds a MsgDelegate.
func (b *MsgBuilder) Delegate(delegator, validator string, amount Coin) (Message, error) {
	if err := b.check(delegator, validator, &amount); err != nil {
		return Message{}, err
	}
	return Message{
		TypeURL: TypeURLDelegate,
		Value:   DelegateValue{DelegatorAddress: delegator, ValidatorAddress: validator, Amount: amount},
	}, nil
}

// Undelegate builds a MsgUndelegate.
func (b *MsgBuilder) Undelegate(delegator, validator string, amount Coin) (Message, error) {
	if err := b.check(delegator, validator, &amount); err != nil {
		return Message{}, err
	}
	return Message{
		TypeURL: TypeURLUndelegate,
		Value:   UndelegateValue{DelegatorAddress: delegator, ValidatorAddress: validator, Amount: amount},
	}, nil
}

// Redelegate builds a MsgBeginRedelegate moving stake from src to dst.
func (b *MsgBuilder) Redelegate(delegator, src, dst string, amount Coin) (Message, error) {
	if err := b.check(delegator, src, &amount); err != nil {
		return Message{}, err
	}
	if err := b.checkValidator(dst); err != nil {
		return Message{}, err
	}
	if src == dst {
		return Message{}, fmt.Errorf("%w: source and destination validator are the same", ErrInvalidAddress)
	}
	return Message{
		TypeURL: TypeURLBeginRedelegate,
		Value: RedelegateValue{
			DelegatorAddress:    delegator,
			ValidatorSrcAddress: src,
			ValidatorDstAddress: dst,
			Amount:              amount,
		},
	}, nil
}

// WithdrawReward builds a MsgWithdrawDelegatorReward.
func (b *MsgBuilder) WithdrawReward(delegator, validator string) (Message, error) {
	if err := b.checkAccount(delegator); err != nil {
		return Message{}, err
	}
	if err := b.checkValidator(validator); err != nil {
		return Message{}, err
	}
	return Message{
		TypeURL: TypeURLWithdrawDelegatorReward,
		Value:   WithdrawRewardValue{DelegatorAddress: delegator, ValidatorAddress: validator},
	}, nil
}

// CancelUnbonding builds a MsgCancelUnbondingDelegation for the entry created at creationHeight.
func (b *MsgBuilder) CancelUnbonding(delegator, validator string, amount Coin, creationHeight int64) (Message, error) {
	if err := b.check(delegator, validator, &amount); err != nil {
		return Message{}, err
	}
	if creationHeight <= 0 {
		return Message{}, fmt.Errorf("creation height must be positive, got %d", creationHeight)
	}
	return Message{
		TypeURL: TypeURLCancelUnbonding,
		Value: CancelUnbondingValue{
			DelegatorAddress: delegator,
			ValidatorAddress: validator,
			Amount:           amount,
			CreationHeight:   creationHeight,
		},
	}, nil
}

func (b *MsgBuilder) check(delegator, validator string, amount *Coin) error {
	if err := b.checkAccount(delegator); err != nil {
		return err
	}
	if err := b.checkValidator(validator); err != nil {
		return err
	}
	if amount.Denom == "" {
		return fmt.Errorf("%w: denom is required", ErrInvalidAmount)
	}
	normalized, err := NormalizeAmount(amount.Amount)
	if err != nil {
		return err
	}
	amount.Amount = normalized
	return nil
}

func (b *MsgBuilder) checkAccount(addr string) error {
	return checkBech32(addr, b.accountPrefix)
}

func (b *MsgBuilder) checkValidator(addr string) error {
	return checkBech32(addr, b.validatorPrefix)
}

// checkBech32 verifies that addr decodes and carries the expected human readable part.
func checkBech32(addr, prefix string) error {
	if addr == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidAddress)
	}
	hrp, data, err := bech32.DecodeAndConvert(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidAddress, addr, err)
	}
	if hrp != prefix {
		return fmt.Errorf("%w: %s has prefix %q, expected %q", ErrInvalidAddress, addr, hrp, prefix)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s has an empty payload", ErrInvalidAddress, addr)
	}
	return nil
}
