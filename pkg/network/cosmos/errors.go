// pkg/network/cosmos/errors.go
package cosmos

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace for the staking pipeline.
const Codespace = "qubestake"

var (
	// ErrUnsupportedMessageType is returned for a type URL outside the five staking messages.
	ErrUnsupportedMessageType = errorsmod.Register(Codespace, 2, "unsupported message type")

	// ErrAccountLookupFailed is returned when the signer account cannot be fetched or resolved.
	ErrAccountLookupFailed = errorsmod.Register(Codespace, 3, "account lookup failed")

	// ErrSigningRejected is returned when the signer declines or fails to sign.
	ErrSigningRejected = errorsmod.Register(Codespace, 4, "signing rejected")

	// ErrBroadcastTransportFailed is returned for network or HTTP level broadcast failures.
	ErrBroadcastTransportFailed = errorsmod.Register(Codespace, 5, "broadcast transport failed")

	// ErrBroadcastRejected is returned when the chain accepted the request but rejected the tx.
	ErrBroadcastRejected = errorsmod.Register(Codespace, 6, "broadcast rejected")

	ErrInvalidAmount  = errorsmod.Register(Codespace, 7, "invalid amount")
	ErrInvalidAddress = errorsmod.Register(Codespace, 8, "invalid address")
	ErrInvalidConfig  = errorsmod.Register(Codespace, 9, "invalid chain config")

	// ErrQueryFailed is returned when a read endpoint answers with a non-success status.
	ErrQueryFailed = errorsmod.Register(Codespace, 10, "chain query failed")
	ErrNotFound    = errorsmod.Register(Codespace, 11, "not found")
)

// TransportError carries the HTTP response of a failed broadcast or query.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrBroadcastTransportFailed) hold.
func (e *TransportError) Unwrap() error {
	return ErrBroadcastTransportFailed
}

// RejectedError carries the chain's rejection of a broadcast transaction.
type RejectedError struct {
	Code      uint32
	Codespace string
	RawLog    string
	TxHash    string
}

func (e *RejectedError) Error() string {
	if e.Codespace != "" {
		return fmt.Sprintf("tx rejected with code %d (%s): %s", e.Code, e.Codespace, e.RawLog)
	}
	return fmt.Sprintf("tx rejected with code %d: %s", e.Code, e.RawLog)
}

// Unwrap makes errors.Is(err, ErrBroadcastRejected) hold.
func (e *RejectedError) Unwrap() error {
	return ErrBroadcastRejected
}
