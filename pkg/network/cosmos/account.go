// pkg/network/cosmos/account.go
package cosmos

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// AccountInfo contains the resolved account used by the account command.
type AccountInfo struct {
	// Address is the bech32-encoded account address.
	Address string `json:"address"`

	// Type is the account type URL, e.g. /ethermint.types.v1.EthAccount.
	Type string `json:"type"`

	AccountNumber uint64 `json:"accountNumber,string"`
	Sequence      uint64 `json:"sequence,string"`

	// PubKey is the public key associated with the account (nil until the first tx).
	PubKey []byte `json:"pubKey,omitempty"`
}

// accountResponse represents the REST API response for account queries.
type accountResponse struct {
	Account network.AccountRecord `json:"account"`
}

// GetAccount fetches the raw account record. It implements network.AccountSource.
func (c *ChainClient) GetAccount(ctx context.Context, address string) (*network.AccountRecord, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	var resp accountResponse
	if err := c.getJSON(ctx, "/cosmos/auth/v1beta1/accounts/"+address, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("account %s not found: %w", address, err)
		}
		return nil, err
	}
	return &resp.Account, nil
}

// QueryAccount fetches and resolves the account for address.
func (c *ChainClient) QueryAccount(ctx context.Context, address string) (*AccountInfo, error) {
	record, err := c.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	return parseAccountInfo(record)
}

// ResolveAccount extracts the account number and sequence from either account shape:
// plain accounts carry them directly, wrapped accounts (EthAccount, module accounts)
// nest them under base_account. A record in neither shape is ErrAccountLookupFailed.
func ResolveAccount(record *network.AccountRecord) (network.Account, error) {
	if record == nil {
		return network.Account{}, fmt.Errorf("%w: empty account record", ErrAccountLookupFailed)
	}

	var accountNumStr, seqStr string
	switch {
	case record.BaseAccount != nil:
		accountNumStr = record.BaseAccount.AccountNumber
		seqStr = record.BaseAccount.Sequence
	case record.AccountNumber != nil || record.Sequence != nil:
		accountNumStr = derefOr(record.AccountNumber, "0")
		seqStr = derefOr(record.Sequence, "0")
	default:
		return network.Account{}, fmt.Errorf("%w: account %q has neither a base account nor account fields",
			ErrAccountLookupFailed, record.Type)
	}

	accountNumber, err := parseUintField(accountNumStr)
	if err != nil {
		return network.Account{}, fmt.Errorf("%w: failed to parse account number: %w", ErrAccountLookupFailed, err)
	}
	sequence, err := parseUintField(seqStr)
	if err != nil {
		return network.Account{}, fmt.Errorf("%w: failed to parse sequence: %w", ErrAccountLookupFailed, err)
	}

	return network.Account{AccountNumber: accountNumber, Sequence: sequence}, nil
}

// parseAccountInfo resolves the record and carries over its address and public key.
func parseAccountInfo(record *network.AccountRecord) (*AccountInfo, error) {
	acc, err := ResolveAccount(record)
	if err != nil {
		return nil, err
	}

	info := &AccountInfo{
		Address:       record.Address,
		Type:          record.Type,
		AccountNumber: acc.AccountNumber,
		Sequence:      acc.Sequence,
	}

	pubKey := record.PubKey
	if record.BaseAccount != nil {
		info.Address = record.BaseAccount.Address
		pubKey = record.BaseAccount.PubKey
	}

	if pubKey != nil && pubKey.Key != "" {
		key, err := base64.StdEncoding.DecodeString(pubKey.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to decode public key: %w", err)
		}
		info.PubKey = key
	}

	return info, nil
}

// parseUintField parses a uint64 rendered as a JSON string; an empty string is zero.
func parseUintField(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
