// pkg/network/cosmos/envelope.go
package cosmos

import (
	"fmt"
	"strconv"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// modeInfoDirect is ModeInfo{single: {mode: SIGN_MODE_DIRECT}}.
var modeInfoDirect = []byte{0x0a, 0x02, 0x08, 0x01}

// Fee is the fee attached to a transaction.
type Fee struct {
	Amount   []Coin
	GasLimit uint64
}

// PubKey is a signer public key and the Any type URL it is wrapped in.
type PubKey struct {
	TypeURL string
	Key     []byte
}

// EncodeTxBody encodes TxBody {1 repeated Any messages, 2 memo}.
// The memo field is left out when empty.
func EncodeTxBody(msgs []Message, memo string) ([]byte, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("tx body requires at least one message")
	}

	var b []byte
	for i, m := range msgs {
		anyBytes, err := EncodeMessage(m)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		b = appendBytes(b, 1, anyBytes)
	}
	if memo != "" {
		b = appendString(b, 2, memo)
	}
	return b, nil
}

// EncodeFee encodes Fee {1 repeated Coin amount, 2 gas_limit}.
func EncodeFee(fee Fee) []byte {
	var b []byte
	for _, c := range fee.Amount {
		b = appendBytes(b, 1, EncodeCoin(c))
	}
	b = appendVarint(b, 2, fee.GasLimit)
	return b
}

// EncodePubKeyAny wraps the key as Any{type_url, value: {1 key}}.
func EncodePubKeyAny(pk PubKey) []byte {
	return EncodeAny(pk.TypeURL, appendBytes(nil, 1, pk.Key))
}

// EncodeSignerInfo encodes SignerInfo {1 public_key Any, 2 mode_info, 3 sequence}.
// The public key is left out when pk is nil or empty.
func EncodeSignerInfo(pk *PubKey, sequence uint64) []byte {
	var b []byte
	if pk != nil && len(pk.Key) > 0 {
		b = appendBytes(b, 1, EncodePubKeyAny(*pk))
	}
	b = appendBytes(b, 2, modeInfoDirect)
	b = appendVarint(b, 3, sequence)
	return b
}

// EncodeAuthInfo encodes AuthInfo {1 SignerInfo, 2 Fee} for a single signer.
func EncodeAuthInfo(pk *PubKey, sequence uint64, fee Fee) []byte {
	var b []byte
	b = appendBytes(b, 1, EncodeSignerInfo(pk, sequence))
	b = appendBytes(b, 2, EncodeFee(fee))
	return b
}

// EncodeTxRaw encodes TxRaw {1 body_bytes, 2 auth_info_bytes, 3 signatures}.
// Exactly one signature is accepted.
func EncodeTxRaw(body, authInfo []byte, signatures [][]byte) ([]byte, error) {
	if len(signatures) != 1 {
		return nil, fmt.Errorf("expected exactly one signature, got %d", len(signatures))
	}
	if len(signatures[0]) == 0 {
		return nil, fmt.Errorf("signature is empty")
	}

	var b []byte
	b = appendBytes(b, 1, body)
	b = appendBytes(b, 2, authInfo)
	b = appendBytes(b, 3, signatures[0])
	return b, nil
}

// EncodeSignDoc encodes the SIGN_MODE_DIRECT sign bytes
// {1 body_bytes, 2 auth_info_bytes, 3 chain_id, 4 account_number}.
func EncodeSignDoc(doc network.SignDoc) ([]byte, error) {
	accountNumber, err := strconv.ParseUint(doc.AccountNumber, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account number %q: %w", doc.AccountNumber, err)
	}

	var b []byte
	b = appendBytes(b, 1, doc.BodyBytes)
	b = appendBytes(b, 2, doc.AuthInfoBytes)
	b = appendString(b, 3, doc.ChainID)
	if accountNumber != 0 {
		b = appendVarint(b, 4, accountNumber)
	}
	return b, nil
}

// DecodeTxRaw splits encoded TxRaw bytes into body, auth info and signatures.
func DecodeTxRaw(raw []byte) (body, authInfo []byte, signatures [][]byte, err error) {
	fields, err := decodeFields(raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode tx raw: %w", err)
	}
	for _, f := range fields {
		switch f.Num {
		case 1:
			body = f.Bytes
		case 2:
			authInfo = f.Bytes
		case 3:
			signatures = append(signatures, f.Bytes)
		}
	}
	return body, authInfo, signatures, nil
}
