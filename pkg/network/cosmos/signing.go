// pkg/network/cosmos/signing.go
package cosmos

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/altuslabsxyz/qubestake/pkg/network"
)

// KeyType is the signing algorithm of a local key.
type KeyType string

const (
	// KeyTypeEthSecp256k1 signs keccak256 digests and derives Ethereum style addresses.
	KeyTypeEthSecp256k1 KeyType = "eth_secp256k1"

	// KeyTypeSecp256k1 is the cosmos-sdk key: sha256 digests, ripemd160 addresses.
	KeyTypeSecp256k1 KeyType = "secp256k1"
)

// PubKeyTypeURL returns the Any type URL of public keys for the key type.
func (k KeyType) PubKeyTypeURL() string {
	if k == KeyTypeSecp256k1 {
		return PubKeyTypeSecp256k1
	}
	return PubKeyTypeEthSecp256k1
}

// ParseKeyType parses a configured key type.
func ParseKeyType(s string) (KeyType, error) {
	switch KeyType(strings.ToLower(s)) {
	case KeyTypeEthSecp256k1, "":
		return KeyTypeEthSecp256k1, nil
	case KeyTypeSecp256k1:
		return KeyTypeSecp256k1, nil
	default:
		return "", fmt.Errorf("unsupported key type: %s (valid options: eth_secp256k1, secp256k1)", s)
	}
}

// LoadPrivateKey loads a secp256k1 private key from bytes.
// Expects 32 bytes for secp256k1.
func LoadPrivateKey(privKeyBytes []byte) (cryptotypes.PrivKey, error) {
	if len(privKeyBytes) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32, got %d", len(privKeyBytes))
	}
	privKey := &secp256k1.PrivKey{Key: privKeyBytes}
	return privKey, nil
}

// SignBytes signs arbitrary bytes with the private key.
func SignBytes(privKey cryptotypes.PrivKey, signDoc []byte) ([]byte, error) {
	if privKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if signDoc == nil {
		return nil, fmt.Errorf("sign document cannot be nil")
	}
	signature, err := privKey.Sign(signDoc)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return signature, nil
}

// ParsePrivateKeyHex decodes a hex private key with or without a 0x prefix.
func ParsePrivateKeyHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32, got %d", len(key))
	}
	return key, nil
}

// ConfirmFunc is asked before every signature. A non-nil error rejects the request.
type ConfirmFunc func(ctx context.Context, doc network.SignDoc) error

// LocalSignerOption configures a LocalSigner.
type LocalSignerOption func(*LocalSigner)

// WithRawSender makes the signer a native wallet broadcasting through sender.
func WithRawSender(sender network.RawSender) LocalSignerOption {
	return func(s *LocalSigner) {
		s.sender = sender
	}
}

// WithConfirm installs an approval step in front of every signature.
func WithConfirm(fn ConfirmFunc) LocalSignerOption {
	return func(s *LocalSigner) {
		s.confirm = fn
	}
}

// LocalSigner is a network.Wallet backed by an in-process private key.
type LocalSigner struct {
	keyType KeyType
	chainID string
	address string
	pubKey  []byte

	ethKey *ecdsa.PrivateKey
	sdkKey cryptotypes.PrivKey

	sender  network.RawSender
	confirm ConfirmFunc
}

// NewLocalSigner creates a signer for the given key bound to cfg's chain.
func NewLocalSigner(cfg ChainConfig, keyType KeyType, privKey []byte, opts ...LocalSignerOption) (*LocalSigner, error) {
	s := &LocalSigner{
		keyType: keyType,
		chainID: cfg.ChainID,
	}

	var addr []byte
	switch keyType {
	case KeyTypeEthSecp256k1:
		key, err := crypto.ToECDSA(privKey)
		if err != nil {
			return nil, fmt.Errorf("invalid eth_secp256k1 key: %w", err)
		}
		s.ethKey = key
		s.pubKey = crypto.CompressPubkey(&key.PublicKey)
		addr = crypto.PubkeyToAddress(key.PublicKey).Bytes()

	case KeyTypeSecp256k1:
		key, err := LoadPrivateKey(privKey)
		if err != nil {
			return nil, err
		}
		s.sdkKey = key
		s.pubKey = key.PubKey().Bytes()
		addr = key.PubKey().Address().Bytes()

	default:
		return nil, fmt.Errorf("unsupported key type: %s", keyType)
	}

	address, err := bech32.ConvertAndEncode(cfg.Bech32Prefix, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to encode address: %w", err)
	}
	s.address = address

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// KeyType returns the signing algorithm.
func (s *LocalSigner) KeyType() KeyType {
	return s.keyType
}

// Address returns the bech32 account address derived from the key.
func (s *LocalSigner) Address(_ context.Context) (string, error) {
	return s.address, nil
}

// Kind is native when a raw sender is attached and REST otherwise.
func (s *LocalSigner) Kind() network.WalletKind {
	if s.sender != nil {
		return network.WalletKindNative
	}
	return network.WalletKindREST
}

// GetPublicKey returns the 33 byte compressed public key.
func (s *LocalSigner) GetPublicKey(_ context.Context, chainID string) ([]byte, error) {
	if chainID != s.chainID {
		return nil, fmt.Errorf("chain ID mismatch: key is bound to %s, got %s", s.chainID, chainID)
	}
	return append([]byte(nil), s.pubKey...), nil
}

// RequestSignature signs the direct-mode sign bytes of doc after confirmation.
func (s *LocalSigner) RequestSignature(ctx context.Context, chainID, address string, doc network.SignDoc) (*network.SignResponse, error) {
	if chainID != s.chainID || doc.ChainID != s.chainID {
		return nil, fmt.Errorf("chain ID mismatch: key is bound to %s", s.chainID)
	}
	if address != s.address {
		return nil, fmt.Errorf("address %s does not belong to this key", address)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.confirm != nil {
		if err := s.confirm(ctx, doc); err != nil {
			return nil, err
		}
	}

	signBytes, err := EncodeSignDoc(doc)
	if err != nil {
		return nil, err
	}

	var sig []byte
	switch s.keyType {
	case KeyTypeEthSecp256k1:
		sig, err = crypto.Sign(crypto.Keccak256(signBytes), s.ethKey)
	default:
		sig, err = SignBytes(s.sdkKey, signBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	return &network.SignResponse{
		Signed:    doc,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// SendRaw delegates to the attached raw sender. It implements network.RawSender.
func (s *LocalSigner) SendRaw(ctx context.Context, chainID string, txBytes []byte, mode network.BroadcastMode) ([]byte, error) {
	if s.sender == nil {
		return nil, fmt.Errorf("wallet has no native sender")
	}
	return s.sender.SendRaw(ctx, chainID, txBytes, mode)
}
