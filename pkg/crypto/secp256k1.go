// Package crypto implements the signing and hashing primitives used to
// authorize transaction inputs.
//
// Inputs are authorized with secp256k1 ECDSA signatures. The signed message is
// the 68-byte signing data of an input; it is hashed with SHA-256 before
// signing, the same way the verifier does.
//
// Key formats:
//   - Private keys: WIF (Wallet Import Format), hex, or raw 32 bytes
//   - Public keys: Compressed 33-byte format (0x02/0x03 prefix + x-coordinate)
//   - Signatures: DER-encoded
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

// PrivateKey wraps secp256k1 private key
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps secp256k1 public key
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GeneratePrivateKey creates a new random private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// ParsePrivateKeyWIF parses a WIF-encoded private key
func ParsePrivateKeyWIF(wif string) (*PrivateKey, error) {
	decoded, err := decodeWIF(wif)
	if err != nil {
		return nil, err
	}
	return PrivateKeyFromBytes(decoded)
}

// PrivateKeyFromBytes creates a private key from raw bytes
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(keyBytes))
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return nil, errors.New("private key is not a valid secp256k1 scalar")
	}

	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// ParsePrivateKey accepts either a WIF string or 64 hex characters.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	s = strings.TrimSpace(s)
	if len(s) == 64 {
		raw, err := hex.DecodeString(s)
		if err == nil {
			return PrivateKeyFromBytes(raw)
		}
	}
	return ParsePrivateKeyWIF(s)
}

// Sign signs SHA-256(message) and returns a DER-encoded signature.
//
// Signatures are RFC 6979 deterministic, but verifiers must not rely on that.
func (pk *PrivateKey) Sign(message []byte) ([]byte, error) {
	if pk == nil || pk.key == nil {
		return nil, errors.New("no private key")
	}

	hash := sha256.Sum256(message)
	sig := ecdsa.Sign(pk.key, hash[:])

	// Serialize to DER format
	return sig.Serialize(), nil
}

// PublicKey derives the public key
func (pk *PrivateKey) PublicKey() *PublicKey {
	pubKey := pk.key.PubKey()
	return &PublicKey{key: pubKey}
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// Zero clears the key material.
func (pk *PrivateKey) Zero() {
	if pk != nil && pk.key != nil {
		pk.key.Zero()
	}
}

// SerializeCompressed returns the 33-byte compressed public key
func (pub *PublicKey) SerializeCompressed() txn.PublicKey {
	var result txn.PublicKey
	copy(result[:], pub.key.SerializeCompressed())
	return result
}

// Bytes returns the compressed public key bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeCompressed()
}

// ParsePublicKey parses a compressed public key
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != txn.PublicKeySize {
		return nil, fmt.Errorf("compressed public key must be %d bytes, got %d", txn.PublicKeySize, len(pubKeyBytes))
	}

	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &PublicKey{key: pubKey}, nil
}

// VerifySignature verifies a DER signature over SHA-256(message).
func VerifySignature(pubkey *PublicKey, message []byte, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}

	hash := sha256.Sum256(message)
	return sig.Verify(hash[:], pubkey.key)
}

// decodeWIF decodes a WIF-encoded private key
// WIF format: version_byte || private_key (32 bytes) || [compression_flag] || checksum (4 bytes)
func decodeWIF(wif string) ([]byte, error) {
	decoded := base58.Decode(wif)
	if len(decoded) != 37 && len(decoded) != 38 {
		return nil, errors.New("invalid WIF length")
	}

	// Check version byte (0x80 for mainnet, 0xef for testnet)
	version := decoded[0]
	if version != 0x80 && version != 0xef {
		return nil, fmt.Errorf("invalid WIF version byte: 0x%02x", version)
	}

	checksumOffset := len(decoded) - 4
	providedChecksum := decoded[checksumOffset:]
	payload := decoded[:checksumOffset]

	hash1 := sha256.Sum256(payload)
	hash2 := sha256.Sum256(hash1[:])
	computedChecksum := hash2[:4]

	for i := 0; i < 4; i++ {
		if providedChecksum[i] != computedChecksum[i] {
			return nil, errors.New("WIF checksum mismatch")
		}
	}

	// Compressed keys carry a 0x01 flag after the key
	if len(payload) == 34 && payload[33] != 0x01 {
		return nil, fmt.Errorf("invalid WIF compression flag: 0x%02x", payload[33])
	}

	// Extract private key (32 bytes after version byte)
	privateKey := payload[1:33]
	return privateKey, nil
}

// EncodeWIF encodes a private key to WIF format
func EncodeWIF(privateKey []byte, compressed bool, testnet bool) (string, error) {
	if len(privateKey) != 32 {
		return "", errors.New("private key must be 32 bytes")
	}

	version := byte(0x80) // mainnet
	if testnet {
		version = 0xef // testnet
	}

	// Build payload: version || private_key || [compression_flag]
	var payload []byte
	payload = append(payload, version)
	payload = append(payload, privateKey...)
	if compressed {
		payload = append(payload, 0x01)
	}

	hash1 := sha256.Sum256(payload)
	hash2 := sha256.Sum256(hash1[:])
	payload = append(payload, hash2[:4]...)

	return base58.Encode(payload), nil
}
