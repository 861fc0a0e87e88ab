// Package txn defines the transaction request data model.
//
// A build starts from caller-owned UnspentOutputs and PaymentRequests, and
// ends with a Request: the wire payload accepted by the submission endpoint.
// Intermediate values (ResolvedOutput, SelectedInput, the output digest and
// the per-input signing data) live only for the duration of one build.
//
// The fixed binary layout that signatures commit to is defined in
// serialization.go.
package txn

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Query methods for a PaymentRequest.
const (
	QueryAlias     = "alias"     // Recipient is looked up by alias
	QueryPublicKey = "publicKey" // Recipient public key is given directly
)

// TransactionID identifies a prior transaction.
type TransactionID [TransactionIDSize]byte

// ParseTransactionID decodes a hex-encoded transaction id.
func ParseTransactionID(s string) (TransactionID, error) {
	var id TransactionID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("transaction id is not hex: %w", err)
	}
	if len(raw) != TransactionIDSize {
		return id, fmt.Errorf("transaction id must be %d bytes, got %d", TransactionIDSize, len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the hex encoding of the id.
func (id TransactionID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText encodes the id as hex.
func (id TransactionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id.
func (id *TransactionID) UnmarshalText(text []byte) error {
	parsed, err := ParseTransactionID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// PublicKey is a compressed secp256k1 public key (0x02/0x03 prefix + x-coordinate).
type PublicKey [PublicKeySize]byte

// ParsePublicKeyHex decodes a hex-encoded compressed public key.
//
// Only the length and prefix byte are checked here; curve membership is
// checked by the crypto package when a key is used for verification.
func ParsePublicKeyHex(s string) (PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, &IntentError{Code: ErrInvalidPublicKey, Message: "public key is not hex", Cause: err}
	}
	return PublicKeyFromBytes(raw)
}

// PublicKeyFromBytes copies a 33-byte compressed key.
func PublicKeyFromBytes(raw []byte) (PublicKey, error) {
	var pk PublicKey
	if len(raw) != PublicKeySize {
		return pk, &IntentError{
			Code:    ErrInvalidPublicKey,
			Message: fmt.Sprintf("public key must be %d bytes, got %d", PublicKeySize, len(raw)),
		}
	}
	if raw[0] != 0x02 && raw[0] != 0x03 {
		return pk, &IntentError{
			Code:    ErrInvalidPublicKey,
			Message: fmt.Sprintf("public key has invalid prefix 0x%02x", raw[0]),
		}
	}
	copy(pk[:], raw)
	return pk, nil
}

// String returns the hex encoding of the key.
func (pk PublicKey) String() string {
	return hex.EncodeToString(pk[:])
}

// MarshalText encodes the key as hex.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText decodes a hex key.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKeyHex(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// UnspentOutput is a prior output available for spending.
//
// Owned by the caller; the build only reads it.
type UnspentOutput struct {
	TransactionID TransactionID `json:"transactionId"`
	Index         uint32        `json:"index"`
	Amount        Amount        `json:"amount"`
}

// PaymentRequest is one desired payment.
//
// When QueryMethod is QueryAlias, Alias names the recipient and PublicKey is
// ignored. When QueryMethod is QueryPublicKey, PublicKey must be set.
// Resolution never writes back into a PaymentRequest; it produces a
// ResolvedOutput instead.
type PaymentRequest struct {
	QueryMethod string     `json:"queryMethod"`
	Alias       string     `json:"alias,omitempty"`
	PublicKey   *PublicKey `json:"publicKey,omitempty"`
	Amount      Amount     `json:"amount"`
}

// UnmarshalJSON decodes a PaymentRequest, treating an empty or null
// "publicKey" as unset. Unknown fields are rejected.
func (p *PaymentRequest) UnmarshalJSON(data []byte) error {
	type plain PaymentRequest
	var raw struct {
		plain
		PublicKey string `json:"publicKey"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*p = PaymentRequest(raw.plain)
	p.PublicKey = nil
	if raw.PublicKey != "" {
		pk, err := ParsePublicKeyHex(raw.PublicKey)
		if err != nil {
			return err
		}
		p.PublicKey = &pk
	}
	return nil
}

// ResolvedOutput is a finalized output: an amount paid to a public key.
//
// The ordered slice of ResolvedOutputs is what the output digest commits to.
// Any change to it after hashing invalidates every signature.
type ResolvedOutput struct {
	Amount    Amount    `json:"amount"`
	Recipient PublicKey `json:"recipient"`
}

// SelectedInput is an unspent output chosen by coin selection.
//
// Amount is selection-internal state and is never part of the wire payload.
type SelectedInput struct {
	TransactionID TransactionID
	Index         uint32
	Amount        Amount
}

// Ref returns a short human-readable reference "txid:index".
func (in SelectedInput) Ref() string {
	return fmt.Sprintf("%s:%d", in.TransactionID, in.Index)
}

// OutputDigest is the 32-byte hash committing to the full output set.
type OutputDigest [DigestSize]byte

// String returns the hex encoding of the digest.
func (d OutputDigest) String() string {
	return hex.EncodeToString(d[:])
}

// SignedInput is an input as it appears on the wire.
type SignedInput struct {
	TransactionID TransactionID `json:"transactionId"`
	Index         uint32        `json:"index"`
	Signature     HexBytes      `json:"signature"`
}

// Request is the payload accepted by the submission endpoint.
type Request struct {
	Inputs  []SignedInput    `json:"inputs"`
	Outputs []ResolvedOutput `json:"outputs"`
}

// HexBytes is a byte slice that encodes as a hex string in JSON.
type HexBytes []byte

// MarshalText encodes the bytes as hex.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

// UnmarshalText decodes hex text.
func (b *HexBytes) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	*b = raw
	return nil
}

// MarshalIndent renders the request as indented JSON.
func (r *Request) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
