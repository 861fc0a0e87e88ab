package crypto

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	blake2b "github.com/minio/blake2b-simd"
)

// Digester is the hash primitive used for the output digest.
//
// Implementations return exactly 32 bytes. An error means the primitive is
// unavailable in this environment, which is fatal for the build.
type Digester interface {
	Name() string
	Digest(data []byte) ([32]byte, error)
}

// Names accepted by DigesterByName.
const (
	DigestSHA256  = "sha256"
	DigestBLAKE2b = "blake2b"
)

// OutputsPersonalization is the BLAKE2b personalization for output digests.
const OutputsPersonalization = "LedgerOutputHash"

// SHA256 is the default digester. The submission endpoint verifies against it.
var SHA256 Digester = sha256Digester{}

// BLAKE2b256 is a BLAKE2b-256 digester personalized with OutputsPersonalization.
var BLAKE2b256 Digester = blake2bDigester{personalization: []byte(OutputsPersonalization)}

// DigesterByName returns the digester registered under name.
func DigesterByName(name string) (Digester, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DigestSHA256:
		return SHA256, nil
	case DigestBLAKE2b:
		return BLAKE2b256, nil
	default:
		return nil, fmt.Errorf("unknown digest %q (want %s or %s)", name, DigestSHA256, DigestBLAKE2b)
	}
}

type sha256Digester struct{}

func (sha256Digester) Name() string { return DigestSHA256 }

func (sha256Digester) Digest(data []byte) ([32]byte, error) {
	return sha256.Sum256(data), nil
}

type blake2bDigester struct {
	personalization []byte
}

func (blake2bDigester) Name() string { return DigestBLAKE2b }

// blake2bNew256 creates a new BLAKE2b-256 hash with the given personalization.
// The personalization is a distinct parameter, not a key.
func blake2bNew256(personalization []byte) (hash.Hash, error) {
	config := &blake2b.Config{
		Size:   32,
		Person: personalization,
	}
	return blake2b.New(config)
}

func (d blake2bDigester) Digest(data []byte) ([32]byte, error) {
	var digest [32]byte

	h, err := blake2bNew256(d.personalization)
	if err != nil {
		return digest, fmt.Errorf("blake2b unavailable: %w", err)
	}

	h.Write(data)
	copy(digest[:], h.Sum(nil))
	return digest, nil
}
