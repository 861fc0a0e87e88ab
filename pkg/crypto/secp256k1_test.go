package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeyBytes = [32]byte{
	0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
	0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00,
	0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
	0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x01,
}

func TestSignAndVerify(t *testing.T) {
	priv, err := PrivateKeyFromBytes(testKeyBytes[:])
	require.NoError(t, err)

	message := bytes.Repeat([]byte{0xab}, 68)
	sig, err := priv.Sign(message)
	require.NoError(t, err)

	pub := priv.PublicKey()
	assert.True(t, VerifySignature(pub, message, sig))

	tampered := append([]byte(nil), message...)
	tampered[67] ^= 0x01
	assert.False(t, VerifySignature(pub, tampered, sig), "signature must not verify over different data")

	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	assert.False(t, VerifySignature(other.PublicKey(), message, sig), "signature must not verify under another key")
}

func TestPublicKeyRoundTrip(t *testing.T) {
	priv, err := PrivateKeyFromBytes(testKeyBytes[:])
	require.NoError(t, err)

	compressed := priv.PublicKey().SerializeCompressed()
	assert.Contains(t, []byte{0x02, 0x03}, compressed[0])

	parsed, err := ParsePublicKey(compressed[:])
	require.NoError(t, err)
	assert.Equal(t, compressed, parsed.SerializeCompressed())

	_, err = ParsePublicKey(compressed[:32])
	assert.Error(t, err)
}

func TestPrivateKeyFromBytesRejectsInvalidScalars(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)

	_, err = PrivateKeyFromBytes(make([]byte, 32))
	assert.Error(t, err, "zero scalar is not a key")

	overflow := bytes.Repeat([]byte{0xff}, 32)
	_, err = PrivateKeyFromBytes(overflow)
	assert.Error(t, err, "scalar above the group order is not a key")
}

func TestWIFRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name       string
		compressed bool
		testnet    bool
	}{
		{"mainnet compressed", true, false},
		{"mainnet uncompressed", false, false},
		{"testnet compressed", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			wif, err := EncodeWIF(testKeyBytes[:], tc.compressed, tc.testnet)
			require.NoError(t, err)

			priv, err := ParsePrivateKeyWIF(wif)
			require.NoError(t, err)
			assert.Equal(t, testKeyBytes[:], priv.Bytes())
		})
	}
}

func TestParsePrivateKey(t *testing.T) {
	priv, err := ParsePrivateKey(hex.EncodeToString(testKeyBytes[:]))
	require.NoError(t, err)
	assert.Equal(t, testKeyBytes[:], priv.Bytes())

	wif, err := EncodeWIF(testKeyBytes[:], true, false)
	require.NoError(t, err)
	priv, err = ParsePrivateKey(" " + wif + "\n")
	require.NoError(t, err)
	assert.Equal(t, testKeyBytes[:], priv.Bytes())

	_, err = ParsePrivateKey("not-a-key")
	assert.Error(t, err)
}

func TestDecodeWIFChecksum(t *testing.T) {
	wif, err := EncodeWIF(testKeyBytes[:], true, false)
	require.NoError(t, err)

	// Flip the last character to break the checksum.
	last := wif[len(wif)-1]
	replacement := byte('2')
	if last == replacement {
		replacement = '3'
	}
	_, err = ParsePrivateKeyWIF(wif[:len(wif)-1] + string(replacement))
	assert.Error(t, err)
}

// rawWIF encodes payload with a valid checksum and no other checks.
func rawWIF(payload []byte) string {
	hash1 := sha256.Sum256(payload)
	hash2 := sha256.Sum256(hash1[:])
	return base58.Encode(append(append([]byte(nil), payload...), hash2[:4]...))
}

func TestParsePrivateKeyWIFRejectsInvalidKeys(t *testing.T) {
	zero, err := EncodeWIF(make([]byte, 32), true, false)
	require.NoError(t, err)
	_, err = ParsePrivateKeyWIF(zero)
	assert.Error(t, err, "zero scalar")

	overflow, err := EncodeWIF(bytes.Repeat([]byte{0xff}, 32), false, false)
	require.NoError(t, err)
	_, err = ParsePrivateKeyWIF(overflow)
	assert.Error(t, err, "scalar above the group order")

	payload := append([]byte{0x80}, testKeyBytes[:]...)
	_, err = ParsePrivateKeyWIF(rawWIF(append(payload, 0x77)))
	assert.ErrorContains(t, err, "compression flag")

	_, err = ParsePrivateKeyWIF(rawWIF(append(payload, 0x01)))
	assert.NoError(t, err)
}

func TestSignWithoutKey(t *testing.T) {
	var priv *PrivateKey
	_, err := priv.Sign([]byte("data"))
	assert.Error(t, err)
}
