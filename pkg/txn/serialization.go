// Package txn serialization implements the fixed binary layout signatures commit to.
//
// This layout is the wire contract with the submission endpoint's verifier.
// Widths and byte order are fixed here and never vary per call:
//
//	input:        transaction_id (32) || index (u32, big-endian)             = 36 bytes
//	output:       amount (u256, big-endian) || recipient (33, compressed key) = 65 bytes
//	outputs:      output_0 || output_1 || ... (sequence order, no length prefix)
//	signing data: input (36) || output_digest (32)                           = 68 bytes
package txn

import "encoding/binary"

// Layout constants.
const (
	TransactionIDSize = 32 // Transaction id width
	IndexSize         = 4  // Output index width (u32)
	AmountSize        = 32 // Amount width (u256)
	PublicKeySize     = 33 // Compressed secp256k1 key width
	DigestSize        = 32 // Output digest width

	InputEncodingSize  = TransactionIDSize + IndexSize  // 36
	OutputEncodingSize = AmountSize + PublicKeySize     // 65
	SigningDataSize    = InputEncodingSize + DigestSize // 68
)

// ByteOrder is the byte order of every fixed-width integer in the layout.
var ByteOrder = binary.BigEndian

// EncodeInput encodes an input reference as transaction_id || index.
func EncodeInput(id TransactionID, index uint32) [InputEncodingSize]byte {
	var buf [InputEncodingSize]byte
	copy(buf[:TransactionIDSize], id[:])
	ByteOrder.PutUint32(buf[TransactionIDSize:], index)
	return buf
}

// Encode returns the 36-byte encoding of the unspent output.
func (u UnspentOutput) Encode() [InputEncodingSize]byte {
	return EncodeInput(u.TransactionID, u.Index)
}

// Encode returns the 36-byte encoding of the selected input.
// The amount is not part of the encoding.
func (in SelectedInput) Encode() [InputEncodingSize]byte {
	return EncodeInput(in.TransactionID, in.Index)
}

// EncodeOutput encodes one output as amount || recipient.
func EncodeOutput(out ResolvedOutput) [OutputEncodingSize]byte {
	var buf [OutputEncodingSize]byte
	amount := out.Amount.Bytes32()
	copy(buf[:AmountSize], amount[:])
	copy(buf[AmountSize:], out.Recipient[:])
	return buf
}

// EncodeOutputs concatenates the encodings of outputs in sequence order.
func EncodeOutputs(outputs []ResolvedOutput) []byte {
	buf := make([]byte, 0, len(outputs)*OutputEncodingSize)
	for _, out := range outputs {
		enc := EncodeOutput(out)
		buf = append(buf, enc[:]...)
	}
	return buf
}

// SigningData builds the exact preimage signed for one input.
func SigningData(in SelectedInput, digest OutputDigest) [SigningDataSize]byte {
	var buf [SigningDataSize]byte
	enc := in.Encode()
	copy(buf[:InputEncodingSize], enc[:])
	copy(buf[InputEncodingSize:], digest[:])
	return buf
}
