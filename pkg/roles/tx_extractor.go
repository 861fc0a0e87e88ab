package roles

import (
	"fmt"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

// TxExtractor assembles the wire request from a fully signed Draft.
//
// It is a pure transform: inputs lose their amount and gain their signature,
// outputs are emitted exactly as they were hashed.
type TxExtractor struct{}

// NewTxExtractor creates a new TxExtractor.
func NewTxExtractor() *TxExtractor {
	return &TxExtractor{}
}

// Extract returns the request for d.
//
// Returns an error if d was not finalized or a signature is missing.
func (e *TxExtractor) Extract(d *txn.Draft) (*txn.Request, error) {
	if err := e.validate(d); err != nil {
		return nil, fmt.Errorf("draft not ready for extraction: %w", err)
	}

	inputs := make([]txn.SignedInput, len(d.Inputs))
	for i, in := range d.Inputs {
		inputs[i] = txn.SignedInput{
			TransactionID: in.TransactionID,
			Index:         in.Index,
			Signature:     append(txn.HexBytes(nil), d.Signatures[i]...),
		}
	}

	return &txn.Request{
		Inputs:  inputs,
		Outputs: append([]txn.ResolvedOutput(nil), d.Outputs...),
	}, nil
}

func (e *TxExtractor) validate(d *txn.Draft) error {
	if d.Digest == nil {
		return fmt.Errorf("outputs not finalized")
	}
	if len(d.Signatures) != len(d.Inputs) {
		return fmt.Errorf("have %d signatures for %d inputs", len(d.Signatures), len(d.Inputs))
	}
	for i, sig := range d.Signatures {
		if len(sig) == 0 {
			return fmt.Errorf("input %d (%s) is unsigned", i, d.Inputs[i].Ref())
		}
	}
	return nil
}
