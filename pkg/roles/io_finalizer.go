package roles

import (
	"errors"

	"github.com/suffix-labs/ledger-txbuilder/pkg/crypto"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
)

// IoFinalizer fixes the output set of a Draft and computes its digest.
//
// The output set is the change output, paid back to the spender, followed by
// the resolved payments in their original order. After Finalize the outputs
// are locked: the digest is computed once over EncodeOutputs(d.Outputs) and
// the same slice is later emitted by the TxExtractor.
type IoFinalizer struct {
	digester crypto.Digester
	logger   *zap.Logger
}

// NewIoFinalizer creates an IoFinalizer. A nil digester selects SHA-256.
func NewIoFinalizer(digester crypto.Digester, logger *zap.Logger) *IoFinalizer {
	if digester == nil {
		digester = crypto.SHA256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IoFinalizer{digester: digester, logger: logger}
}

// Finalize sets d.Outputs and d.Digest.
//
// Returns *txn.HashingError if the hash primitive is unavailable. Calling
// Finalize on a Draft that already carries a digest is an error.
func (f *IoFinalizer) Finalize(d *txn.Draft) error {
	if d.Digest != nil {
		return errors.New("outputs already finalized")
	}
	if d.Inputs == nil {
		return errors.New("output finalization before coin selection")
	}

	outputs := make([]txn.ResolvedOutput, 0, len(d.Resolved)+1)
	outputs = append(outputs, txn.ResolvedOutput{Amount: d.Change, Recipient: d.Spender})
	outputs = append(outputs, d.Resolved...)

	sum, err := f.digester.Digest(txn.EncodeOutputs(outputs))
	if err != nil {
		return &txn.HashingError{Cause: err}
	}
	digest := txn.OutputDigest(sum)

	d.Outputs = outputs
	d.Digest = &digest

	f.logger.Debug("outputs finalized",
		zap.String("stage", txn.StageFinalize),
		zap.String("hash", f.digester.Name()),
		zap.Int("outputs", len(outputs)),
		zap.Stringer("digest", digest))

	return nil
}
