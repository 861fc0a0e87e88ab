package roles

import (
	"context"
	"errors"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InputSigner is the signing primitive.
//
// Sign receives an input's 68-byte signing data and returns the signature to
// emit. *crypto.PrivateKey satisfies it. Implementations must be safe for
// concurrent use.
type InputSigner interface {
	Sign(message []byte) ([]byte, error)
}

// Signer signs every selected input of a Draft.
//
// Every input commits to the same output digest, so the signatures are
// independent of each other and are produced concurrently once the digest
// is fixed.
type Signer struct {
	key    InputSigner
	limit  int
	logger *zap.Logger
}

// NewSigner creates a Signer. A nil logger is replaced by a no-op logger.
func NewSigner(key InputSigner, logger *zap.Logger) *Signer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Signer{key: key, limit: -1, logger: logger}
}

// WithConcurrency caps the number of signing calls in flight. n <= 0 means no cap.
func (s *Signer) WithConcurrency(n int) *Signer {
	if n <= 0 {
		n = -1
	}
	s.limit = n
	return s
}

// SignInputs fills d.Signatures, one per input in d.Inputs order.
//
// The first failing input is reported as *txn.SigningError and the remaining
// signing calls are skipped. d.Signatures is only assigned on success.
func (s *Signer) SignInputs(ctx context.Context, d *txn.Draft) error {
	if d.Digest == nil {
		return errors.New("signing before outputs are finalized")
	}
	if s.key == nil {
		return &txn.SigningError{InputIndex: 0, Cause: errors.New("no signing key configured")}
	}

	digest := *d.Digest
	signatures := make([][]byte, len(d.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for i, in := range d.Inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &txn.SigningError{InputIndex: i, InputRef: in.Ref(), Cause: err}
			}
			data := txn.SigningData(in, digest)
			sig, err := s.key.Sign(data[:])
			if err != nil {
				return &txn.SigningError{InputIndex: i, InputRef: in.Ref(), Cause: err}
			}
			if len(sig) == 0 {
				return &txn.SigningError{InputIndex: i, InputRef: in.Ref(), Cause: errors.New("empty signature")}
			}
			signatures[i] = sig
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn("signing failed", zap.String("stage", txn.StageSign), zap.Error(err))
		return err
	}

	s.logger.Debug("inputs signed",
		zap.String("stage", txn.StageSign),
		zap.Int("inputs", len(d.Inputs)))

	d.Signatures = signatures
	return nil
}
