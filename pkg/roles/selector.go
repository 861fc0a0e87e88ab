package roles

import (
	"errors"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
)

// CoinSelector picks the unspent outputs a Draft spends.
//
// The policy is greedy first-fit in caller order: walk d.Unspent as given,
// append each output to the selection, and stop as soon as the accumulated
// amount reaches Fee + sum(Payments). Outputs are never sorted, skipped or
// swapped for a smaller set, so given [10, 5, 20] and a target of 12 the
// selection is [10, 5] even though [20] alone would do. Callers that want a
// different policy order d.Unspent before building.
type CoinSelector struct {
	logger *zap.Logger
}

// NewCoinSelector creates a CoinSelector. A nil logger is replaced by a no-op logger.
func NewCoinSelector(logger *zap.Logger) *CoinSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoinSelector{logger: logger}
}

// Select fills d.Inputs and d.Change.
//
// Returns *txn.InsufficientBalanceError when every unspent output has been
// consumed without reaching the target. Exact equality is a valid selection
// with zero change.
func (s *CoinSelector) Select(d *txn.Draft) error {
	if d.Resolved == nil && len(d.Payments) > 0 {
		return errors.New("coin selection before alias resolution")
	}

	required, err := d.Required()
	if err != nil {
		return err
	}

	var (
		accumulated txn.Amount
		ok          bool
	)
	selected := make([]txn.SelectedInput, 0, len(d.Unspent))
	for _, u := range d.Unspent {
		accumulated, ok = accumulated.Add(u.Amount)
		if !ok {
			return &txn.IntentError{Code: txn.ErrAmountOverflow, Message: "unspent output total exceeds 256 bits"}
		}
		selected = append(selected, txn.SelectedInput{
			TransactionID: u.TransactionID,
			Index:         u.Index,
			Amount:        u.Amount,
		})
		if accumulated.Cmp(required) >= 0 {
			break
		}
	}

	if accumulated.Cmp(required) < 0 {
		return &txn.InsufficientBalanceError{Required: required, Available: accumulated}
	}

	d.Inputs = selected
	d.Change = accumulated.Sub(required)

	s.logger.Debug("coins selected",
		zap.String("stage", txn.StageSelect),
		zap.Int("candidates", len(d.Unspent)),
		zap.Int("inputs", len(selected)),
		zap.Stringer("required", required),
		zap.Stringer("change", d.Change))

	return nil
}
