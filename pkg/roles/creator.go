// Package roles implements the transaction build pipeline as a sequence of roles.
//
// Each role owns one stage of a build and works on the build's txn.Draft:
//   - Creator: Validates the intent and creates the Draft
//   - AliasResolver: Resolves alias payments to public keys (concurrent)
//   - CoinSelector: Greedily selects unspent outputs and computes change
//   - IoFinalizer: Fixes the output set and computes the output digest
//   - Signer: Signs every input's signing data (concurrent)
//   - TxExtractor: Assembles the wire Request
//
// Stages run strictly in that order. The concurrent stages join all of their
// tasks before returning and report the first failure.
package roles

import (
	"fmt"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

// Creator validates a build intent and creates its Draft.
//
// It copies every caller-supplied slice so later stages never alias the
// caller's data.
type Creator struct {
	spender txn.PublicKey
	fee     txn.Amount
	unspent []txn.UnspentOutput
}

// NewCreator creates a new Creator for a spender paying fee.
func NewCreator(spender txn.PublicKey, fee txn.Amount) *Creator {
	return &Creator{
		spender: spender,
		fee:     fee,
	}
}

// WithUnspent sets the candidate inputs, in the order they will be considered.
func (c *Creator) WithUnspent(unspent []txn.UnspentOutput) *Creator {
	c.unspent = append([]txn.UnspentOutput(nil), unspent...)
	return c
}

// Create validates the payments and returns a fresh Draft.
//
// Returns an *txn.IntentError if the spender key is not a compressed key, a
// payment has an unknown query method, an alias payment has no alias, or a
// public-key payment has no key.
func (c *Creator) Create(payments []txn.PaymentRequest) (*txn.Draft, error) {
	// The spender receives the change output.
	if _, err := txn.PublicKeyFromBytes(c.spender[:]); err != nil {
		return nil, fmt.Errorf("spender: %w", err)
	}

	copied := make([]txn.PaymentRequest, len(payments))
	for i, p := range payments {
		switch p.QueryMethod {
		case txn.QueryAlias:
			if p.Alias == "" {
				return nil, &txn.IntentError{
					Code:    txn.ErrInvalidIntent,
					Message: fmt.Sprintf("payment %d: alias query without alias", i),
				}
			}
		case txn.QueryPublicKey:
			if p.PublicKey == nil {
				return nil, &txn.IntentError{
					Code:    txn.ErrInvalidIntent,
					Message: fmt.Sprintf("payment %d: publicKey query without public key", i),
				}
			}
			key, err := txn.PublicKeyFromBytes(p.PublicKey[:])
			if err != nil {
				return nil, fmt.Errorf("payment %d: %w", i, err)
			}
			p.PublicKey = &key
		default:
			return nil, &txn.IntentError{
				Code:    txn.ErrInvalidIntent,
				Message: fmt.Sprintf("payment %d: unknown query method %q", i, p.QueryMethod),
			}
		}
		copied[i] = p
	}

	d := &txn.Draft{
		Spender:  c.spender,
		Fee:      c.fee,
		Unspent:  c.unspent,
		Payments: copied,
	}

	// Reject totals that cannot be represented before any network call is made.
	if _, err := d.Required(); err != nil {
		return nil, err
	}

	return d, nil
}
