package roles

import (
	"context"
	"errors"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AliasLookup resolves one alias to a public key.
//
// Implementations carry their own timeout policy. *alias.Client satisfies it.
type AliasLookup interface {
	Lookup(ctx context.Context, alias string) (txn.PublicKey, error)
}

// AliasResolver resolves every alias payment of a Draft.
//
// One lookup is issued per alias payment, all concurrently. Payments addressed
// by public key pass through without a lookup. The stage completes once every
// lookup has returned; the first failure cancels the remaining lookups and is
// reported as *txn.AliasResolutionError.
type AliasResolver struct {
	lookup AliasLookup
	limit  int
	logger *zap.Logger
}

// NewAliasResolver creates a resolver. A nil logger is replaced by a no-op logger.
func NewAliasResolver(lookup AliasLookup, logger *zap.Logger) *AliasResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AliasResolver{lookup: lookup, limit: -1, logger: logger}
}

// WithConcurrency caps the number of lookups in flight. n <= 0 means no cap.
func (r *AliasResolver) WithConcurrency(n int) *AliasResolver {
	if n <= 0 {
		n = -1
	}
	r.limit = n
	return r
}

// Resolve fills d.Resolved, one entry per payment in the original order.
//
// d.Resolved is only assigned when every lookup succeeded; on failure the
// Draft is left untouched.
func (r *AliasResolver) Resolve(ctx context.Context, d *txn.Draft) error {
	resolved := make([]txn.ResolvedOutput, len(d.Payments))

	var pending []int
	for i, p := range d.Payments {
		resolved[i].Amount = p.Amount

		if p.QueryMethod == txn.QueryAlias {
			pending = append(pending, i)
			continue
		}
		if p.PublicKey == nil {
			return &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "payment without public key"}
		}
		resolved[i].Recipient = *p.PublicKey
	}

	if len(pending) > 0 && r.lookup == nil {
		return &txn.AliasResolutionError{
			Alias: d.Payments[pending[0]].Alias,
			Cause: errors.New("no alias lookup configured"),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, i := range pending {
		// Each task writes only its own slot.
		slot := &resolved[i]
		name := d.Payments[i].Alias
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &txn.AliasResolutionError{Alias: name, Cause: err}
			}
			pk, err := r.lookup.Lookup(gctx, name)
			if err != nil {
				r.logger.Warn("alias lookup failed", zap.String("alias", name), zap.Error(err))
				return &txn.AliasResolutionError{Alias: name, Cause: err}
			}
			slot.Recipient = pk
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Debug("aliases resolved",
		zap.String("stage", txn.StageResolve),
		zap.Int("payments", len(d.Payments)),
		zap.Int("lookups", len(pending)))

	d.Resolved = resolved
	return nil
}
