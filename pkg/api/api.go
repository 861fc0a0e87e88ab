// Package api provides the high-level public API for building transaction requests.
//
// This is the main entry point for applications using the txbuilder library:
//
//  1. DecodeIntent - Reads a build intent from JSON
//  2. BuildTransaction - Runs the full pipeline and returns the signed request
//  3. VerifyRequest - Checks every signature of a request against its outputs
//  4. ParsePaymentRequest - Parses a ledger: payment request URI
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/suffix-labs/ledger-txbuilder/pkg/crypto"
	"github.com/suffix-labs/ledger-txbuilder/pkg/payreq"
	"github.com/suffix-labs/ledger-txbuilder/pkg/roles"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
)

// Intent is everything the caller supplies for one build.
type Intent struct {
	PublicKey       txn.PublicKey        `json:"publicKey"`       // Spender key, receives the change
	PrivateKey      string               `json:"privateKey"`      // Spender key as 64 hex chars or WIF
	UnusedOutputs   []txn.UnspentOutput  `json:"unusedOutputs"`   // Candidate inputs in selection order
	TransactionFees txn.Amount           `json:"transactionFees"` // Fee in base units
	OutputDetails   []txn.PaymentRequest `json:"outputDetails"`   // Payments in output order
}

// ============================================================================
// API Function 1: DecodeIntent
// ============================================================================

// DecodeIntent reads an Intent from its JSON form.
//
// Unknown fields are rejected. Returns *txn.IntentError on malformed input.
func DecodeIntent(r io.Reader) (*Intent, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var intent Intent
	if err := dec.Decode(&intent); err != nil {
		return nil, &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "cannot decode intent", Cause: err}
	}
	return &intent, nil
}

// ============================================================================
// API Function 2: BuildTransaction
// ============================================================================

// Builder runs the build pipeline.
//
// A Builder holds configuration only. It is safe for concurrent use, and
// every build works on its own Draft.
type Builder struct {
	lookup      roles.AliasLookup
	digester    crypto.Digester
	logger      *zap.Logger
	concurrency int
}

// Option configures a Builder.
type Option func(*Builder)

// WithAliasLookup sets the alias lookup used for "alias" payments.
func WithAliasLookup(lookup roles.AliasLookup) Option {
	return func(b *Builder) { b.lookup = lookup }
}

// WithDigester sets the output digest primitive. The default is SHA-256.
func WithDigester(d crypto.Digester) Option {
	return func(b *Builder) { b.digester = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithConcurrency caps concurrent lookups and signing calls per build.
func WithConcurrency(n int) Option {
	return func(b *Builder) { b.concurrency = n }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		digester: crypto.SHA256,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildTransaction builds a request signed with intent.PrivateKey.
//
// The private key must belong to intent.PublicKey.
func BuildTransaction(ctx context.Context, intent *Intent, opts ...Option) (*txn.Request, error) {
	return NewBuilder(opts...).BuildTransaction(ctx, intent)
}

// BuildTransaction builds a request signed with intent.PrivateKey.
func (b *Builder) BuildTransaction(ctx context.Context, intent *Intent) (*txn.Request, error) {
	if intent == nil {
		return nil, &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "nil intent"}
	}

	key, err := crypto.ParsePrivateKey(intent.PrivateKey)
	if err != nil {
		return nil, &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "invalid private key", Cause: err}
	}
	defer key.Zero()

	if key.PublicKey().SerializeCompressed() != intent.PublicKey {
		return nil, &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "private key does not match public key"}
	}

	return b.Build(ctx, intent, key)
}

// Build runs the pipeline with an explicit signer; intent.PrivateKey is ignored.
//
// Stages run strictly in order:
//
//	create -> resolve aliases -> select coins -> finalize outputs -> sign -> extract
//
// The first failing stage ends the build. No partial request is returned.
func (b *Builder) Build(ctx context.Context, intent *Intent, signer roles.InputSigner) (*txn.Request, error) {
	if intent == nil {
		return nil, &txn.IntentError{Code: txn.ErrInvalidIntent, Message: "nil intent"}
	}

	logger := b.logger.With(zap.String("build_id", uuid.NewString()))
	logger.Debug("building transaction",
		zap.Stringer("spender", intent.PublicKey),
		zap.Int("unspent", len(intent.UnusedOutputs)),
		zap.Int("payments", len(intent.OutputDetails)))

	// Step 1: Creator - Validate intent
	d, err := roles.NewCreator(intent.PublicKey, intent.TransactionFees).
		WithUnspent(intent.UnusedOutputs).
		Create(intent.OutputDetails)
	if err != nil {
		return nil, err
	}

	// Step 2: Resolver - Look up every alias
	resolver := roles.NewAliasResolver(b.lookup, logger).WithConcurrency(b.concurrency)
	if err := resolver.Resolve(ctx, d); err != nil {
		return nil, err
	}

	// Step 3: Selector - Pick inputs and compute change
	if err := roles.NewCoinSelector(logger).Select(d); err != nil {
		return nil, err
	}

	// Step 4: IO Finalizer - Lock outputs and hash them
	if err := roles.NewIoFinalizer(b.digester, logger).Finalize(d); err != nil {
		return nil, err
	}

	// Step 5: Signer - Sign every input
	if err := roles.NewSigner(signer, logger).WithConcurrency(b.concurrency).SignInputs(ctx, d); err != nil {
		return nil, err
	}

	// Step 6: Extractor - Assemble the request
	req, err := roles.NewTxExtractor().Extract(d)
	if err != nil {
		return nil, fmt.Errorf("request assembly failed: %w", err)
	}

	logger.Info("transaction built",
		zap.Int("inputs", len(req.Inputs)),
		zap.Int("outputs", len(req.Outputs)),
		zap.Stringer("change", d.Change),
		zap.Stringer("digest", d.Digest))

	return req, nil
}

// ============================================================================
// API Function 3: VerifyRequest
// ============================================================================

// VerifyRequest checks that every input signature of req verifies against
// spender over the signing data rebuilt from req's own outputs.
//
// A nil digester selects SHA-256. Returns *txn.VerificationError for the
// first input that fails.
func VerifyRequest(req *txn.Request, spender txn.PublicKey, digester crypto.Digester) error {
	if req == nil {
		return &txn.VerificationError{InputIndex: -1, Message: "nil request"}
	}
	if digester == nil {
		digester = crypto.SHA256
	}

	pub, err := crypto.ParsePublicKey(spender[:])
	if err != nil {
		return &txn.IntentError{Code: txn.ErrInvalidPublicKey, Message: "spender key is not on the curve", Cause: err}
	}

	sum, err := digester.Digest(txn.EncodeOutputs(req.Outputs))
	if err != nil {
		return &txn.HashingError{Cause: err}
	}
	digest := txn.OutputDigest(sum)

	for i, in := range req.Inputs {
		data := txn.SigningData(txn.SelectedInput{TransactionID: in.TransactionID, Index: in.Index}, digest)
		if !crypto.VerifySignature(pub, data[:], in.Signature) {
			return &txn.VerificationError{InputIndex: i, Message: "signature does not match outputs"}
		}
	}
	return nil
}

// ============================================================================
// API Function 4: ParsePaymentRequest
// ============================================================================

// ParsePaymentRequest parses a ledger: payment request URI.
//
// This is a convenience function that wraps the payreq package.
func ParsePaymentRequest(uri string) (*payreq.Request, error) {
	return payreq.Parse(uri)
}
