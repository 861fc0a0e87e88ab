package txn

// Draft is the private working set of a single build.
//
// It is created by the Creator role and filled in stage by stage:
//
//	Creator     -> Spender, Fee, Unspent, Payments
//	Resolver    -> Resolved
//	Selector    -> Inputs, Change
//	IoFinalizer -> Outputs, Digest
//	Signer      -> Signatures
//	TxExtractor -> Request (no Draft mutation)
//
// A Draft is owned by exactly one build and is never shared between builds.
// Caller-supplied slices are copied on creation and never written back.
type Draft struct {
	Spender  PublicKey        // Receives the change output
	Fee      Amount           // Transaction fee
	Unspent  []UnspentOutput  // Candidate inputs in caller order
	Payments []PaymentRequest // Requested payments in caller order

	Resolved []ResolvedOutput // Payments with recipients resolved, same order as Payments

	Inputs []SelectedInput // Greedy selection from Unspent
	Change Amount          // sum(Inputs) - (Fee + sum(Payments))

	Outputs []ResolvedOutput // Change output followed by Resolved
	Digest  *OutputDigest    // Digest of EncodeOutputs(Outputs), set once

	Signatures [][]byte // One per entry in Inputs, same order
}

// Stage names, used in logs and error messages.
const (
	StageResolve  = "resolve"
	StageSelect   = "select"
	StageFinalize = "finalize"
	StageSign     = "sign"
	StageExtract  = "extract"
)

// Required returns Fee + sum(Payments) at 256-bit width.
func (d *Draft) Required() (Amount, error) {
	amounts := make([]Amount, 0, len(d.Payments)+1)
	amounts = append(amounts, d.Fee)
	for _, p := range d.Payments {
		amounts = append(amounts, p.Amount)
	}
	return SumAmounts(amounts...)
}

// InputTotal returns the sum of the selected input amounts.
func (d *Draft) InputTotal() (Amount, error) {
	amounts := make([]Amount, len(d.Inputs))
	for i, in := range d.Inputs {
		amounts[i] = in.Amount
	}
	return SumAmounts(amounts...)
}
