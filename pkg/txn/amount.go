package txn

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit coin amount.
//
// All sums and comparisons are performed at 256-bit width. Additions report
// overflow instead of wrapping. The zero value is 0.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an Amount holding n.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a base-10 amount string.
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, &IntentError{Code: ErrInvalidIntent, Message: fmt.Sprintf("invalid amount %q", s), Cause: err}
	}
	return Amount{v: *v}, nil
}

// Add returns a+b, or ok=false if the sum does not fit in 256 bits.
func (a Amount) Add(b Amount) (sum Amount, ok bool) {
	_, overflow := sum.v.AddOverflow(&a.v, &b.v)
	return sum, !overflow
}

// Sub returns a-b. It panics if b > a; callers compare first.
func (a Amount) Sub(b Amount) Amount {
	if a.v.Lt(&b.v) {
		panic(fmt.Sprintf("txn: amount underflow %s - %s", a, b))
	}
	var diff Amount
	diff.v.Sub(&a.v, &b.v)
	return diff
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero reports whether a is 0.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Bytes32 returns the 32-byte big-endian encoding of a.
func (a Amount) Bytes32() [AmountSize]byte {
	return a.v.Bytes32()
}

// String returns the base-10 representation.
func (a Amount) String() string {
	return a.v.Dec()
}

// MarshalJSON encodes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if bytes.ContainsAny(data, ".eE-") {
		return &IntentError{Code: ErrInvalidIntent, Message: fmt.Sprintf("amount %s is not an unsigned integer", data)}
	}
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SumAmounts adds amounts at 256-bit width.
func SumAmounts(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var ok bool
		total, ok = total.Add(a)
		if !ok {
			return Amount{}, &IntentError{Code: ErrAmountOverflow, Message: "amount sum exceeds 256 bits"}
		}
	}
	return total, nil
}
