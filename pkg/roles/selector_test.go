package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

// resolvedDraft builds a Draft that is ready for coin selection.
func resolvedDraft(t *testing.T, fee uint64, utxos []txn.UnspentOutput, payments ...txn.PaymentRequest) *txn.Draft {
	t.Helper()

	d, err := NewCreator(testKey(0xaa), txn.NewAmount(fee)).WithUnspent(utxos).Create(payments)
	require.NoError(t, err)
	require.NoError(t, NewAliasResolver(nil, nil).Resolve(t.Context(), d))
	return d
}

func TestSelectGreedyFirstFit(t *testing.T) {
	d := resolvedDraft(t, 2, unspent(10, 5, 20), payKey(0xbb, 10))

	require.NoError(t, NewCoinSelector(nil).Select(d))

	require.Len(t, d.Inputs, 2)
	assert.Equal(t, txn.NewAmount(10), d.Inputs[0].Amount)
	assert.Equal(t, txn.NewAmount(5), d.Inputs[1].Amount)
	assert.Equal(t, uint32(0), d.Inputs[0].Index)
	assert.Equal(t, uint32(1), d.Inputs[1].Index)
	assert.Equal(t, txn.NewAmount(3), d.Change)
}

func TestSelectTable(t *testing.T) {
	tests := []struct {
		name       string
		fee        uint64
		utxos      []uint64
		payments   []uint64
		wantInputs int
		wantChange uint64
	}{
		{"single covers", 1, []uint64{100}, []uint64{50}, 1, 49},
		{"exact match", 5, []uint64{10, 10}, []uint64{15}, 2, 0},
		{"stops at first sufficient", 0, []uint64{30, 30, 30}, []uint64{31}, 2, 29},
		{"does not reorder", 0, []uint64{1, 1, 100}, []uint64{50}, 3, 52},
		{"fee only", 3, []uint64{2, 2}, nil, 2, 1},
		{"multiple payments", 1, []uint64{4, 4, 4}, []uint64{3, 4}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payments []txn.PaymentRequest
			for i, a := range tt.payments {
				payments = append(payments, payKey(byte(0xb0+i), a))
			}
			d := resolvedDraft(t, tt.fee, unspent(tt.utxos...), payments...)

			require.NoError(t, NewCoinSelector(nil).Select(d))
			assert.Len(t, d.Inputs, tt.wantInputs)
			assert.Equal(t, txn.NewAmount(tt.wantChange), d.Change)

			// sum(inputs) == fee + sum(payments) + change
			in, err := d.InputTotal()
			require.NoError(t, err)
			required, err := d.Required()
			require.NoError(t, err)
			total, ok := required.Add(d.Change)
			require.True(t, ok)
			assert.Equal(t, in, total)
		})
	}
}

func TestSelectInsufficientBalance(t *testing.T) {
	d := resolvedDraft(t, 1, unspent(3, 4), payKey(0xbb, 10))

	err := NewCoinSelector(nil).Select(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, txn.ErrInsufficientBalance)

	var balanceErr *txn.InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, txn.NewAmount(11), balanceErr.Required)
	assert.Equal(t, txn.NewAmount(7), balanceErr.Available)

	assert.Nil(t, d.Inputs)
	assert.True(t, d.Change.IsZero())
}

func TestSelectNoUnspent(t *testing.T) {
	d := resolvedDraft(t, 1, nil, payKey(0xbb, 1))

	err := NewCoinSelector(nil).Select(d)
	assert.ErrorIs(t, err, txn.ErrInsufficientBalance)
}

func TestSelectBeforeResolve(t *testing.T) {
	d, err := NewCreator(testKey(0xaa), txn.NewAmount(1)).
		WithUnspent(unspent(10)).
		Create([]txn.PaymentRequest{payAlias("bob", 1)})
	require.NoError(t, err)

	assert.Error(t, NewCoinSelector(nil).Select(d))
}
