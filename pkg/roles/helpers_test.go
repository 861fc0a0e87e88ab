package roles

import (
	"context"
	"errors"
	"sync"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

func testTxID(b byte) txn.TransactionID {
	var id txn.TransactionID
	for i := range id {
		id[i] = b
	}
	return id
}

func testKey(b byte) txn.PublicKey {
	var pk txn.PublicKey
	pk[0] = 0x02
	for i := 1; i < len(pk); i++ {
		pk[i] = b
	}
	return pk
}

func unspent(amounts ...uint64) []txn.UnspentOutput {
	out := make([]txn.UnspentOutput, len(amounts))
	for i, a := range amounts {
		out[i] = txn.UnspentOutput{
			TransactionID: testTxID(byte(i + 1)),
			Index:         uint32(i),
			Amount:        txn.NewAmount(a),
		}
	}
	return out
}

func payKey(b byte, amount uint64) txn.PaymentRequest {
	pk := testKey(b)
	return txn.PaymentRequest{QueryMethod: txn.QueryPublicKey, PublicKey: &pk, Amount: txn.NewAmount(amount)}
}

func payAlias(alias string, amount uint64) txn.PaymentRequest {
	return txn.PaymentRequest{QueryMethod: txn.QueryAlias, Alias: alias, Amount: txn.NewAmount(amount)}
}

// fakeLookup serves a fixed alias table and records every call.
type fakeLookup struct {
	mu    sync.Mutex
	table map[string]txn.PublicKey
	fail  map[string]error
	calls []string
}

func (f *fakeLookup) Lookup(ctx context.Context, alias string) (txn.PublicKey, error) {
	f.mu.Lock()
	f.calls = append(f.calls, alias)
	f.mu.Unlock()

	if err, ok := f.fail[alias]; ok {
		return txn.PublicKey{}, err
	}
	pk, ok := f.table[alias]
	if !ok {
		return txn.PublicKey{}, errors.New("status 404")
	}
	return pk, nil
}

func (f *fakeLookup) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// recordingSigner returns the signed message itself as the signature.
type recordingSigner struct {
	mu       sync.Mutex
	messages [][]byte
	failOn   map[byte]error // keyed by the first transaction id byte
}

func (s *recordingSigner) Sign(message []byte) ([]byte, error) {
	s.mu.Lock()
	s.messages = append(s.messages, append([]byte(nil), message...))
	s.mu.Unlock()

	if err, ok := s.failOn[message[0]]; ok {
		return nil, err
	}
	return append([]byte(nil), message...), nil
}

func (s *recordingSigner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
