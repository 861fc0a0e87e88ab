// Package payreq implements the ledger payment request URI format.
//
// A payment request URI carries one or more payments that can be shared as a
// link or QR code and fed straight into a build:
//
//	ledger:<alias>?amount=<amount>&label=<label>&message=<message>
//	ledger:?pubkey=<hex>&amount=<amount>
//
// Multiple recipients use indexed parameters. Index 0 may omit its suffix:
//
//	ledger:?alias.1=bob&amount.1=5&pubkey.2=02ab..&amount.2=7
//
// Amounts are unsigned integers in base units. Every payment names exactly
// one recipient, either an alias or a compressed public key.
package payreq

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
)

// Scheme is the URI scheme, including the colon.
const Scheme = "ledger:"

// maxIndex is the largest accepted parameter index.
const maxIndex = 9999

// Parameter names.
const (
	paramAlias   = "alias"
	paramPubKey  = "pubkey"
	paramAmount  = "amount"
	paramLabel   = "label"
	paramMessage = "message"
)

var paymentParams = []string{paramAlias, paramPubKey, paramAmount, paramLabel, paramMessage}

// Request is a parsed payment request.
type Request struct {
	Payments []Payment
}

// Payment is a single payment within a Request.
//
// Exactly one of Alias and PublicKey is set. Label and Message are display
// metadata and do not affect the built transaction.
type Payment struct {
	Alias     string
	PublicKey *txn.PublicKey
	Amount    txn.Amount
	Label     string
	Message   string
}

// PaymentRequest converts p into the build input form.
func (p Payment) PaymentRequest() txn.PaymentRequest {
	if p.PublicKey != nil {
		pk := *p.PublicKey
		return txn.PaymentRequest{QueryMethod: txn.QueryPublicKey, PublicKey: &pk, Amount: p.Amount}
	}
	return txn.PaymentRequest{QueryMethod: txn.QueryAlias, Alias: p.Alias, Amount: p.Amount}
}

// PaymentRequests converts every payment of r, in order.
func (r *Request) PaymentRequests() []txn.PaymentRequest {
	out := make([]txn.PaymentRequest, len(r.Payments))
	for i, p := range r.Payments {
		out[i] = p.PaymentRequest()
	}
	return out
}

// Parse parses a payment request URI.
//
// The "ledger:" prefix is optional. Returns an error if the URI is malformed,
// a payment has no recipient or two recipients, or an amount is missing or
// not an unsigned integer.
func Parse(uri string) (*Request, error) {
	uri = strings.TrimSpace(uri)
	if len(uri) >= len(Scheme) && strings.EqualFold(uri[:len(Scheme)], Scheme) {
		uri = uri[len(Scheme):]
	}

	var baseAlias, query string
	if before, after, found := strings.Cut(uri, "?"); found {
		baseAlias, query = before, after
	} else if strings.Contains(uri, "=") {
		query = uri
	} else {
		baseAlias = uri
	}

	if baseAlias != "" {
		unescaped, err := url.PathUnescape(baseAlias)
		if err != nil {
			return nil, fmt.Errorf("invalid alias: %w", err)
		}
		baseAlias = unescaped
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	var payments []Payment
	if hasIndexedParams(params) {
		if baseAlias != "" {
			return nil, fmt.Errorf("alias %q in path cannot be combined with indexed parameters", baseAlias)
		}
		payments, err = parseIndexedPayments(params)
	} else {
		var payment Payment
		payment, err = parsePayment(params, 0, baseAlias)
		payments = []Payment{payment}
	}
	if err != nil {
		return nil, err
	}

	return &Request{Payments: payments}, nil
}

// parsePayment reads the payment at index from params.
func parsePayment(params url.Values, index int, baseAlias string) (Payment, error) {
	payment := Payment{
		Alias:   baseAlias,
		Label:   getIndexedParam(params, paramLabel, index),
		Message: getIndexedParam(params, paramMessage, index),
	}

	if alias := getIndexedParam(params, paramAlias, index); alias != "" {
		if payment.Alias != "" {
			return payment, fmt.Errorf("payment %d: alias given twice", index)
		}
		payment.Alias = alias
	}

	if hexKey := getIndexedParam(params, paramPubKey, index); hexKey != "" {
		if payment.Alias != "" {
			return payment, fmt.Errorf("payment %d: both alias and pubkey given", index)
		}
		pk, err := txn.ParsePublicKeyHex(hexKey)
		if err != nil {
			return payment, fmt.Errorf("payment %d: %w", index, err)
		}
		payment.PublicKey = &pk
	}

	if payment.Alias == "" && payment.PublicKey == nil {
		return payment, fmt.Errorf("payment %d: missing recipient", index)
	}

	amountStr := getIndexedParam(params, paramAmount, index)
	if amountStr == "" {
		return payment, fmt.Errorf("payment %d: missing amount", index)
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return payment, fmt.Errorf("payment %d: invalid amount: %w", index, err)
	}
	payment.Amount = amount

	return payment, nil
}

// parseIndexedPayments parses every indexed payment in ascending index order.
func parseIndexedPayments(params url.Values) ([]Payment, error) {
	indices := make(map[int]struct{})
	for key := range params {
		name, idx, ok := splitParam(key)
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q", key)
		}
		if slices.Contains(paymentParams, name) {
			indices[idx] = struct{}{}
		}
	}

	payments := make([]Payment, 0, len(indices))
	for _, idx := range slices.Sorted(maps.Keys(indices)) {
		payment, err := parsePayment(params, idx, "")
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// hasIndexedParams reports whether any parameter carries an index suffix.
func hasIndexedParams(params url.Values) bool {
	for key := range params {
		if strings.Contains(key, ".") {
			return true
		}
	}
	return false
}

// splitParam splits "amount.3" into ("amount", 3). A name without suffix is index 0.
func splitParam(key string) (name string, index int, ok bool) {
	name, suffix, found := strings.Cut(key, ".")
	if !found {
		return name, 0, true
	}

	// Leading zeros are not allowed, so each index has one spelling.
	if suffix == "" || (len(suffix) > 1 && suffix[0] == '0') {
		return "", -1, false
	}
	idx, err := strconv.Atoi(suffix)
	if err != nil || idx < 0 || idx > maxIndex {
		return "", -1, false
	}
	return name, idx, true
}

// getIndexedParam gets a parameter value for a specific index.
//
// Index 0 is looked up both as "name" and "name.0".
func getIndexedParam(params url.Values, name string, index int) string {
	if index == 0 {
		if val := params.Get(name); val != "" {
			return val
		}
	}
	return params.Get(fmt.Sprintf("%s.%d", name, index))
}

// parseAmount accepts decimal digits only.
func parseAmount(s string) (txn.Amount, error) {
	if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return txn.Amount{}, fmt.Errorf("%q is not an unsigned integer", s)
	}
	return txn.ParseAmount(s)
}

// ============================================================================
// Encoding
// ============================================================================

// Encode renders r as a URI. Parse(r.Encode()) yields r again.
//
// A single alias payment uses the alias as the URI path; everything else uses
// indexed parameters starting at 1.
func (r *Request) Encode() string {
	switch {
	case len(r.Payments) == 0:
		return Scheme
	case len(r.Payments) == 1 && r.Payments[0].PublicKey == nil:
		return encodeSinglePayment(r.Payments[0])
	default:
		return encodeMultiplePayments(r.Payments)
	}
}

func encodeSinglePayment(p Payment) string {
	uri := Scheme + url.PathEscape(p.Alias)

	params := url.Values{}
	params.Add(paramAmount, p.Amount.String())
	if p.Label != "" {
		params.Add(paramLabel, p.Label)
	}
	if p.Message != "" {
		params.Add(paramMessage, p.Message)
	}

	return uri + "?" + params.Encode()
}

func encodeMultiplePayments(payments []Payment) string {
	params := url.Values{}

	for i, p := range payments {
		idx := fmt.Sprintf(".%d", i+1)

		if p.PublicKey != nil {
			params.Add(paramPubKey+idx, p.PublicKey.String())
		} else {
			params.Add(paramAlias+idx, p.Alias)
		}
		params.Add(paramAmount+idx, p.Amount.String())
		if p.Label != "" {
			params.Add(paramLabel+idx, p.Label)
		}
		if p.Message != "" {
			params.Add(paramMessage+idx, p.Message)
		}
	}

	return Scheme + "?" + params.Encode()
}
