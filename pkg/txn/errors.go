// Package txn error types.
//
// Every stage of a build fails with exactly one of these types. They carry a
// code constant for programmatic handling and wrap the underlying cause so
// callers can use errors.As / errors.Is.
package txn

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrAliasResolution     = errors.New(ErrAliasResolutionFailed)
	ErrInsufficientBalance = errors.New(ErrInsufficientFunds)
	ErrSigning             = errors.New(ErrSigningFailed)
	ErrHashing             = errors.New(ErrHashingUnavailable)
)

// AliasResolutionError is returned when an alias lookup fails.
//
// The lookup either answered with a non-success status or the transport
// failed. No later stage runs.
type AliasResolutionError struct {
	Alias string // Alias that could not be resolved
	Cause error  // Transport or status error
}

func (e *AliasResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("alias resolution failed [%s]: %q: %v", ErrAliasResolutionFailed, e.Alias, e.Cause)
	}
	return fmt.Sprintf("alias resolution failed [%s]: %q", ErrAliasResolutionFailed, e.Alias)
}

func (e *AliasResolutionError) Unwrap() error { return e.Cause }

func (e *AliasResolutionError) Is(target error) bool { return target == ErrAliasResolution }

// InsufficientBalanceError is returned when the unspent outputs, consumed
// greedily in caller order, never reach fee + sum(payments).
type InsufficientBalanceError struct {
	Required  Amount // fee + sum of payment amounts
	Available Amount // sum of every unspent output offered
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance [%s]: required %s, available %s",
		ErrInsufficientFunds, e.Required, e.Available)
}

func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrInsufficientBalance }

// SigningError is returned when the signing primitive rejects an input.
type SigningError struct {
	InputIndex int    // Position of the input in the selected set
	InputRef   string // "txid:index" of the input
	Cause      error  // Error from the signing primitive
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed [%s] at input %d (%s): %v", ErrSigningFailed, e.InputIndex, e.InputRef, e.Cause)
}

func (e *SigningError) Unwrap() error { return e.Cause }

func (e *SigningError) Is(target error) bool { return target == ErrSigning }

// HashingError is returned when the hash primitive is unavailable.
//
// This is an environment failure and is never retried.
type HashingError struct {
	Cause error
}

func (e *HashingError) Error() string {
	return fmt.Sprintf("hashing unavailable [%s]: %v", ErrHashingUnavailable, e.Cause)
}

func (e *HashingError) Unwrap() error { return e.Cause }

func (e *HashingError) Is(target error) bool { return target == ErrHashing }

// IntentError is returned when the caller-supplied intent is malformed.
type IntentError struct {
	Code    string // ErrInvalidIntent, ErrInvalidPublicKey or ErrAmountOverflow
	Message string
	Cause   error
}

func (e *IntentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid intent [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid intent [%s]: %s", e.Code, e.Message)
}

func (e *IntentError) Unwrap() error { return e.Cause }

// VerificationError is returned by request verification.
type VerificationError struct {
	InputIndex int
	Message    string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification failed [%s] at input %d: %s", ErrInvalidSignature, e.InputIndex, e.Message)
}

// Error codes.
const (
	ErrAliasResolutionFailed = "ALIAS_RESOLUTION_FAILED" // Alias lookup failed
	ErrInsufficientFunds     = "INSUFFICIENT_BALANCE"    // Unspent outputs do not cover fee + payments
	ErrSigningFailed         = "SIGNING_FAILED"          // Signing primitive rejected key or data
	ErrHashingUnavailable    = "HASHING_UNAVAILABLE"     // Hash primitive unavailable
	ErrInvalidIntent         = "INVALID_INTENT"          // Malformed intent
	ErrInvalidPublicKey      = "INVALID_PUBLIC_KEY"      // Key has wrong length or prefix
	ErrAmountOverflow        = "AMOUNT_OVERFLOW"         // Amount sum exceeds 256 bits
	ErrInvalidSignature      = "INVALID_SIGNATURE"       // Signature does not verify
)
