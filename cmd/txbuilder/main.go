// txbuilder CLI - builds signed transaction requests
//
// Example usage:
//
//	# Build a request from an intent document
//	txbuilder build --intent intent.json --alias-url https://wallet.example
//
//	# Verify a request against the spender key
//	txbuilder verify --request request.json --spender 02ab...
//
//	# Parse a payment request URI into outputDetails
//	txbuilder parse-uri "ledger:bob?amount=5"
//
//	# Generate a key pair
//	txbuilder keygen
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
