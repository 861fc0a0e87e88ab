package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ledger-txbuilder/pkg/crypto"
)

func newKeygenCommand() *cobra.Command {
	var testnet bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generates a secp256k1 key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GeneratePrivateKey()
			if err != nil {
				return err
			}
			defer key.Zero()

			wif, err := crypto.EncodeWIF(key.Bytes(), true, testnet)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Private key (hex): %s\n", hex.EncodeToString(key.Bytes()))
			fmt.Fprintf(out, "Private key (WIF): %s\n", wif)
			fmt.Fprintf(out, "Public key:        %s\n", key.PublicKey().SerializeCompressed())
			return nil
		},
	}

	cmd.Flags().BoolVar(&testnet, "testnet", false, "use the testnet WIF version byte")
	return cmd
}
