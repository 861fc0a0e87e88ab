package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ledger-txbuilder/pkg/api"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
)

func newVerifyCommand(a *app) *cobra.Command {
	var (
		requestPath string
		spenderHex  string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verifies the signatures of a request",
		Long:  `Recomputes the output digest of a request and checks every input signature against the spender key.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spender, err := txn.ParsePublicKeyHex(spenderHex)
			if err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, requestPath)
			if err != nil {
				return err
			}
			defer closeIn()

			var req txn.Request
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("cannot decode request: %w", err)
			}

			digester, err := a.cfg.Digester()
			if err != nil {
				return err
			}
			if err := api.VerifyRequest(&req, spender, digester); err != nil {
				return err
			}

			a.logger.Debug("request verified", zap.Int("inputs", len(req.Inputs)), zap.Int("outputs", len(req.Outputs)))
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d inputs, %d outputs\n", len(req.Inputs), len(req.Outputs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "request JSON file, - for stdin")
	cmd.Flags().StringVar(&spenderHex, "spender", "", "spender compressed public key (hex)")
	_ = cmd.MarkFlagRequired("spender")
	return cmd
}
