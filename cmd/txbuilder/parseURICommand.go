package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ledger-txbuilder/pkg/api"
)

func newParseURICommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse-uri <uri>",
		Short: "Parses a ledger: payment request URI",
		Long:  `Parses a payment request URI. With --json the payments are printed as intent outputDetails.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := api.ParsePaymentRequest(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse URI: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				body, err := json.MarshalIndent(req.PaymentRequests(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(body))
				return err
			}

			fmt.Fprintln(out, "Payment Request:")
			fmt.Fprintf(out, "  Payments: %d\n", len(req.Payments))
			for i, p := range req.Payments {
				fmt.Fprintf(out, "\nPayment %d:\n", i+1)
				if p.PublicKey != nil {
					fmt.Fprintf(out, "  Public key: %s\n", p.PublicKey)
				} else {
					fmt.Fprintf(out, "  Alias:      %s\n", p.Alias)
				}
				fmt.Fprintf(out, "  Amount:     %s\n", p.Amount)
				if p.Label != "" {
					fmt.Fprintf(out, "  Label:      %s\n", p.Label)
				}
				if p.Message != "" {
					fmt.Fprintf(out, "  Message:    %s\n", p.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print outputDetails JSON")
	return cmd
}
