package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/suffix-labs/ledger-txbuilder/pkg/alias"
	"github.com/suffix-labs/ledger-txbuilder/pkg/api"
)

func newBuildCommand(a *app) *cobra.Command {
	var (
		intentPath  string
		outPath     string
		concurrency int
		noVerify    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Builds a signed request from an intent",
		Long: `Reads an intent document (publicKey, privateKey, unusedOutputs,
transactionFees, outputDetails), resolves aliases, selects inputs, signs
them and writes the request JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, intentPath)
			if err != nil {
				return err
			}
			defer closeIn()

			intent, err := api.DecodeIntent(in)
			if err != nil {
				return err
			}

			digester, err := a.cfg.Digester()
			if err != nil {
				return err
			}

			opts := []api.Option{
				api.WithDigester(digester),
				api.WithLogger(a.logger),
				api.WithConcurrency(concurrency),
			}
			if a.cfg.AliasURL != "" {
				client, err := alias.NewClient(a.cfg.AliasURL,
					alias.WithTimeout(a.cfg.AliasTimeout),
					alias.WithLogger(a.logger))
				if err != nil {
					return err
				}
				opts = append(opts, api.WithAliasLookup(client))
			}

			req, err := api.NewBuilder(opts...).BuildTransaction(cmd.Context(), intent)
			if err != nil {
				return err
			}

			if !noVerify {
				if err := api.VerifyRequest(req, intent.PublicKey, digester); err != nil {
					return fmt.Errorf("built request does not verify: %w", err)
				}
			}

			body, err := req.MarshalIndent()
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, append(body, '\n'))
		},
	}

	cmd.Flags().StringVarP(&intentPath, "intent", "i", "-", "intent JSON file, - for stdin")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "request JSON file, - for stdout")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent lookups and signatures, 0 for no limit")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip verifying the built request")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
