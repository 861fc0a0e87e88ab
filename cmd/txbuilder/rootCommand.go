package main

import (
	"github.com/spf13/cobra"
	"github.com/suffix-labs/ledger-txbuilder/pkg/config"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	options struct {
		envFile      string
		aliasURL     string
		aliasTimeout string
		hash         string
		logLevel     string
		logFormat    string
	}
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "txbuilder",
		Short:         "Builds signed transaction requests",
		Long:          `Builds signed ledger transaction requests from a spending intent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.options.envFile, "env-file", "", "environment file (default .env if present)")
	flags.StringVar(&a.options.aliasURL, "alias-url", "", "alias lookup service base URL (env "+config.EnvAliasURL+")")
	flags.StringVar(&a.options.aliasTimeout, "alias-timeout", "", "alias lookup timeout (env "+config.EnvAliasTimeout+")")
	flags.StringVar(&a.options.hash, "hash", "", "output digest: sha256 or blake2b (env "+config.EnvHash+")")
	flags.StringVar(&a.options.logLevel, "log-level", "", "debug, info, warn or error (env "+config.EnvLogLevel+")")
	flags.StringVar(&a.options.logFormat, "log-format", "", "console or json (env "+config.EnvLogFormat+")")

	root.AddCommand(
		newBuildCommand(a),
		newVerifyCommand(a),
		newParseURICommand(),
		newKeygenCommand(),
		newVersionCommand(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.options.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("alias-url") {
		cfg.AliasURL = a.options.aliasURL
	}
	if flags.Changed("alias-timeout") {
		d, err := parseDuration(a.options.aliasTimeout)
		if err != nil {
			return err
		}
		cfg.AliasTimeout = d
	}
	if flags.Changed("hash") {
		cfg.Hash = a.options.hash
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.options.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.options.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}
