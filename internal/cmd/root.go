// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cmd wires the tune CLI: command tree, global flags, and the
// shared dependencies every command draws on.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tunestudio/tune/internal/session"
	"github.com/tunestudio/tune/internal/ux"
	"github.com/tunestudio/tune/pkg/config"
	"github.com/tunestudio/tune/pkg/output"
	"github.com/tunestudio/tune/pkg/studio"
)

// Environment variables honored by every command.
const (
	EnvEndpoint = "TUNE_ENDPOINT"
	EnvAPIKey   = "TUNE_API_KEY"
)

// rootOptions carries the resolved global flags.
type rootOptions struct {
	endpoint     string
	apiKey       string
	outputFormat string
	noPrompt     bool
	debug        bool
}

// NewRootCommand creates the root command for the tune CLI.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "tune",
		Short:         "Configure, launch and monitor model fine-tuning jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A local .env is a convenience for development setups; its
			// absence is not an error.
			_ = godotenv.Load()

			if opts.endpoint == "" {
				opts.endpoint = os.Getenv(EnvEndpoint)
			}
			if opts.apiKey == "" {
				opts.apiKey = os.Getenv(EnvAPIKey)
			}

			if !opts.debug {
				log.SetOutput(io.Discard)
			}

			formatter, err := output.NewFormatter(opts.outputFormat)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctx = output.WithFormatter(ctx, formatter)
			ctx = output.WithWriter(ctx, colorable.NewColorableStdout())
			cmd.SetContext(ctx)

			return nil
		},
	}

	bindGlobalFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(newConfigureCommand(opts))
	rootCmd.AddCommand(newJobsCommand(opts))
	rootCmd.AddCommand(newModelsCommand(opts))
	rootCmd.AddCommand(newFilesCommand(opts))
	rootCmd.AddCommand(newDatasetsCommand(opts))
	rootCmd.AddCommand(newEvaluateCommand(opts))
	rootCmd.AddCommand(newChatCommand(opts))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func bindGlobalFlags(flags *pflag.FlagSet, opts *rootOptions) {
	flags.StringVar(
		&opts.endpoint, "endpoint", "", "Backend endpoint URL (or "+EnvEndpoint+")")
	flags.StringVar(
		&opts.apiKey, "api-key", "", "API key sent as a bearer token (or "+EnvAPIKey+")")
	flags.StringVarP(
		&opts.outputFormat, "output", "o", string(output.NoneFormat),
		"Output format (json, table, none)")
	flags.BoolVar(
		&opts.noPrompt, "no-prompt", false, "Never ask for interactive input; fail instead")
	flags.BoolVar(
		&opts.debug, "debug", false, "Enable verbose logging")
}

// client builds the backend client from the resolved endpoint.
func (o *rootOptions) client() (*studio.Client, error) {
	if o.endpoint == "" {
		return nil, fmt.Errorf("no backend endpoint configured: pass --endpoint or set %s", EnvEndpoint)
	}

	return studio.NewClient(o.endpoint, &studio.ClientOptions{
		APIKey: o.apiKey,
	})
}

// asker builds the interactive prompter honoring --no-prompt.
func (o *rootOptions) asker() ux.Asker {
	isTerminal := isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	return ux.NewAsker(o.noPrompt, isTerminal, os.Stdout, os.Stdin)
}

// userConfig loads the user-wide configuration file.
func userConfig() (config.Config, config.FileConfigManager, error) {
	manager := config.NewFileConfigManager(config.NewManager())

	cfg, err := manager.LoadUserConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading user configuration: %w", err)
	}

	return cfg, manager, nil
}

// sessionStore opens the session record store under the user config dir.
func sessionStore() (*session.Store, error) {
	dir, err := config.GetUserConfigDir()
	if err != nil {
		return nil, err
	}

	return session.NewStore(filepath.Join(dir, "sessions"))
}
