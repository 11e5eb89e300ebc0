// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/pkg/output"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tune user configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <path>",
		Short: "Get a configuration value by its dotted path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := userConfig()
			if err != nil {
				return err
			}

			value, ok := cfg.Get(args[0])
			if !ok {
				return fmt.Errorf("no value stored at '%s'", args[0])
			}

			formatter := output.GetFormatter(cmd.Context())
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(value, output.GetWriter(cmd.Context()), nil)
			}

			fmt.Println(value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, manager, err := userConfig()
			if err != nil {
				return err
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}

			return manager.SaveUserConfig(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <path>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, manager, err := userConfig()
			if err != nil {
				return err
			}

			if err := cfg.Unset(args[0]); err != nil {
				return err
			}

			return manager.SaveUserConfig(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := userConfig()
			if err != nil {
				return err
			}

			formatter := &output.JsonFormatter{}
			return formatter.Format(cfg.Raw(), output.GetWriter(cmd.Context()), nil)
		},
	})

	return cmd
}
