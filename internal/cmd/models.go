// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/pkg/output"
)

func newModelsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse base models available for fine-tuning",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available base models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			models, err := client.ListModels(ctx)
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			switch formatter.Kind() {
			case output.JsonFormat:
				return formatter.Format(models, output.GetWriter(ctx), nil)
			case output.TableFormat:
				return formatter.Format(models, output.GetWriter(ctx), output.TableFormatterOptions{
					Columns: []output.Column{
						{Heading: "Name", ValueTemplate: "{{.Name}}"},
						{Heading: "DisplayName", ValueTemplate: "{{.DisplayName}}"},
						{Heading: "ContextLength", ValueTemplate: "{{.ContextLength}}"},
					},
				})
			}

			if len(models) == 0 {
				fmt.Println("No base models available.")
				return nil
			}

			for _, m := range models {
				if m.DisplayName != "" {
					fmt.Printf("%-40s %s\n", m.Name, m.DisplayName)
				} else {
					fmt.Println(m.Name)
				}
			}
			return nil
		},
	})

	return cmd
}
