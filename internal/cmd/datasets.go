// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/pkg/output"
)

func newDatasetsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Browse prepared training datasets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List prepared datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			datasets, err := client.ListDatasets(ctx)
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			switch formatter.Kind() {
			case output.JsonFormat:
				return formatter.Format(datasets, output.GetWriter(ctx), nil)
			case output.TableFormat:
				return formatter.Format(datasets, output.GetWriter(ctx), output.TableFormatterOptions{
					Columns: []output.Column{
						{Heading: "ID", ValueTemplate: "{{.ID}}"},
						{Heading: "Name", ValueTemplate: "{{.Name}}"},
						{Heading: "Rows", ValueTemplate: "{{.Rows}}"},
					},
				})
			}

			if len(datasets) == 0 {
				fmt.Println("No datasets prepared yet.")
				return nil
			}

			for _, d := range datasets {
				fmt.Printf("%-24s %-32s %d rows\n", d.ID, d.Name, d.Rows)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <dataset-id>",
		Short: "Show details for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			dataset, err := client.GetDataset(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(dataset, output.GetWriter(ctx), nil)
			}

			fmt.Printf("ID:          %s\n", dataset.ID)
			fmt.Printf("Name:        %s\n", dataset.Name)
			fmt.Printf("Rows:        %d\n", dataset.Rows)
			if dataset.SourceFile != "" {
				fmt.Printf("Source file: %s\n", dataset.SourceFile)
			}
			if dataset.Description != "" {
				fmt.Printf("Description: %s\n", dataset.Description)
			}
			return nil
		},
	})

	return cmd
}
