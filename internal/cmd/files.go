// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/internal/ux"
	"github.com/tunestudio/tune/pkg/output"
	"github.com/tunestudio/tune/pkg/studio"
)

func newFilesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded training data files",
	}

	cmd.AddCommand(newFilesUploadCommand(opts))
	cmd.AddCommand(newFilesListCommand(opts))
	cmd.AddCommand(newFilesShowCommand(opts))
	cmd.AddCommand(newFilesProcessCommand(opts))

	return cmd
}

func newFilesUploadCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local training data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			spinner := ux.NewSpinner("Uploading " + args[0])
			spinner.Start()

			meta, err := client.UploadFile(ctx, args[0])
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Stop()

			fmt.Printf("Uploaded %s as %s (%d rows)\n", meta.Filename, meta.ID, meta.TotalRows)
			return nil
		},
	}
}

func newFilesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			files, err := client.ListFiles(ctx)
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			switch formatter.Kind() {
			case output.JsonFormat:
				return formatter.Format(files, output.GetWriter(ctx), nil)
			case output.TableFormat:
				return formatter.Format(files, output.GetWriter(ctx), output.TableFormatterOptions{
					Columns: []output.Column{
						{Heading: "ID", ValueTemplate: "{{.ID}}"},
						{Heading: "Filename", ValueTemplate: "{{.Filename}}"},
						{Heading: "Rows", ValueTemplate: "{{.TotalRows}}"},
						{Heading: "Size", ValueTemplate: "{{.SizeBytes}}"},
					},
				})
			}

			if len(files) == 0 {
				fmt.Println("No files uploaded yet.")
				return nil
			}

			for _, f := range files {
				fmt.Printf("%-24s %-32s %d rows\n", f.ID, f.Filename, f.TotalRows)
			}
			return nil
		},
	}
}

func newFilesShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file-id>",
		Short: "Show metadata for an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			meta, err := client.FileMetadata(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(meta, output.GetWriter(ctx), nil)
			}

			fmt.Printf("ID:       %s\n", meta.ID)
			fmt.Printf("Filename: %s\n", meta.Filename)
			fmt.Printf("Rows:     %d\n", meta.TotalRows)
			fmt.Printf("Size:     %d bytes\n", meta.SizeBytes)
			if len(meta.Columns) > 0 {
				fmt.Printf("Columns:  %s\n", strings.Join(meta.Columns, ", "))
			}
			return nil
		},
	}
}

func newFilesProcessCommand(opts *rootOptions) *cobra.Command {
	var instructionColumns []string
	var inputColumns []string
	var outputColumn string

	cmd := &cobra.Command{
		Use:   "process <file-id>",
		Short: "Map file columns to training roles and build a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			mapping := &studio.ColumnMapping{
				InstructionColumns: instructionColumns,
				InputColumns:       inputColumns,
				OutputColumn:       outputColumn,
			}

			spinner := ux.NewSpinner("Processing file")
			spinner.Start()

			dataset, err := client.ProcessFile(ctx, args[0], mapping)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Stop()

			fmt.Printf("Dataset %s created with %d rows\n", dataset.DatasetID, dataset.Rows)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&instructionColumns, "instruction", nil, "Columns forming the instruction text")
	cmd.Flags().StringSliceVar(&inputColumns, "input", nil, "Columns forming the optional input context")
	cmd.Flags().StringVar(&outputColumn, "output-column", "", "Column holding the expected output")
	_ = cmd.MarkFlagRequired("instruction")
	_ = cmd.MarkFlagRequired("output-column")

	return cmd
}
