// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/internal/ux"
	"github.com/tunestudio/tune/pkg/config"
	"github.com/tunestudio/tune/pkg/output"
	"github.com/tunestudio/tune/pkg/studio"
)

func newEvaluateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a fine-tuned model against a dataset",
	}

	cmd.AddCommand(newEvaluateSubmitCommand(opts))
	cmd.AddCommand(newEvaluateStatusCommand(opts))
	cmd.AddCommand(newEvaluateResultsCommand(opts))

	return cmd
}

func newEvaluateSubmitCommand(opts *rootOptions) *cobra.Command {
	var modelName string
	var datasetID string
	var maxSample int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start an evaluation run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			// The model defaults to the one most recently recorded, so a
			// completed fine-tune flows straight into evaluation.
			if modelName == "" {
				if cfg, _, err := userConfig(); err == nil {
					modelName, _ = cfg.GetString(config.KeyEvaluationModel)
				}
			}
			if modelName == "" {
				return fmt.Errorf("no model to evaluate: pass --model or run a fine-tune first")
			}

			spinner := ux.NewSpinner("Starting evaluation")
			spinner.Start()

			resp, err := client.SubmitEvaluation(ctx, &studio.EvaluationRequest{
				ModelName: modelName,
				DatasetID: datasetID,
				MaxSample: maxSample,
			})
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Stop()

			// Remember the run so status/results default to it. Purely a
			// convenience; failures are ignored.
			if cfg, manager, err := userConfig(); err == nil {
				_ = cfg.Set(config.KeyEvaluationModel, modelName)
				_ = cfg.Set(config.KeyEvaluationJobID, resp.JobID)
				_ = manager.SaveUserConfig(cfg)
			}

			fmt.Printf("Evaluation started with job ID %s\n", resp.JobID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Model to evaluate")
	cmd.Flags().StringVarP(&datasetID, "dataset", "d", "", "Dataset to evaluate against")
	cmd.Flags().IntVar(&maxSample, "max-sample", 0, "Cap on the number of rows evaluated")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// resolveEvaluationJobID falls back to the last recorded evaluation run
// when no job ID argument was given.
func resolveEvaluationJobID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	cfg, _, err := userConfig()
	if err != nil {
		return "", err
	}

	jobID, ok := cfg.GetString(config.KeyEvaluationJobID)
	if !ok || jobID == "" {
		return "", fmt.Errorf("no evaluation job recorded: pass a job ID")
	}

	return jobID, nil
}

func newEvaluateStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show the status of an evaluation run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			jobID, err := resolveEvaluationJobID(args)
			if err != nil {
				return err
			}

			status, err := client.EvaluationStatus(ctx, jobID)
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(status, output.GetWriter(ctx), nil)
			}

			fmt.Printf("Job:      %s\n", status.JobID)
			fmt.Printf("Status:   %s\n", status.Status)
			fmt.Printf("Progress: %.1f%%\n", status.ProgressPercentage)
			if status.Error != "" {
				color.Red("Error:    %s", status.Error)
			}
			return nil
		},
	}
}

func newEvaluateResultsCommand(opts *rootOptions) *cobra.Command {
	var showSamples bool

	cmd := &cobra.Command{
		Use:   "results [job-id]",
		Short: "Show the metrics of a finished evaluation run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			jobID, err := resolveEvaluationJobID(args)
			if err != nil {
				return err
			}

			results, err := client.EvaluationResults(ctx, jobID)
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(results, output.GetWriter(ctx), nil)
			}

			color.Cyan("Evaluation results for %s", results.ModelName)

			names := make([]string, 0, len(results.Metrics))
			for name := range results.Metrics {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Printf("%-24s %.4f\n", name, results.Metrics[name])
			}

			if showSamples {
				for i, sample := range results.Samples {
					fmt.Printf("\n--- Sample %d (score %.3f) ---\n", i+1, sample.Score)
					fmt.Printf("Input:     %s\n", sample.Input)
					fmt.Printf("Expected:  %s\n", sample.Expected)
					fmt.Printf("Predicted: %s\n", sample.Predicted)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSamples, "samples", false, "Include scored sample predictions")

	return cmd
}
