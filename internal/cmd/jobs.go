// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/internal/progress"
	"github.com/tunestudio/tune/internal/services"
	"github.com/tunestudio/tune/internal/utils"
	"github.com/tunestudio/tune/internal/ux"
	"github.com/tunestudio/tune/internal/wizard"
	"github.com/tunestudio/tune/pkg/config"
	"github.com/tunestudio/tune/pkg/output"
	"github.com/tunestudio/tune/pkg/studio"
)

func newJobsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage fine-tuning jobs",
	}

	cmd.AddCommand(newJobsSubmitCommand(opts))
	cmd.AddCommand(newJobsShowCommand(opts))
	cmd.AddCommand(newJobsListCommand(opts))
	cmd.AddCommand(newJobsWatchCommand(opts))

	return cmd
}

func newJobsSubmitCommand(opts *rootOptions) *cobra.Command {
	var filename string
	var fileID string
	var watch bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a fine-tuning job from a config file",
		Example: heredoc.Doc(`
			# submit with parameters from job.yaml against an uploaded file
			tune jobs submit -f job.yaml --file-id file-123

			# reuse the training file from the last interactive configuration
			tune jobs submit -f job.yaml
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			jobConfig, err := utils.ParseJobConfig(filename)
			if err != nil {
				return err
			}

			if fileID == "" {
				fileID = lastTrainingFileID()
			}
			if fileID == "" {
				return fmt.Errorf("no training file: pass --file-id or run tune configure first")
			}

			meta, err := client.FileMetadata(ctx, fileID)
			if err != nil {
				return fmt.Errorf("failed to load training file %s: %w", fileID, err)
			}

			state := submissionState(jobConfig, fileID, meta)

			var sessions services.SessionStore
			if store, err := sessionStore(); err == nil {
				sessions = store
			}

			svc := services.NewSubmissionService(client, sessions)

			spinner := ux.NewSpinner("Submitting fine-tuning job")
			spinner.Start()

			result, err := svc.Submit(ctx, state)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Stop()

			color.Green("\nFine-tuning job submitted!")
			fmt.Printf("Job ID: %s\n", result.JobID)

			if watch {
				return watchJob(ctx, client, result.JobID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filename, "file", "f", "", "Path to the YAML job config file")
	cmd.Flags().StringVar(&fileID, "file-id", "",
		"ID of the uploaded training file (defaults to the last one used by tune configure)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch job progress after submitting")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagFilename("file", "yaml", "yml")

	return cmd
}

// submissionState assembles wizard state from a parsed job config file, so
// the flag-driven path goes through the same submission checks and session
// bookkeeping as the interactive flow. The advanced settings are assigned
// rather than dispatched: the parser already resolved their defaults, and a
// merge would discard explicit false values from the file.
func submissionState(jobConfig *utils.JobConfig, fileID string, meta *studio.FileMetadata) wizard.State {
	state := wizard.NewState()
	state = wizard.Dispatch(state, wizard.SetParameters{Partial: jobConfig.Params})
	if jobConfig.BaseModel != "" {
		state = wizard.Dispatch(state, wizard.SetSelectedModel{Model: wizard.ModelRef{Name: jobConfig.BaseModel}})
	}
	state = wizard.Dispatch(state, wizard.SetSelectedFileID{ID: fileID})
	state = wizard.Dispatch(state, wizard.SetFileMetadata{Meta: meta})
	state.Advanced = jobConfig.Advanced
	return state
}

// lastTrainingFileID returns the training file recorded by the most recent
// interactive configuration, or "" when none is stored.
func lastTrainingFileID() string {
	cfg, _, err := userConfig()
	if err != nil {
		return ""
	}

	id, _ := cfg.GetString(config.KeyTrainingFile)
	return id
}

func newJobsShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show the current status of a fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			status, err := client.TrainingStatus(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() != output.NoneFormat {
				return formatter.Format(status, output.GetWriter(ctx), tableOptsForStatus())
			}

			percent := progress.Percent(status)
			fmt.Printf("%s Job %s\n", utils.GetStatusSymbol(status.Status), status.JobID)
			fmt.Printf("Status:   %s\n", status.Status)
			fmt.Printf("Phase:    %s\n", progress.PhaseFor(percent))
			fmt.Printf("Progress: %.1f%%\n", percent)
			if status.TotalRows > 0 {
				fmt.Printf("Rows:     %d/%d\n", status.CompletedRows, status.TotalRows)
			}
			if status.TotalEpochs > 0 {
				fmt.Printf("Epoch:    %d/%d\n", status.CurrentEpoch, status.TotalEpochs)
			}
			if status.Error != "" {
				color.Red("Error:    %s", status.Error)
			}
			return nil
		},
	}
}

func tableOptsForStatus() output.TableFormatterOptions {
	return output.TableFormatterOptions{
		Columns: []output.Column{
			{Heading: "JobID", ValueTemplate: "{{.JobID}}"},
			{Heading: "Status", ValueTemplate: "{{.Status}}"},
			{Heading: "Progress", ValueTemplate: "{{printf \"%.1f\" .ProgressPercentage}}%"},
			{Heading: "Rows", ValueTemplate: "{{.CompletedRows}}/{{.TotalRows}}"},
		},
	}
}

func newJobsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fine-tuning runs started from this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := sessionStore()
			if err != nil {
				return err
			}

			records, err := store.List()
			if err != nil {
				return err
			}

			formatter := output.GetFormatter(ctx)
			if formatter.Kind() == output.JsonFormat {
				return formatter.Format(records, output.GetWriter(ctx), nil)
			}
			if formatter.Kind() == output.TableFormat {
				return formatter.Format(records, output.GetWriter(ctx), output.TableFormatterOptions{
					Columns: []output.Column{
						{Heading: "JobID", ValueTemplate: "{{.JobID}}"},
						{Heading: "BaseModel", ValueTemplate: "{{.BaseModel}}"},
						{Heading: "Status", ValueTemplate: "{{.Status}}"},
						{Heading: "Created", ValueTemplate: "{{.CreatedAt}}"},
					},
				})
			}

			if len(records) == 0 {
				fmt.Println("No fine-tuning runs recorded yet.")
				return nil
			}

			for _, r := range records {
				jobID := r.JobID
				if jobID == "" {
					jobID = "(not submitted)"
				}
				fmt.Printf("%-38s %-12s %-24s %s\n",
					jobID, r.Status, r.BaseModel, utils.FormatTime(r.CreatedAt))
			}
			return nil
		},
	}
}

func newJobsWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Watch a fine-tuning job until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			return watchJob(cmd.Context(), client, args[0])
		},
	}
}

// watchJob polls the job until it reaches a terminal state, rendering the
// phase, progress and remaining-time estimate on a spinner line.
func watchJob(ctx context.Context, client *studio.Client, jobID string) error {
	spinner := ux.NewSpinner("Fine-tuning " + jobID)
	spinner.Start()

	started := time.Now()
	var final progress.Update

	poller := progress.NewPoller(client, nil)
	poller.Start(ctx, jobID, func(u progress.Update) {
		final = u

		if u.Status.IsTerminal() {
			return
		}

		eta := remainingEstimate(ctx, client, time.Since(started), u.Progress)
		line := fmt.Sprintf("%s %.1f%%", u.Phase, u.Progress)
		if u.TotalRows > 0 {
			line += fmt.Sprintf(" (%d/%d rows)", u.CompletedRows, u.TotalRows)
		}
		if eta > 0 {
			line += fmt.Sprintf(", about %s left", utils.FormatDuration(eta))
		}
		spinner.Message(line)
	})

	select {
	case <-ctx.Done():
		poller.Stop()
		<-poller.Done()
		spinner.Stop()
		return ctx.Err()
	case <-poller.Done():
	}

	switch final.Status {
	case studio.StatusCompleted:
		spinner.Stop()
		color.Green("\nFine-tuning completed!")
	case studio.StatusFailed:
		msg := final.Err
		if msg == "" {
			msg = "fine-tuning failed"
		}
		spinner.Fail(msg)
		return fmt.Errorf("job %s failed: %s", jobID, msg)
	default:
		// Poll lifetime elapsed without a terminal status.
		spinner.Stop()
		fmt.Println("\nStopped watching; the job is still running.")
		fmt.Printf("Resume with: tune jobs watch %s\n", jobID)
	}

	return nil
}

// remainingEstimate fetches the training logs and derives the remaining
// time. Log fetch failures just mean no estimate this tick.
func remainingEstimate(
	ctx context.Context,
	client *studio.Client,
	elapsed time.Duration,
	percent float64,
) time.Duration {
	logs, err := client.Logs(ctx)
	if err != nil {
		logs = nil
	}

	return progress.EstimateRemaining(progress.EtaFromLogs(logs, elapsed, percent))
}
