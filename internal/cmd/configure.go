// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tunestudio/tune/internal/services"
	"github.com/tunestudio/tune/internal/tuning"
	"github.com/tunestudio/tune/internal/ux"
	"github.com/tunestudio/tune/internal/wizard"
	"github.com/tunestudio/tune/pkg/config"
	"github.com/tunestudio/tune/pkg/studio"
)

const uploadNewFileOption = "Upload a new file..."

func newConfigureCommand(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Interactively configure and launch a fine-tuning job",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := opts.client()
			if err != nil {
				return err
			}

			ask := opts.asker()

			state := wizard.NewState()
			for !state.Complete() {
				step := state.Steps[state.CurrentStep]

				switch step.ID {
				case wizard.StepModel:
					state, err = runModelStep(ctx, client, ask, state)
				case wizard.StepData:
					state, err = runDataStep(ctx, client, ask, state)
				case wizard.StepParameters:
					state, err = runParametersStep(ask, state)
				default:
					return fmt.Errorf("unknown configuration step %q", step.ID)
				}

				if err != nil {
					return err
				}

				advanced := state.CompleteCurrentStep()
				if advanced.CurrentStep == state.CurrentStep && !advanced.Complete() {
					return fmt.Errorf("step %q is not complete", step.ID)
				}
				state = advanced
			}

			printSummary(state)

			confirmed := true
			if err := ask(&survey.Confirm{
				Message: "Submit this fine-tuning job?",
				Default: true,
			}, &confirmed); err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Submission cancelled.")
				return nil
			}

			// Session bookkeeping is optional; submission proceeds without
			// it when the store cannot be opened.
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

			// Remember the inputs so evaluate and chat can default to the
			// model that was just trained. Best effort only.
			if cfg, manager, err := userConfig(); err == nil {
				_ = cfg.Set(config.KeyTrainingFile, state.SelectedFileID)
				_ = cfg.Set(config.KeyEvaluationModel, state.Params.ModelName)
				_ = manager.SaveUserConfig(cfg)
			}

			if watch {
				return watchJob(ctx, client, result.JobID)
			}

			fmt.Printf("\nTrack it with: tune jobs watch %s\n", result.JobID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "Watch job progress after submitting")

	return cmd
}

func runModelStep(
	ctx context.Context,
	client *studio.Client,
	ask ux.Asker,
	state wizard.State,
) (wizard.State, error) {
	spinner := ux.NewSpinner("Loading base models")
	spinner.Start()

	models, err := client.ListModels(ctx)
	if err != nil {
		spinner.Fail(err.Error())
		return state, err
	}
	spinner.Stop()

	if len(models) == 0 {
		return state, fmt.Errorf("the backend reports no base models available for fine-tuning")
	}

	options := make([]string, 0, len(models))
	for _, m := range models {
		label := m.Name
		if m.DisplayName != "" {
			label = fmt.Sprintf("%s (%s)", m.DisplayName, m.Name)
		}
		options = append(options, label)
	}

	var selected int
	if err := ask(&survey.Select{
		Message: "Select a base model:",
		Options: options,
		Default: options[0],
	}, &selected); err != nil {
		return state, err
	}

	model := models[selected]
	state = wizard.Dispatch(state, wizard.SetSelectedModel{Model: wizard.ModelRef{
		Name:        model.Name,
		DisplayName: model.DisplayName,
	}})

	return state, nil
}

func runDataStep(
	ctx context.Context,
	client *studio.Client,
	ask ux.Asker,
	state wizard.State,
) (wizard.State, error) {
	spinner := ux.NewSpinner("Loading training files")
	spinner.Start()

	files, err := client.ListFiles(ctx)
	if err != nil {
		spinner.Fail(err.Error())
		return state, err
	}
	spinner.Stop()

	options := make([]string, 0, len(files)+1)
	for _, f := range files {
		options = append(options, fmt.Sprintf("%s (%d rows)", f.Filename, f.TotalRows))
	}
	options = append(options, uploadNewFileOption)

	var selected int
	if err := ask(&survey.Select{
		Message: "Select training data:",
		Options: options,
		Default: options[0],
	}, &selected); err != nil {
		return state, err
	}

	var meta studio.FileMetadata
	if selected < len(files) {
		meta = files[selected]
	} else {
		var localPath string
		if err := ask(&survey.Input{
			Message: "Path to the training data file:",
		}, &localPath); err != nil {
			return state, err
		}

		uploadSpinner := ux.NewSpinner("Uploading " + localPath)
		uploadSpinner.Start()

		uploaded, err := client.UploadFile(ctx, localPath)
		if err != nil {
			uploadSpinner.Fail(err.Error())
			return state, err
		}
		uploadSpinner.Stop()

		meta = *uploaded
	}

	state = wizard.Dispatch(state, wizard.SetSelectedFileID{ID: meta.ID})
	state = wizard.Dispatch(state, wizard.SetFileMetadata{Meta: &meta})
	return state, nil
}

func runParametersStep(ask ux.Asker, state wizard.State) (wizard.State, error) {
	defaultName := ""
	if state.SelectedModel != nil {
		defaultName = state.SelectedModel.Name + "-ft"
	}

	var modelName string
	if err := ask(&survey.Input{
		Message: "Name for the fine-tuned model:",
		Default: defaultName,
	}, &modelName); err != nil {
		return state, err
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultName
	}

	partial := tuning.Params{ModelName: modelName}

	epochs, err := askInt(ask, "Epochs:", state.Params.Epochs)
	if err != nil {
		return state, err
	}
	partial.Epochs = epochs

	learningRate, err := askFloat(ask, "Learning rate:", state.Params.LearningRate)
	if err != nil {
		return state, err
	}
	partial.LearningRate = learningRate

	batchSize, err := askInt(ask, "Batch size:", state.Params.BatchSize)
	if err != nil {
		return state, err
	}
	partial.BatchSize = batchSize

	maxSeqLength, err := askInt(ask, "Max sequence length:", state.Params.MaxSeqLength)
	if err != nil {
		return state, err
	}
	partial.MaxSeqLength = maxSeqLength

	cutoff, err := askFloat(ask, "Dataset fraction to train on (0.1-1.0):", state.Params.CutoffFraction)
	if err != nil {
		return state, err
	}
	partial.CutoffFraction = cutoff

	// Out-of-range entries are clamped as soon as the field is left, the
	// same moment the value lands in the shared state.
	partial = partial.Normalized()

	return wizard.Dispatch(state, wizard.SetParameters{Partial: partial}), nil
}

func askInt(ask ux.Asker, message string, defaultValue int) (int, error) {
	var raw string
	if err := ask(&survey.Input{
		Message: message,
		Default: strconv.Itoa(defaultValue),
	}, &raw); err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue, nil
	}

	return value, nil
}

func askFloat(ask ux.Asker, message string, defaultValue float64) (float64, error) {
	var raw string
	if err := ask(&survey.Input{
		Message: message,
		Default: strconv.FormatFloat(defaultValue, 'g', -1, 64),
	}, &raw); err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return defaultValue, nil
	}

	return value, nil
}

func printSummary(state wizard.State) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Cyan("Fine-tuning configuration")
	if state.SelectedModel != nil {
		fmt.Printf("Base model:      %s\n", state.SelectedModel.Name)
	}
	fmt.Printf("Training file:   %s\n", state.SelectedFileID)
	fmt.Printf("Model name:      %s\n", state.Params.ModelName)
	fmt.Printf("Epochs:          %d\n", state.Params.Epochs)
	fmt.Printf("Learning rate:   %g\n", state.Params.LearningRate)
	fmt.Printf("Batch size:      %d\n", state.Params.BatchSize)
	fmt.Printf("Max seq length:  %d\n", state.Params.MaxSeqLength)
	fmt.Printf("Data fraction:   %g\n", state.Params.CutoffFraction)
	fmt.Println(strings.Repeat("=", 60))
}
