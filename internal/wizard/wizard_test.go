// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunestudio/tune/internal/tuning"
	"github.com/tunestudio/tune/pkg/studio"
)

func TestNewState_StartsAtFirstStepWithDefaults(t *testing.T) {
	s := NewState()

	require.Equal(t, 0, s.CurrentStep)
	require.Len(t, s.Steps, 3)
	require.Equal(t, StepModel, s.Steps[0].ID)
	require.Equal(t, StepData, s.Steps[1].ID)
	require.Equal(t, StepParameters, s.Steps[2].ID)
	require.Nil(t, s.SelectedModel)
	require.Empty(t, s.SelectedFileID)
	require.Equal(t, tuning.DefaultParams(), s.Params)
}

func TestDispatch_SetParameters_MergesNonZeroFields(t *testing.T) {
	s := NewState()

	next := Dispatch(s, SetParameters{Partial: tuning.Params{Epochs: 10}})

	require.Equal(t, 10, next.Params.Epochs)
	// Fields absent from the partial keep their previous values.
	require.Equal(t, tuning.DefaultBatchSize, next.Params.BatchSize)
	require.Equal(t, tuning.DefaultLearningRate, next.Params.LearningRate)
}

func TestDispatch_SetTrainingConfig_MergesNonZeroFields(t *testing.T) {
	s := NewState()

	next := Dispatch(s, SetTrainingConfig{Partial: tuning.AdvancedConfig{LoraRank: 32}})

	require.Equal(t, 32, next.Advanced.LoraRank)
	// Fields absent from the partial keep their previous values.
	require.Equal(t, 100, next.Advanced.WarmupSteps)
	require.Equal(t, "cosine", next.Advanced.LrSchedulerType)
	// The input snapshot is untouched.
	require.Equal(t, 8, s.Advanced.LoraRank)
}

func TestDispatch_DoesNotMutateInput(t *testing.T) {
	s := NewState()

	_ = Dispatch(s, SetParameters{Partial: tuning.Params{Epochs: 10}})
	_ = Dispatch(s, SetSelectedFileID{ID: "file-1"})

	require.Equal(t, tuning.DefaultEpochs, s.Params.Epochs)
	require.Empty(t, s.SelectedFileID)
}

func TestDispatch_SetSelectedModel_CopiesValue(t *testing.T) {
	s := NewState()

	model := ModelRef{Name: "llama-3"}
	next := Dispatch(s, SetSelectedModel{Model: model})

	require.NotNil(t, next.SelectedModel)
	require.Equal(t, "llama-3", next.SelectedModel.Name)

	// Mutating the caller's value afterwards must not reach the state.
	model.Name = "changed"
	require.Equal(t, "llama-3", next.SelectedModel.Name)
}

func TestDispatch_SetFileMetadata(t *testing.T) {
	s := NewState()
	require.Nil(t, s.FileMeta)

	next := Dispatch(s, SetFileMetadata{Meta: &studio.FileMetadata{ID: "file-1", TotalRows: 42}})

	require.NotNil(t, next.FileMeta)
	require.Equal(t, 42, next.FileMeta.TotalRows)
	require.Nil(t, s.FileMeta)
}

func TestDispatch_GoToStep_IsUnconditionalWithinBounds(t *testing.T) {
	s := NewState()

	// Jumping forward is allowed even though nothing is selected yet;
	// submission-time validation is the backstop.
	next := Dispatch(s, GoToStep{Index: 2})
	require.Equal(t, 2, next.CurrentStep)

	back := Dispatch(next, GoToStep{Index: 0})
	require.Equal(t, 0, back.CurrentStep)
}

func TestDispatch_GoToStep_OutOfBoundsIgnored(t *testing.T) {
	s := NewState()

	require.Equal(t, s, Dispatch(s, GoToStep{Index: -1}))
	require.Equal(t, s, Dispatch(s, GoToStep{Index: 3}))
}

type unknownAction struct{}

func (unknownAction) isAction() {}

func TestDispatch_UnknownActionLeavesStateUnchanged(t *testing.T) {
	s := NewState()
	require.Equal(t, s, Dispatch(s, unknownAction{}))
}

func TestStepReady_Predicates(t *testing.T) {
	s := NewState()

	require.False(t, s.StepReady(0))
	require.False(t, s.StepReady(1))
	require.False(t, s.StepReady(2))

	s = Dispatch(s, SetSelectedModel{Model: ModelRef{Name: "llama-3"}})
	require.True(t, s.StepReady(0))

	s = Dispatch(s, SetSelectedFileID{ID: "file-1"})
	require.True(t, s.StepReady(1))

	s = Dispatch(s, SetParameters{Partial: tuning.Params{ModelName: "my-ft"}})
	require.True(t, s.StepReady(2))

	require.False(t, s.StepReady(-1))
	require.False(t, s.StepReady(3))
}

func TestCompleteCurrentStep_RefusesIncompleteStep(t *testing.T) {
	s := NewState()

	next := s.CompleteCurrentStep()

	require.Equal(t, 0, next.CurrentStep)
	require.False(t, next.Steps[0].Completed)
}

func TestCompleteCurrentStep_AdvancesAndMarks(t *testing.T) {
	s := NewState()
	s = Dispatch(s, SetSelectedModel{Model: ModelRef{Name: "llama-3"}})

	next := s.CompleteCurrentStep()

	require.True(t, next.Steps[0].Completed)
	require.Equal(t, 1, next.CurrentStep)
	// The original snapshot's step list is untouched.
	require.False(t, s.Steps[0].Completed)
}

func TestCompleteCurrentStep_NeverAdvancesPastLastStep(t *testing.T) {
	s := NewState()
	s = Dispatch(s, SetSelectedModel{Model: ModelRef{Name: "llama-3"}})
	s = Dispatch(s, SetSelectedFileID{ID: "file-1"})
	s = Dispatch(s, SetParameters{Partial: tuning.Params{ModelName: "my-ft"}})

	s = s.CompleteCurrentStep()
	s = s.CompleteCurrentStep()
	s = s.CompleteCurrentStep()

	require.Equal(t, 2, s.CurrentStep)
	require.True(t, s.Complete())
}

func TestComplete_FalseUntilEveryStepDone(t *testing.T) {
	s := NewState()
	require.False(t, s.Complete())

	s = Dispatch(s, SetSelectedModel{Model: ModelRef{Name: "llama-3"}})
	s = s.CompleteCurrentStep()
	require.False(t, s.Complete())
}
