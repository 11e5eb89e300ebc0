// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package wizard holds the cross-step state of the fine-tuning
// configuration flow: an explicit state container with a pure reducer.
// Dispatch and the step transitions return new snapshots; callers never
// observe a mutated input state.
package wizard

import (
	"dario.cat/mergo"

	"github.com/tunestudio/tune/internal/tuning"
	"github.com/tunestudio/tune/pkg/studio"
)

// StepID identifies one of the ordered configuration steps.
type StepID string

const (
	StepModel      StepID = "model"
	StepData       StepID = "data"
	StepParameters StepID = "parameters"
)

// Step is one entry in the ordered step list.
type Step struct {
	ID        StepID
	Completed bool
}

// ModelRef identifies a selected base model.
type ModelRef struct {
	Name        string
	DisplayName string
}

// State is the wizard's cross-step configuration.
type State struct {
	CurrentStep    int
	Steps          []Step
	SelectedModel  *ModelRef
	SelectedFileID string

	// FileMeta is the metadata of the selected training file, captured when
	// the file is chosen so submission needs no further lookup.
	FileMeta *studio.FileMetadata

	Params   tuning.Params
	Advanced tuning.AdvancedConfig
}

// NewState returns the initial wizard state: first step active, nothing
// selected, parameters at their defaults.
func NewState() State {
	return State{
		CurrentStep: 0,
		Steps: []Step{
			{ID: StepModel},
			{ID: StepData},
			{ID: StepParameters},
		},
		Params:   tuning.DefaultParams(),
		Advanced: tuning.DefaultAdvancedConfig(),
	}
}

// Action is a tagged update applied by Dispatch.
type Action interface {
	isAction()
}

// SetParameters merges non-zero fields of Partial into the basic
// parameters.
type SetParameters struct {
	Partial tuning.Params
}

// SetTrainingConfig merges non-zero fields of Partial into the advanced
// configuration.
type SetTrainingConfig struct {
	Partial tuning.AdvancedConfig
}

// SetSelectedFileID records the chosen training file.
type SetSelectedFileID struct {
	ID string
}

// SetSelectedModel records the chosen base model.
type SetSelectedModel struct {
	Model ModelRef
}

// SetFileMetadata records the selected training file's metadata.
type SetFileMetadata struct {
	Meta *studio.FileMetadata
}

// GoToStep unconditionally moves to the given step index. Prior steps are
// not re-validated; submission-time checks are the backstop for skipped
// steps.
type GoToStep struct {
	Index int
}

func (SetParameters) isAction()     {}
func (SetTrainingConfig) isAction() {}
func (SetSelectedFileID) isAction() {}
func (SetSelectedModel) isAction()  {}
func (SetFileMetadata) isAction()   {}
func (GoToStep) isAction()          {}

// Dispatch applies an action and returns the next state. Partial-update
// actions merge shallowly; no validation happens here (the consuming view
// normalizes on blur). Unknown actions leave the state unchanged.
func Dispatch(s State, action Action) State {
	switch a := action.(type) {
	case SetParameters:
		next := s
		if err := mergo.Merge(&next.Params, a.Partial, mergo.WithOverride); err != nil {
			return s
		}
		return next

	case SetTrainingConfig:
		next := s
		if err := mergo.Merge(&next.Advanced, a.Partial, mergo.WithOverride); err != nil {
			return s
		}
		return next

	case SetSelectedFileID:
		next := s
		next.SelectedFileID = a.ID
		return next

	case SetSelectedModel:
		next := s
		model := a.Model
		next.SelectedModel = &model
		return next

	case SetFileMetadata:
		next := s
		next.FileMeta = a.Meta
		return next

	case GoToStep:
		if a.Index < 0 || a.Index >= len(s.Steps) {
			return s
		}
		next := s
		next.CurrentStep = a.Index
		return next

	default:
		return s
	}
}

// StepReady reports whether the step at index satisfies its completion
// predicate.
func (s State) StepReady(index int) bool {
	if index < 0 || index >= len(s.Steps) {
		return false
	}

	switch s.Steps[index].ID {
	case StepModel:
		return s.SelectedModel != nil
	case StepData:
		return s.SelectedFileID != ""
	case StepParameters:
		return s.Params.ModelName != ""
	default:
		return false
	}
}

// CompleteCurrentStep marks the current step completed and advances to the
// next one. The index never advances unless the current step's completion
// predicate holds, and never past the last step.
func (s State) CompleteCurrentStep() State {
	if !s.StepReady(s.CurrentStep) {
		return s
	}

	next := s
	next.Steps = make([]Step, len(s.Steps))
	copy(next.Steps, s.Steps)
	next.Steps[next.CurrentStep].Completed = true

	if next.CurrentStep < len(next.Steps)-1 {
		next.CurrentStep++
	}

	return next
}

// Complete reports whether every step has been completed.
func (s State) Complete() bool {
	for _, step := range s.Steps {
		if !step.Completed {
			return false
		}
	}
	return true
}
