// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package progress converts a remote job's evolving status into a
// renderable phase and progress fraction, with bounded polling lifetime.
package progress

import "github.com/tunestudio/tune/pkg/studio"

// Phase is a coarse display bucket derived from the continuous progress
// percentage.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseTraining     Phase = "training"
	PhaseValidating   Phase = "validating"
	PhaseFinalizing   Phase = "finalizing"
	PhaseCompleted    Phase = "completed"
)

// Thresholds for phase derivation. A boundary value belongs to the later
// phase.
const (
	trainingThreshold   = 10
	validatingThreshold = 80
	finalizingThreshold = 90
	completedThreshold  = 100
)

// PhaseFor derives the phase from a progress percentage. It is a pure
// function recomputed from scratch on every poll tick; a decreasing
// progress value simply yields an earlier phase again, never a latched one.
func PhaseFor(progress float64) Phase {
	switch {
	case progress >= completedThreshold:
		return PhaseCompleted
	case progress >= finalizingThreshold:
		return PhaseFinalizing
	case progress >= validatingThreshold:
		return PhaseValidating
	case progress >= trainingThreshold:
		return PhaseTraining
	default:
		return PhaseInitializing
	}
}

// Percent computes the progress percentage for a status snapshot. The
// row-count ratio wins whenever the backend reports a positive total;
// otherwise the server's own percentage is used as-is.
func Percent(status *studio.TrainingStatus) float64 {
	if status.TotalRows > 0 {
		return float64(status.CompletedRows) / float64(status.TotalRows) * 100
	}

	return status.ProgressPercentage
}
