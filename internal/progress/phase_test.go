// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package progress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunestudio/tune/pkg/studio"
)

func TestPhaseFor_Buckets(t *testing.T) {
	tests := []struct {
		progress float64
		want     Phase
	}{
		{0, PhaseInitializing},
		{9.99, PhaseInitializing},
		{10, PhaseTraining}, // boundary belongs to the later phase
		{50, PhaseTraining},
		{79.9, PhaseTraining},
		{80, PhaseValidating},
		{89.9, PhaseValidating},
		{90, PhaseFinalizing},
		{99.9, PhaseFinalizing},
		{100, PhaseCompleted},
		{120, PhaseCompleted},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, PhaseFor(tt.progress), "progress=%v", tt.progress)
	}
}

func TestPhaseFor_IsStateless(t *testing.T) {
	// A regressing progress value yields an earlier phase again; nothing is
	// latched between calls.
	require.Equal(t, PhaseValidating, PhaseFor(85))
	require.Equal(t, PhaseTraining, PhaseFor(40))
}

func TestPercent_RowRatioWins(t *testing.T) {
	status := &studio.TrainingStatus{
		ProgressPercentage: 99,
		CompletedRows:      25,
		TotalRows:          100,
	}

	require.InDelta(t, 25.0, Percent(status), 1e-9)
}

func TestPercent_FallsBackToReportedPercentage(t *testing.T) {
	status := &studio.TrainingStatus{
		ProgressPercentage: 42.5,
		CompletedRows:      10,
		TotalRows:          0,
	}

	require.InDelta(t, 42.5, Percent(status), 1e-9)
}
