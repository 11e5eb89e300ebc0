// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package tuning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParams_AreWithinDomains(t *testing.T) {
	p := DefaultParams()
	require.Equal(t, p, p.Normalized(), "defaults must survive normalization unchanged")
}

func TestNormalized_ClampsToBounds(t *testing.T) {
	p := Params{
		Epochs:         1000,
		LearningRate:   5.0,
		BatchSize:      -4,
		MaxSeqLength:   64,
		CutoffFraction: 0.01,
		LoggingSteps:   99999,
	}

	n := p.Normalized()

	require.Equal(t, MaxEpochs, n.Epochs)
	require.Equal(t, MaxLearningRate, n.LearningRate)
	require.Equal(t, MinBatchSize, n.BatchSize)
	require.Equal(t, MinSeqLength, n.MaxSeqLength)
	require.Equal(t, MinCutoffFraction, n.CutoffFraction)
	require.Equal(t, MaxLoggingSteps, n.LoggingSteps)
}

func TestNormalized_ZeroFallsBackToDefault(t *testing.T) {
	n := Params{}.Normalized()

	require.Equal(t, DefaultEpochs, n.Epochs)
	require.Equal(t, DefaultLearningRate, n.LearningRate)
	require.Equal(t, DefaultBatchSize, n.BatchSize)
	require.Equal(t, DefaultSeqLength, n.MaxSeqLength)
	require.Equal(t, DefaultCutoffFraction, n.CutoffFraction)
	require.Equal(t, DefaultLoggingSteps, n.LoggingSteps)
}

func TestNormalized_NaNFallsBackToDefault(t *testing.T) {
	p := DefaultParams()
	p.LearningRate = math.NaN()
	p.CutoffFraction = math.NaN()

	n := p.Normalized()

	require.Equal(t, DefaultLearningRate, n.LearningRate)
	require.Equal(t, DefaultCutoffFraction, n.CutoffFraction)
}

func TestNormalized_InRangeValuesUntouched(t *testing.T) {
	p := Params{
		ModelName:      "my-model",
		Epochs:         10,
		LearningRate:   1e-3,
		BatchSize:      16,
		MaxSeqLength:   4096,
		CutoffFraction: 0.5,
		LoggingSteps:   25,
	}

	require.Equal(t, p, p.Normalized())
}

func TestNormalized_DoesNotMutateReceiver(t *testing.T) {
	p := Params{Epochs: 1000}
	_ = p.Normalized()

	require.Equal(t, 1000, p.Epochs)
}
