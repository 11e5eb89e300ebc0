// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package progress

import (
	"math"
	"time"

	"github.com/tunestudio/tune/pkg/studio"
)

// EtaInputs carries everything the remaining-time estimate may draw on.
// Pointer fields are nil when the corresponding metric was not reported.
type EtaInputs struct {
	EtaMinutes     *float64
	RemainingSteps *int
	AvgStepTime    *float64

	// Elapsed is wall-clock time since polling began; Progress is the
	// current percentage. Both feed the extrapolation fallback.
	Elapsed  time.Duration
	Progress float64
}

// EtaFromLogs builds EtaInputs from the freshest training_step log entry.
func EtaFromLogs(logs *studio.LogsResponse, elapsed time.Duration, progress float64) EtaInputs {
	in := EtaInputs{Elapsed: elapsed, Progress: progress}

	if logs != nil {
		if entry := logs.LatestByType("training_step"); entry != nil {
			in.EtaMinutes = entry.EtaMinutes
			in.RemainingSteps = entry.RemainingSteps
			in.AvgStepTime = entry.AvgStepTime
		}
	}

	return in
}

// EstimateRemaining computes the remaining-time estimate with a three-tier
// fallback, first available wins:
//
//  1. a server-reported eta_minutes, converted to seconds
//  2. remaining_steps * avg_step_time, rounded to whole seconds
//  3. linear extrapolation of elapsed wall-clock over achieved progress
//
// When none applies the estimate is zero.
func EstimateRemaining(in EtaInputs) time.Duration {
	if in.EtaMinutes != nil {
		return time.Duration(*in.EtaMinutes*60) * time.Second
	}

	if in.RemainingSteps != nil && in.AvgStepTime != nil {
		seconds := math.Round(float64(*in.RemainingSteps) * *in.AvgStepTime)
		return time.Duration(seconds) * time.Second
	}

	if in.Progress > 0 && in.Elapsed > 0 {
		total := time.Duration(float64(in.Elapsed) / (in.Progress / 100))
		if total > in.Elapsed {
			return total - in.Elapsed
		}
		return 0
	}

	return 0
}
