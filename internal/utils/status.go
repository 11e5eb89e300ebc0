// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package utils

import "github.com/tunestudio/tune/pkg/studio"

// GetStatusSymbol returns a symbol representation for job status.
func GetStatusSymbol(status studio.JobStatus) string {
	switch status {
	case studio.StatusQueued:
		return "📚"
	case studio.StatusRunning:
		return "🔄"
	case studio.StatusCompleted:
		return "✅"
	case studio.StatusFailed:
		return "💥"
	default:
		return "❓"
	}
}
