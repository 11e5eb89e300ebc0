// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package utils

import (
	"fmt"
	"time"
)

// TimeFormat defines the standard time format used for display output
const TimeFormat = "2006-01-02 15:04:05 UTC"

// FormatTime formats a time.Time to the standard display format.
// Returns empty string if time is zero.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeFormat)
}

// FormatDuration renders a duration as a compact human string, e.g.
// "2h 5m", "4m 12s", "45s". Sub-second durations collapse to "0s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Round(time.Second)

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
