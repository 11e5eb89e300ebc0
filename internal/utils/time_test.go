// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	require.Empty(t, FormatTime(time.Time{}), "zero time renders as empty")

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.Equal(t, "2026-03-14 09:26:53 UTC", FormatTime(ts))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{45 * time.Second, "45s"},
		{4*time.Minute + 12*time.Second, "4m 12s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{26 * time.Hour, "26h 0m"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatDuration(tt.d), "duration=%v", tt.d)
	}
}
