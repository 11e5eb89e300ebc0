// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package utils

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultMaxAttempts is the default number of retry attempts
	DefaultMaxAttempts = 3
	// DefaultDelaySeconds is the default initial delay in seconds
	DefaultDelaySeconds = 2
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelaySeconds * time.Second,
	}
}

// RetryOperation executes the given operation with exponential backoff.
// Every error returned by the operation is treated as retryable; callers
// with non-retryable failures should not route them through here.
func RetryOperation(ctx context.Context, config *RetryConfig, operation func() error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = DefaultMaxAttempts
	}

	backoff := retry.WithMaxRetries(uint64(config.MaxAttempts-1), retry.NewExponential(config.Delay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := operation(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
