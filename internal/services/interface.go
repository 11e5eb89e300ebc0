// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package services implements the use-case layer between the CLI commands
// and the backend client: submission assembly, precondition checks, and
// session bookkeeping.
package services

import (
	"context"

	"github.com/tunestudio/tune/internal/session"
	"github.com/tunestudio/tune/pkg/studio"
)

// Backend is the slice of the studio client the submission flow needs.
type Backend interface {
	SubmitJobWithFile(ctx context.Context, fileID string, req *studio.SubmitRequest) (*studio.SubmitResponse, error)
}

// SessionStore records submitted runs. Failures here never block a
// submission.
type SessionStore interface {
	Create(baseModel string, trainingFileID string) (*session.Record, error)
	Update(id string, apply func(*session.Record)) (*session.Record, error)
}
