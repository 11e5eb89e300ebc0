// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package services

import (
	"context"
	"errors"
	"log"

	"github.com/tunestudio/tune/internal/session"
	"github.com/tunestudio/tune/internal/tuning"
	"github.com/tunestudio/tune/internal/wizard"
	"github.com/tunestudio/tune/pkg/studio"
)

// Precondition failures, one distinct message per missing input. They are
// checked in a fixed order so the user always sees the earliest gap first.
var (
	ErrMissingModelName    = errors.New("enter a name for the fine-tuned model before submitting")
	ErrMissingTrainingFile = errors.New("select a training data file before submitting")
	ErrMissingBaseModel    = errors.New("select a base model before submitting")
	ErrMissingFileMetadata = errors.New("training file details are not loaded; reselect the training data file")
)

// SubmissionService assembles a fine-tuning request from wizard state,
// validates it, and submits it to the backend.
type SubmissionService struct {
	backend  Backend
	sessions SessionStore
}

// NewSubmissionService creates the service. sessions may be nil, which
// disables session bookkeeping entirely.
func NewSubmissionService(backend Backend, sessions SessionStore) *SubmissionService {
	return &SubmissionService{
		backend:  backend,
		sessions: sessions,
	}
}

// SubmissionResult reports the outcome of a successful submission.
type SubmissionResult struct {
	JobID     string
	SessionID string
	TotalRows int
}

// Submit validates the wizard state, builds the wire payload, and posts it.
// Preconditions are checked strictly in order (model name, training file,
// base model, file metadata) and each failure returns before any network
// call is made. The submission itself is a single attempt; a fine-tuning
// launch is not safely repeatable, so no retry is layered on top.
func (s *SubmissionService) Submit(ctx context.Context, state wizard.State) (*SubmissionResult, error) {
	if state.Params.ModelName == "" {
		return nil, ErrMissingModelName
	}

	if state.SelectedFileID == "" {
		return nil, ErrMissingTrainingFile
	}

	if state.SelectedModel == nil {
		return nil, ErrMissingBaseModel
	}

	if state.FileMeta == nil {
		return nil, ErrMissingFileMetadata
	}

	totalRows := state.FileMeta.TotalRows

	params := state.Params.Normalized()
	req := tuning.BuildSubmission(params, state.Advanced, totalRows)

	sessionID := s.createSession(state)

	resp, err := s.backend.SubmitJobWithFile(ctx, state.SelectedFileID, req)
	if err != nil {
		s.updateSession(sessionID, "", "failed")
		return nil, err
	}

	s.updateSession(sessionID, resp.JobID, string(studio.StatusQueued))

	return &SubmissionResult{
		JobID:     resp.JobID,
		SessionID: sessionID,
		TotalRows: totalRows,
	}, nil
}

// createSession records the run best-effort. Bookkeeping never blocks a
// submission, so failures are logged and swallowed.
func (s *SubmissionService) createSession(state wizard.State) string {
	if s.sessions == nil {
		return ""
	}

	record, err := s.sessions.Create(state.SelectedModel.Name, state.SelectedFileID)
	if err != nil {
		log.Printf("session create failed: %v", err)
		return ""
	}

	return record.ID
}

func (s *SubmissionService) updateSession(id string, jobID string, status string) {
	if id == "" || s.sessions == nil {
		return
	}

	if _, err := s.sessions.Update(id, func(r *session.Record) {
		if jobID != "" {
			r.JobID = jobID
		}
		r.Status = status
	}); err != nil {
		log.Printf("session update failed: %v", err)
	}
}
