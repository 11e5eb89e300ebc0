// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"context"
	"fmt"
	"net/url"
)

// SubmitJob creates a fine-tuning job from an inline payload.
// POST /finetune
func (c *Client) SubmitJob(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "/finetune", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit fine-tuning job: %w", err)
	}

	return &resp, nil
}

// SubmitJobWithFile creates a fine-tuning job against a previously uploaded
// training file.
// POST /finetune-with-file?file_id=...
func (c *Client) SubmitJobWithFile(ctx context.Context, fileID string, req *SubmitRequest) (*SubmitResponse, error) {
	path := fmt.Sprintf("/finetune-with-file?file_id=%s", url.QueryEscape(fileID))

	var resp SubmitResponse
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit fine-tuning job: %w", err)
	}

	return &resp, nil
}

// TrainingStatus fetches the current status snapshot for a job.
// GET /training-status?job_id=...
func (c *Client) TrainingStatus(ctx context.Context, jobID string) (*TrainingStatus, error) {
	path := fmt.Sprintf("/training-status?job_id=%s", url.QueryEscape(jobID))

	var status TrainingStatus
	if err := c.get(ctx, path, &status); err != nil {
		return nil, fmt.Errorf("failed to get training status: %w", err)
	}

	return &status, nil
}

// Logs fetches the accumulated training log entries.
// GET /api/logs
func (c *Client) Logs(ctx context.Context) (*LogsResponse, error) {
	var resp LogsResponse
	if err := c.get(ctx, "/api/logs", &resp); err != nil {
		return nil, fmt.Errorf("failed to get training logs: %w", err)
	}

	return &resp, nil
}

// ListModels lists the base models available for fine-tuning.
// GET /models
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var resp struct {
		Models []ModelInfo `json:"models"`
	}
	if err := c.get(ctx, "/models", &resp); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	return resp.Models, nil
}
