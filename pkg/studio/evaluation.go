// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"context"
	"fmt"
	"net/url"
)

// SubmitEvaluation starts an evaluation job.
// POST /evaluate
func (c *Client) SubmitEvaluation(ctx context.Context, req *EvaluationRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "/evaluate", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit evaluation job: %w", err)
	}

	return &resp, nil
}

// EvaluationStatus fetches the status of an evaluation job.
// GET /evaluate/status/{id}
func (c *Client) EvaluationStatus(ctx context.Context, jobID string) (*EvaluationStatus, error) {
	path := fmt.Sprintf("/evaluate/status/%s", url.PathEscape(jobID))

	var status EvaluationStatus
	if err := c.get(ctx, path, &status); err != nil {
		return nil, fmt.Errorf("failed to get evaluation status: %w", err)
	}

	return &status, nil
}

// EvaluationResults fetches the final metrics of a completed evaluation job.
// GET /evaluate/results/{id}
func (c *Client) EvaluationResults(ctx context.Context, jobID string) (*EvaluationResults, error) {
	path := fmt.Sprintf("/evaluate/results/%s", url.PathEscape(jobID))

	var results EvaluationResults
	if err := c.get(ctx, path, &results); err != nil {
		return nil, fmt.Errorf("failed to get evaluation results: %w", err)
	}

	return &results, nil
}
