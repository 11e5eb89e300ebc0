// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"context"
	"fmt"
	"net/url"
)

// ListDatasets lists prepared datasets.
// GET /datasets
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var resp struct {
		Datasets []Dataset `json:"datasets"`
	}
	if err := c.get(ctx, "/datasets", &resp); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	return resp.Datasets, nil
}

// GetDataset fetches a single dataset.
// GET /datasets/{id}
func (c *Client) GetDataset(ctx context.Context, datasetID string) (*Dataset, error) {
	path := fmt.Sprintf("/datasets/%s", url.PathEscape(datasetID))

	var dataset Dataset
	if err := c.get(ctx, path, &dataset); err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	return &dataset, nil
}
