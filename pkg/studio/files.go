// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// UploadFile uploads a local training file and returns its metadata.
// POST /files/upload (multipart)
func (c *Client) UploadFile(ctx context.Context, localPath string) (*FileMetadata, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s", localPath)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", localPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", localPath)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart payload: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", localPath, err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleError(resp)
	}

	var metadata FileMetadata
	if err := decodeJSON(resp.Body, &metadata); err != nil {
		return nil, err
	}

	return &metadata, nil
}

// ListFiles lists uploaded training files.
// GET /files
func (c *Client) ListFiles(ctx context.Context) ([]FileMetadata, error) {
	var resp struct {
		Files []FileMetadata `json:"files"`
	}
	if err := c.get(ctx, "/files", &resp); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return resp.Files, nil
}

// FileMetadata fetches metadata for an uploaded file.
// GET /files/{id}/metadata
func (c *Client) FileMetadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	path := fmt.Sprintf("/files/%s/metadata", url.PathEscape(fileID))

	var metadata FileMetadata
	if err := c.get(ctx, path, &metadata); err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	return &metadata, nil
}

// ProcessFile applies a column mapping to an uploaded file, producing a
// processed dataset ready for training.
// POST /files/{id}/process
func (c *Client) ProcessFile(ctx context.Context, fileID string, mapping *ColumnMapping) (*ProcessedDataset, error) {
	path := fmt.Sprintf("/files/%s/process", url.PathEscape(fileID))

	var dataset ProcessedDataset
	if err := c.post(ctx, path, mapping, &dataset); err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}

	return &dataset, nil
}
