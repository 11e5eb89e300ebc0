// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

// Client is an HTTP client for the tuning backend's REST surfaces
// (fine-tuning, files, datasets, evaluation, chat).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
	retryDelay time.Duration
}

// ClientOptions configures a [Client].
type ClientOptions struct {
	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts for transient GET failures.
	// Defaults to 3. Submissions are never retried.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff. Defaults to 500ms.
	RetryDelay time.Duration

	// Transport overrides the default HTTP transport. Useful for testing.
	Transport http.RoundTripper
}

func (o *ClientOptions) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}

	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}

	if o.RetryDelay <= 0 {
		o.RetryDelay = 500 * time.Millisecond
	}
}

// NewClient creates a client from the backend endpoint URL.
func NewClient(endpoint string, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	opts.defaults()

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint URL: expected http(s) scheme, got %q", parsedURL.Scheme)
	}

	if parsedURL.Hostname() == "" {
		return nil, fmt.Errorf("invalid endpoint URL: missing hostname")
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		maxRetries: uint64(opts.MaxRetries),
		retryDelay: opts.RetryDelay,
	}, nil
}

// Endpoint returns the configured backend base URL.
func (c *Client) Endpoint() string {
	return c.baseURL
}

// get issues a GET and decodes the JSON response into out, retrying
// transient failures with exponential backoff.
func (c *Client) get(ctx context.Context, path string, out any) error {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, nil, out)
		if isTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// post issues a single POST with a JSON body, no retries.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	return c.do(ctx, http.MethodPost, path, reader, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// stream issues a POST and hands the raw response body to the caller.
// The caller owns closing the body.
func (c *Client) stream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.handleError(resp)
	}

	return resp.Body, nil
}

// decodeJSON decodes a response body into out.
func decodeJSON(body io.Reader, out any) error {
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleError reads the error body and returns an [APIError]. The backend
// reports failures as {"detail": [{"msg": "..."}]}; anything else falls back
// to a generic message.
func (c *Client) handleError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	message := gjson.GetBytes(body, "detail.0.msg").String()
	if message == "" {
		message = gjson.GetBytes(body, "detail").String()
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// APIError is a non-2xx response from the backend with the server's
// structured message when one could be parsed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// isTransient reports whether the error is worth retrying: network-level
// failures and 408/429/5xx responses.
func isTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}

	// Non-HTTP errors at this layer are transport failures.
	return true
}
