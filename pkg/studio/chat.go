// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Chat streams a completion for the given request, invoking onDelta for each
// received fragment. It returns the assembled response text.
// POST /chat (newline-delimited JSON chunks)
func (c *Client) Chat(ctx context.Context, req *ChatRequest, onDelta func(string)) (string, error) {
	req.Stream = true

	body, err := c.stream(ctx, "/chat", req)
	if err != nil {
		return "", fmt.Errorf("failed to start chat stream: %w", err)
	}
	defer body.Close()

	var sb strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk ChatChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return sb.String(), fmt.Errorf("failed to decode chat chunk: %w", err)
		}

		if chunk.Error != "" {
			return sb.String(), errors.New(chunk.Error)
		}

		if chunk.Delta != "" {
			sb.WriteString(chunk.Delta)
			if onDelta != nil {
				onDelta(chunk.Delta)
			}
		}

		if chunk.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return sb.String(), fmt.Errorf("chat stream interrupted: %w", err)
	}

	return sb.String(), nil
}
