// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package studio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, &ClientOptions{
		APIKey:     "test-key",
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	return client
}

func TestNewClient_RejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://host", "http://", "not a url://"} {
		_, err := NewClient(endpoint, nil)
		require.Error(t, err, "endpoint=%q", endpoint)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://localhost:8000/", nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", client.Endpoint())
}

func TestSubmitJobWithFile_PostsPayload(t *testing.T) {
	var captured SubmitRequest
	var gotAuth string
	var gotQuery string

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/finetune-with-file", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("file_id")

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SubmitResponse{JobID: "job-99"})
	}))

	resp, err := client.SubmitJobWithFile(context.Background(), "file-7", &SubmitRequest{
		ModelName:      "llama-ft",
		NumTrainEpochs: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "job-99", resp.JobID)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "file-7", gotQuery)
	require.Equal(t, "llama-ft", captured.ModelName)
}

func TestSubmitJob_ParsesStructuredError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"num_train_epochs must be positive"}]}`))
	}))

	_, err := client.SubmitJob(context.Background(), &SubmitRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, "num_train_epochs must be positive", apiErr.Message)
}

func TestSubmitJob_GenericErrorFallback(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`not json at all`))
	}))

	_, err := client.SubmitJob(context.Background(), &SubmitRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed with status 400")
}

func TestSubmitJob_NeverRetries(t *testing.T) {
	var calls int32

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.SubmitJob(context.Background(), &SubmitRequest{})
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "submissions are single-shot")
}

func TestTrainingStatus_RetriesTransientFailures(t *testing.T) {
	var calls int32

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TrainingStatus{
			JobID:  "job-1",
			Status: StatusRunning,
		})
	}))

	status, err := client.TrainingStatus(context.Background(), "job-1")
	require.NoError(t, err)
	require.Equal(t, StatusRunning, status.Status)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestTrainingStatus_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":[{"msg":"job not found"}]}`))
	}))

	_, err := client.TrainingStatus(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx responses are not transient")
}

func TestLogs_DecodesHeterogeneousEntries(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/logs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"logs":[
			{"type":"epoch_begin","epoch":1},
			{"type":"training_step","step":10,"loss":1.25,"eta_minutes":12.5},
			{"type":"training_step","step":20,"loss":1.10,"remaining_steps":80,"avg_step_time":0.9}
		]}`))
	}))

	logs, err := client.Logs(context.Background())
	require.NoError(t, err)
	require.Len(t, logs.Logs, 3)

	latest := logs.LatestByType("training_step")
	require.NotNil(t, latest)
	require.Equal(t, 20, latest.Step)
	require.Nil(t, latest.EtaMinutes, "absent metrics stay nil")
	require.NotNil(t, latest.RemainingSteps)
	require.Equal(t, 80, *latest.RemainingSteps)
}

func TestListModels_UnwrapsEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama-3"},{"name":"mistral"}]}`))
	}))

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	require.Equal(t, "llama-3", models[0].Name)
}

func TestChat_AssemblesStreamedDeltas(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"delta":"Hello"}
{"delta":", world"}
{"delta":"!","done":true}
`))
	}))

	var deltas []string
	answer, err := client.Chat(context.Background(), &ChatRequest{
		ModelName: "llama-ft",
		Messages:  []ChatMessage{{Role: "user", Content: "hi"}},
		Stream:    true,
	}, func(delta string) {
		deltas = append(deltas, delta)
	})

	require.NoError(t, err)
	require.Equal(t, "Hello, world!", answer)
	require.Equal(t, []string{"Hello", ", world", "!"}, deltas)
}
