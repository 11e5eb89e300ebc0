// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tunestudio/tune/pkg/studio"
)

type mockStatusClient struct {
	mu       sync.Mutex
	calls    int
	statusFn func(call int) (*studio.TrainingStatus, error)
}

func (m *mockStatusClient) TrainingStatus(ctx context.Context, jobID string) (*studio.TrainingStatus, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	return m.statusFn(call)
}

func (m *mockStatusClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type updateRecorder struct {
	mu      sync.Mutex
	updates []Update
}

func (r *updateRecorder) record(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *updateRecorder) snapshot() []Update {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

func runningStatus(progress float64) *studio.TrainingStatus {
	return &studio.TrainingStatus{Status: studio.StatusRunning, ProgressPercentage: progress}
}

func TestPoller_StopsOnTerminalStatus(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			if call < 3 {
				return runningStatus(float64(call) * 30), nil
			}
			return &studio.TrainingStatus{Status: studio.StatusCompleted, ProgressPercentage: 100}, nil
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(context.Background(), "job-1", recorder.record)

	select {
	case <-poller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on terminal status")
	}

	updates := recorder.snapshot()
	require.Len(t, updates, 3)
	require.Equal(t, studio.StatusCompleted, updates[2].Status)
	require.Equal(t, PhaseCompleted, updates[2].Phase)
	require.Equal(t, 3, client.callCount(), "no further ticks after a terminal status")
}

func TestPoller_InitialCheckFailureReportsFailed(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			return nil, errors.New("job not found")
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(context.Background(), "missing", recorder.record)

	<-poller.Done()

	updates := recorder.snapshot()
	require.Len(t, updates, 1)
	require.Equal(t, studio.StatusFailed, updates[0].Status)
	require.Contains(t, updates[0].Err, "job not found")
	require.Equal(t, 1, client.callCount(), "a failed initial check ends polling")
}

func TestPoller_TickErrorsAreToleratedAfterFirstCheck(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			switch call {
			case 1:
				return runningStatus(10), nil
			case 2:
				return nil, errors.New("transient")
			default:
				return &studio.TrainingStatus{Status: studio.StatusCompleted, ProgressPercentage: 100}, nil
			}
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(context.Background(), "job-1", recorder.record)

	<-poller.Done()

	updates := recorder.snapshot()
	require.Len(t, updates, 2, "the failed tick produces no update")
	require.Equal(t, studio.StatusCompleted, updates[1].Status)
}

func TestPoller_LifetimeCapStopsSilently(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			return runningStatus(50), nil
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{
		Interval:    5 * time.Millisecond,
		MaxDuration: 20 * time.Millisecond,
	})
	poller.Start(context.Background(), "job-1", recorder.record)

	select {
	case <-poller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not honor its lifetime cap")
	}

	// Every delivered update is a plain running snapshot; the cap itself
	// is not reported as an error.
	for _, u := range recorder.snapshot() {
		require.Equal(t, studio.StatusRunning, u.Status)
		require.Empty(t, u.Err)
	}
}

func TestPoller_StopIsIdempotentAndSilencesCallbacks(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			return runningStatus(50), nil
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(context.Background(), "job-1", recorder.record)

	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) >= 1
	}, 2*time.Second, time.Millisecond)

	poller.Stop()
	poller.Stop() // second call must be a no-op

	<-poller.Done()

	// Once Stop has returned, no further callback may fire.
	delivered := len(recorder.snapshot())
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, delivered, len(recorder.snapshot()))
}

func TestPoller_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			return runningStatus(50), nil
		},
	}

	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(ctx, "job-1", func(Update) {})

	cancel()

	select {
	case <-poller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}

func TestPoller_RowRatioDrivesProgress(t *testing.T) {
	client := &mockStatusClient{
		statusFn: func(call int) (*studio.TrainingStatus, error) {
			return &studio.TrainingStatus{
				Status:             studio.StatusCompleted,
				ProgressPercentage: 10,
				CompletedRows:      80,
				TotalRows:          100,
			}, nil
		},
	}

	recorder := &updateRecorder{}
	poller := NewPoller(client, &PollerOptions{Interval: 5 * time.Millisecond})
	poller.Start(context.Background(), "job-1", recorder.record)

	<-poller.Done()

	updates := recorder.snapshot()
	require.Len(t, updates, 1)
	require.InDelta(t, 80.0, updates[0].Progress, 1e-9)
}
