// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package progress

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/tunestudio/tune/pkg/studio"
)

const (
	// DefaultInterval is the delay between poll ticks.
	DefaultInterval = 2 * time.Second

	// DefaultMaxDuration bounds total polling lifetime. When it elapses,
	// polling stops silently; no error is surfaced.
	DefaultMaxDuration = 10 * time.Minute
)

// StatusClient is the subset of the backend client the poller needs.
type StatusClient interface {
	TrainingStatus(ctx context.Context, jobID string) (*studio.TrainingStatus, error)
}

// Update is one observed snapshot delivered to the poll callback.
type Update struct {
	Status        studio.JobStatus
	Progress      float64
	Phase         Phase
	CompletedRows int
	TotalRows     int
	CurrentEpoch  int
	TotalEpochs   int
	Err           string
}

// PollerOptions configures a [Poller].
type PollerOptions struct {
	Interval    time.Duration
	MaxDuration time.Duration
	Clock       clock.Clock
}

// Poller repeatedly fetches a job's status and reports phase and progress
// until the job reaches a terminal state or the polling lifetime elapses.
//
// Ticks are strictly sequential: the next delay is armed only after the
// previous status request settles, so a slow response can never interleave
// with a newer tick.
type Poller struct {
	client      StatusClient
	clock       clock.Clock
	interval    time.Duration
	maxDuration time.Duration

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewPoller creates a poller with the given status client.
func NewPoller(client StatusClient, opts *PollerOptions) *Poller {
	if opts == nil {
		opts = &PollerOptions{}
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	maxDuration := opts.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Poller{
		client:      client,
		clock:       clk,
		interval:    interval,
		maxDuration: maxDuration,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start begins polling jobID, invoking onUpdate for every observed
// snapshot. A failed initial status check is surfaced as a failed Update
// with the error message attached; transport failures on later ticks are
// logged and polling continues until the job is terminal or the lifetime
// cap elapses.
func (p *Poller) Start(ctx context.Context, jobID string, onUpdate func(Update)) {
	go p.run(ctx, jobID, onUpdate)
}

// Stop cancels polling. It is idempotent and safe to call concurrently
// with an in-flight tick; once it returns, onUpdate will not be invoked
// again.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopCh)
	}
}

// Done is closed when the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context, jobID string, onUpdate func(Update)) {
	defer close(p.done)

	deadline := p.clock.Now().Add(p.maxDuration)

	// The initial check is special: its failure means the job could not be
	// observed at all and is reported as a failed status.
	status, err := p.client.TrainingStatus(ctx, jobID)
	if err != nil {
		p.emit(onUpdate, Update{Status: studio.StatusFailed, Err: err.Error()})
		return
	}

	if terminal := p.report(onUpdate, status); terminal {
		return
	}

	for {
		timer := p.clock.Timer(p.interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		if p.clock.Now().After(deadline) {
			// Lifetime cap: abandon silently to bound resource usage.
			return
		}

		status, err := p.client.TrainingStatus(ctx, jobID)
		if err != nil {
			log.Printf("poll tick failed for job %s: %v", jobID, err)
			continue
		}

		if terminal := p.report(onUpdate, status); terminal {
			return
		}
	}
}

// report converts a status snapshot into an Update and emits it. Returns
// true when the status is terminal and polling should stop.
func (p *Poller) report(onUpdate func(Update), status *studio.TrainingStatus) bool {
	percent := Percent(status)

	phase := PhaseFor(percent)
	if status.Status == studio.StatusCompleted {
		phase = PhaseCompleted
	}

	p.emit(onUpdate, Update{
		Status:        status.Status,
		Progress:      percent,
		Phase:         phase,
		CompletedRows: status.CompletedRows,
		TotalRows:     status.TotalRows,
		CurrentEpoch:  status.CurrentEpoch,
		TotalEpochs:   status.TotalEpochs,
		Err:           status.Error,
	})

	return status.Status.IsTerminal()
}

// emit delivers an update unless the poller has been stopped. The callback
// runs under the poller's lock, which is what guarantees no delivery can
// race past a completed Stop call.
func (p *Poller) emit(onUpdate func(Update), u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || onUpdate == nil {
		return
	}

	onUpdate(u)
}
