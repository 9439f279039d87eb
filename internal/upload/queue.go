// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// ErrQueueStopped is returned by Submit after Stop.
var ErrQueueStopped = errors.New("upload queue stopped")

// =============================================================================
// UPLOAD QUEUE
// =============================================================================

// Queue runs uploads one at a time in submission order.
type Queue struct {
	ingester Ingester
	limit    int64

	jobs       chan *Job
	notifyChan chan Notification

	mu         sync.RWMutex
	history    []*Job
	current    *Job
	maxHistory int

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool

	logger *slog.Logger
}

// Notification reports a job reaching a terminal state.
type Notification struct {
	JobID    string
	Name     string
	Channel  string
	State    State
	Err      error
	Response *skybot.IngestResponse
	Duration time.Duration
}

// NewQueue creates a queue that sends jobs to ing.
// maxPending bounds how many jobs may wait behind the running one.
func NewQueue(ing Ingester, maxPending int) *Queue {
	if maxPending <= 0 {
		maxPending = 20
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		ingester:   ing,
		limit:      skybot.DefaultMaxUploadSize,
		jobs:       make(chan *Job, maxPending),
		notifyChan: make(chan Notification, 100),
		maxHistory: 50,
		ctx:        ctx,
		cancel:     cancel,
		logger:     logging.For("upload"),
	}
}

// WithLimit sets the size cap applied during validation.
func (q *Queue) WithLimit(limit int64) *Queue {
	q.limit = limit
	return q
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start launches the worker. Calling Start more than once has no effect.
func (q *Queue) Start() {
	if !q.started.CompareAndSwap(false, true) {
		return
	}
	q.wg.Add(1)
	go q.processLoop()
}

// Stop cancels the running upload, fails waiting jobs and waits for the
// worker to exit.
func (q *Queue) Stop() {
	if !q.stopped.CompareAndSwap(false, true) {
		return
	}
	q.cancel()
	q.wg.Wait()

	for {
		select {
		case job := <-q.jobs:
			q.finish(job, ErrQueueStopped)
		default:
			return
		}
	}
}

// Submit enqueues a job. It fails when the queue is stopped or full.
func (q *Queue) Submit(job *Job) error {
	if q.stopped.Load() {
		return ErrQueueStopped
	}
	select {
	case q.jobs <- job:
		q.logger.Debug("upload queued", "job", job.ID, "file", job.Name, "channel", job.Channel)
		return nil
	default:
		return fmt.Errorf("upload queue is full: %d waiting", cap(q.jobs))
	}
}

func (q *Queue) processLoop() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.execute(job)
		}
	}
}

func (q *Queue) execute(job *Job) {
	q.mu.Lock()
	q.current = job
	q.mu.Unlock()

	err := job.Run(q.ctx, q.ingester, q.limit)
	if err != nil {
		q.logger.Warn("upload failed", "job", job.ID, "file", job.Name, "error", err)
	} else {
		q.logger.Info("upload complete", "job", job.ID, "file", job.Name, "channel", job.Channel, "duration", job.Duration())
	}

	q.mu.Lock()
	q.current = nil
	q.recordLocked(job)
	q.mu.Unlock()

	q.notify(notificationFor(job))
}

// finish fails a job that never ran.
func (q *Queue) finish(job *Job, err error) {
	_ = job.SetState(StateValidating)
	job.fail(err)

	q.mu.Lock()
	q.recordLocked(job)
	q.mu.Unlock()

	q.notify(notificationFor(job))
}

func notificationFor(job *Job) Notification {
	return Notification{
		JobID:    job.ID,
		Name:     job.Name,
		Channel:  job.Channel,
		State:    job.State(),
		Err:      job.Err(),
		Response: job.Response(),
		Duration: job.Duration(),
	}
}

// =============================================================================
// QUERIES
// =============================================================================

// State returns the state of the running job, or StateIdle.
func (q *Queue) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.current == nil {
		return StateIdle
	}
	return q.current.State()
}

// Current returns the running job, or nil.
func (q *Queue) Current() *Job {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.current
}

// Pending returns the number of jobs waiting to run.
func (q *Queue) Pending() int {
	return len(q.jobs)
}

// History returns finished jobs, oldest first.
func (q *Queue) History() []*Job {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*Job, len(q.history))
	copy(out, q.history)
	return out
}

// Summary returns a one-line summary of the queue.
func (q *Queue) Summary() string {
	q.mu.RLock()
	defer q.mu.RUnlock()

	succeeded, failed := 0, 0
	for _, job := range q.history {
		if job.State() == StateSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	running := 0
	if q.current != nil {
		running = 1
	}
	return fmt.Sprintf("Uploading: %d | Waiting: %d | Done: %d | Failed: %d",
		running, len(q.jobs), succeeded, failed)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notifications returns the channel that receives a Notification for every
// finished job.
func (q *Queue) Notifications() <-chan Notification {
	return q.notifyChan
}

func (q *Queue) notify(n Notification) {
	select {
	case q.notifyChan <- n:
	default:
		q.logger.Warn("notification channel full, dropped notification", "job", n.JobID, "state", n.State)
	}
}

// recordLocked appends to history, dropping the oldest beyond maxHistory.
// Must be called with lock held.
func (q *Queue) recordLocked(job *Job) {
	q.history = append(q.history, job)
	if excess := len(q.history) - q.maxHistory; excess > 0 {
		q.history = append([]*Job(nil), q.history[excess:]...)
	}
}
