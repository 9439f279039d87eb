// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// =============================================================================
// STATE
// =============================================================================

// State is the position of a job in the upload state machine.
type State string

const (
	StateIdle       State = "Idle"
	StateValidating State = "Validating"
	StateUploading  State = "Uploading"
	StateSuccess    State = "Success"
	StateError      State = "Error"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsTerminal reports whether s is Success or Error.
func (s State) IsTerminal() bool {
	return s == StateSuccess || s == StateError
}

// CanTransition reports whether a job may move from one state to another.
// Valid transitions: Idle -> Validating -> Uploading -> Success/Error,
// and Validating -> Error.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	switch from {
	case StateIdle:
		return to == StateValidating
	case StateValidating:
		return to == StateUploading || to == StateError
	case StateUploading:
		return to == StateSuccess || to == StateError
	default:
		return false
	}
}

// =============================================================================
// JOB
// =============================================================================

// Ingester sends one document to the backend.
type Ingester interface {
	Ingest(ctx context.Context, f skybot.File, channel string) (*skybot.IngestResponse, error)
}

// Job is a single upload.
type Job struct {
	ID      string
	Name    string
	Channel string
	Size    int64

	open func() (io.ReadCloser, error)

	mu        sync.RWMutex
	state     State
	err       error
	response  *skybot.IngestResponse
	startTime time.Time
	endTime   time.Time
	done      chan struct{}
}

// NewFileJob creates a job that uploads the file at path.
func NewFileJob(path, channel string) (*Job, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return newJob(filepath.Base(path), channel, info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// NewBytesJob creates a job that uploads data held in memory.
func NewBytesJob(name string, data []byte, channel string) *Job {
	return newJob(name, channel, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func newJob(name, channel string, size int64, open func() (io.ReadCloser, error)) *Job {
	return &Job{
		ID:      uuid.New().String(),
		Name:    name,
		Channel: channel,
		Size:    size,
		open:    open,
		state:   StateIdle,
		done:    make(chan struct{}),
	}
}

// SetState moves the job to a new state, rejecting invalid transitions.
func (j *Job) SetState(to State) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.setStateLocked(to)
}

func (j *Job) setStateLocked(to State) error {
	if !CanTransition(j.state, to) {
		return fmt.Errorf("invalid upload transition from %s to %s", j.state, to)
	}
	if j.state == StateIdle && to != StateIdle {
		j.startTime = time.Now()
	}
	if to.IsTerminal() && !j.state.IsTerminal() {
		j.endTime = time.Now()
		close(j.done)
	}
	j.state = to
	return nil
}

// State returns the current state.
func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// Err returns the failure, if the job ended in Error.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Response returns the backend response, if the job succeeded.
func (j *Job) Response() *skybot.IngestResponse {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.response
}

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Duration returns how long the job has been running, or ran.
func (j *Job) Duration() time.Duration {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.startTime.IsZero() {
		return 0
	}
	if j.endTime.IsZero() {
		return time.Since(j.startTime)
	}
	return j.endTime.Sub(j.startTime)
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
	_ = j.setStateLocked(StateError)
}

func (j *Job) succeed(resp *skybot.IngestResponse) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.response = resp
	_ = j.setStateLocked(StateSuccess)
}

// Run drives the job through validation and upload. limit is the size cap in
// bytes. Run must be called at most once per job.
func (j *Job) Run(ctx context.Context, ing Ingester, limit int64) error {
	if err := j.SetState(StateValidating); err != nil {
		return err
	}
	if err := Validate(j.Name, j.Size, limit); err != nil {
		j.fail(err)
		return err
	}

	rc, err := j.open()
	if err != nil {
		err = fmt.Errorf("cannot open %s: %w", j.Name, err)
		j.fail(err)
		return err
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		err = fmt.Errorf("cannot read %s: %w", j.Name, err)
		j.fail(err)
		return err
	}
	head = head[:n]

	file := skybot.File{
		Name:        j.Name,
		ContentType: DetectContentType(j.Name, head),
		Size:        j.Size,
		Content:     io.MultiReader(bytes.NewReader(head), rc),
	}

	if err := j.SetState(StateUploading); err != nil {
		return err
	}
	resp, err := ing.Ingest(ctx, file, j.Channel)
	if err != nil {
		j.fail(err)
		return err
	}
	j.succeed(resp)
	return nil
}
