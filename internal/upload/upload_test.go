// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// fakeIngester records uploads and tracks how many run at once.
type fakeIngester struct {
	mu       sync.Mutex
	calls    []skybot.File
	channels []string
	bodies   []string
	err      error
	delay    time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func (f *fakeIngester) Ingest(ctx context.Context, file skybot.File, channel string) (*skybot.IngestResponse, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	body, _ := io.ReadAll(file.Content)
	f.mu.Lock()
	f.calls = append(f.calls, file)
	f.channels = append(f.channels, channel)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &skybot.ConnectionError{Op: "/ingest", Err: ctx.Err()}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &skybot.IngestResponse{Status: "success", File: file.Name, Chunks: 3}, nil
}

func (f *fakeIngester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_Extensions(t *testing.T) {
	for _, name := range []string{"report.pdf", "REPORT.PDF", "a.docx", "b.pptx", "c.xlsx", "d.csv", "e.txt", "f.md", "g.log", "h.html", "i.HTM"} {
		require.NoError(t, Validate(name, 10, 100), name)
	}

	err := Validate("report.exe", 10, 100)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, ".exe", verr.Ext)
	require.Contains(t, err.Error(), ".pdf, .docx")

	err = Validate("Makefile", 10, 100)
	require.True(t, errors.As(err, &verr))
	require.Contains(t, err.Error(), "no file extension")
}

func TestValidate_Size(t *testing.T) {
	var tooLarge *skybot.FileTooLargeError
	require.True(t, errors.As(Validate("a.pdf", 101, 100), &tooLarge))
	require.NoError(t, Validate("a.pdf", 100, 100))
	require.NoError(t, Validate("a.pdf", 1<<40, 0))
}

func TestDetectContentType(t *testing.T) {
	require.Equal(t, "application/pdf", DetectContentType("report.pdf", []byte("%PDF-1.7\n%binary")))
	require.Equal(t, "text/markdown", DetectContentType("notes.md", []byte("# Title\n\nbody")))
	require.Equal(t, "text/csv", DetectContentType("data.csv", []byte("a,b\n1,2\n")))
	require.Equal(t, "application/pdf", DetectContentType("empty.pdf", nil))
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		DetectContentType("doc.docx", []byte("PK\x03\x04garbage")))
}

// =============================================================================
// JOB STATE MACHINE
// =============================================================================

func TestCanTransition(t *testing.T) {
	valid := [][2]State{
		{StateIdle, StateValidating},
		{StateValidating, StateUploading},
		{StateValidating, StateError},
		{StateUploading, StateSuccess},
		{StateUploading, StateError},
	}
	for _, tr := range valid {
		require.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	invalid := [][2]State{
		{StateIdle, StateUploading},
		{StateIdle, StateSuccess},
		{StateValidating, StateSuccess},
		{StateSuccess, StateError},
		{StateError, StateUploading},
		{StateSuccess, StateIdle},
	}
	for _, tr := range invalid {
		require.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestJobRun_Success(t *testing.T) {
	ing := &fakeIngester{}
	job := NewBytesJob("manual.pdf", []byte("%PDF-1.4 manual"), "process")
	require.Equal(t, StateIdle, job.State())

	require.NoError(t, job.Run(context.Background(), ing, 1024))
	require.Equal(t, StateSuccess, job.State())
	require.Equal(t, "manual.pdf", job.Response().File)
	require.Equal(t, []string{"process"}, ing.channels)
	require.Equal(t, "%PDF-1.4 manual", ing.bodies[0])
	require.Equal(t, "application/pdf", ing.calls[0].ContentType)

	select {
	case <-job.Done():
	default:
		t.Fatal("done channel should be closed")
	}
	require.Equal(t, StatusComplete(), StatusFor(job))
}

func TestJobRun_RejectedLocally(t *testing.T) {
	ing := &fakeIngester{}
	job := NewBytesJob("report.exe", []byte("MZ"), "general")

	err := job.Run(context.Background(), ing, 1024)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, StateError, job.State())
	require.Zero(t, ing.count(), "no request for rejected files")

	status := StatusFor(job)
	require.Equal(t, StatusError, status.Kind)
	require.Contains(t, status.Text, "Error: .exe files are not supported")
}

func TestJobRun_TooLarge(t *testing.T) {
	ing := &fakeIngester{}
	job := NewBytesJob("big.txt", make([]byte, 11), "general")

	err := job.Run(context.Background(), ing, 10)
	var tooLarge *skybot.FileTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	require.Zero(t, ing.count())
}

func TestJobRun_BackendError(t *testing.T) {
	ing := &fakeIngester{err: &skybot.APIError{Status: 500, Detail: "parser crashed"}}
	job := NewBytesJob("a.txt", []byte("hello"), "general")

	require.Error(t, job.Run(context.Background(), ing, 1024))
	require.Equal(t, StateError, job.State())
	require.Equal(t, Status{Kind: StatusError, Text: "Error: parser crashed"}, StatusFor(job))
}

func TestJobRun_OnlyOnce(t *testing.T) {
	job := NewBytesJob("a.txt", []byte("x"), "general")
	require.NoError(t, job.Run(context.Background(), &fakeIngester{}, 1024))
	require.Error(t, job.Run(context.Background(), &fakeIngester{}, 1024))
	require.Equal(t, StateSuccess, job.State())
}

func TestNewFileJob(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0o644))

	job, err := NewFileJob(path, "general")
	require.NoError(t, err)
	require.Equal(t, "notes.md", job.Name)
	require.Equal(t, int64(7), job.Size)

	ing := &fakeIngester{}
	require.NoError(t, job.Run(context.Background(), ing, 1024))
	require.Equal(t, "# Notes", ing.bodies[0])

	_, err = NewFileJob(filepath.Join(dir, "missing.pdf"), "general")
	require.Error(t, err)
	_, err = NewFileJob(dir, "general")
	require.Error(t, err)
}

func TestStatusText(t *testing.T) {
	require.Equal(t, "Uploading report.pdf...", StatusUploading("report.pdf").Text)
	require.Equal(t, "Ingestion complete! Ready to chat.", StatusComplete().Text)
	require.Equal(t,
		"I've finished reading **report.pdf** into the **process** channel. You can now ask questions about it.",
		SystemMessage("report.pdf", "process"))
}

// =============================================================================
// QUEUE
// =============================================================================

func TestQueue_SerializesUploads(t *testing.T) {
	ing := &fakeIngester{delay: 20 * time.Millisecond}
	q := NewQueue(ing, 10)
	q.Start()
	defer q.Stop()

	var jobs []*Job
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		job := NewBytesJob(name, []byte(name), "general")
		require.NoError(t, q.Submit(job))
		jobs = append(jobs, job)
	}

	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("job %s did not finish", job.Name)
		}
	}

	require.Equal(t, int32(1), ing.maxActive.Load(), "uploads must not overlap")
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt", "d.txt"}, ing.bodies)

	for range jobs {
		n := <-q.Notifications()
		require.Equal(t, StateSuccess, n.State)
		require.NotNil(t, n.Response)
	}
	require.Len(t, q.History(), 4)
	require.Equal(t, StateIdle, q.State())
	require.Equal(t, "Uploading: 0 | Waiting: 0 | Done: 4 | Failed: 0", q.Summary())
}

func TestQueue_NotifiesFailures(t *testing.T) {
	q := NewQueue(&fakeIngester{}, 10)
	q.Start()
	defer q.Stop()

	job := NewBytesJob("virus.exe", []byte("MZ"), "general")
	require.NoError(t, q.Submit(job))

	select {
	case n := <-q.Notifications():
		require.Equal(t, job.ID, n.JobID)
		require.Equal(t, StateError, n.State)
		var verr *ValidationError
		require.True(t, errors.As(n.Err, &verr))
	case <-time.After(5 * time.Second):
		t.Fatal("no notification")
	}
}

func TestQueue_Full(t *testing.T) {
	q := NewQueue(&fakeIngester{}, 1)
	require.NoError(t, q.Submit(NewBytesJob("a.txt", nil, "general")))
	require.Error(t, q.Submit(NewBytesJob("b.txt", nil, "general")))
	q.Stop()
}

func TestQueue_StopFailsWaitingJobs(t *testing.T) {
	q := NewQueue(&fakeIngester{}, 5)
	job := NewBytesJob("a.txt", []byte("x"), "general")
	require.NoError(t, q.Submit(job))

	q.Stop()
	<-job.Done()
	require.ErrorIs(t, job.Err(), ErrQueueStopped)
	require.ErrorIs(t, q.Submit(NewBytesJob("b.txt", nil, "general")), ErrQueueStopped)
}

func TestQueue_StopCancelsRunningUpload(t *testing.T) {
	ing := &fakeIngester{delay: time.Minute}
	q := NewQueue(ing, 5)
	q.Start()

	job := NewBytesJob("slow.txt", []byte("x"), "general")
	require.NoError(t, q.Submit(job))
	require.Eventually(t, func() bool { return ing.count() == 1 }, 5*time.Second, 5*time.Millisecond)
	require.Equal(t, StateUploading, q.State())

	q.Stop()
	<-job.Done()
	require.True(t, skybot.IsConnection(job.Err()))
}
