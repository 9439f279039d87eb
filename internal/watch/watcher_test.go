// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) submit(path, channel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, filepath.Base(path)+"@"+channel)
	return r.err
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event")
		return Event{}
	}
}

func TestWatcherSubmitsNewDocuments(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	w, err := New(dir, "ops", 50*time.Millisecond, rec.submit)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".draft.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.exe"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF"), 0o644))

	ev := waitEvent(t, w)
	require.NoError(t, ev.Err)
	require.Equal(t, "report.pdf", filepath.Base(ev.Path))
	require.Equal(t, []string{"report.pdf@ops"}, rec.snapshot())
}

func TestWatcherReportsRejections(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{err: errors.New("queue full")}
	w, err := New(dir, "general", 20*time.Millisecond, rec.submit)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	ev := waitEvent(t, w)
	require.EqualError(t, ev.Err, "queue full")
}

func TestSettledAndFlushDedup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	rec := &recorder{}
	w, err := New(dir, "general", time.Second, rec.submit)
	require.NoError(t, err)
	defer w.Close()

	now := time.Now()
	w.touch(path)
	require.Empty(t, w.settled(now))
	ready := w.settled(now.Add(2 * time.Second))
	require.Equal(t, []string{path}, ready)

	w.flush(path)
	<-w.Events()
	w.flush(path)
	require.Len(t, rec.snapshot(), 1)

	w.forget(path)
	w.flush(path)
	<-w.Events()
	require.Len(t, rec.snapshot(), 2)
}

func TestNewRejectsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := New(path, "general", 0, func(string, string) error { return nil })
	require.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing"), "general", 0, nil)
	require.Error(t, err)
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"DATA.CSV", true},
		{".report.pdf", false},
		{"~$report.docx", false},
		{"notes.md~", false},
		{"movie.mp4", false},
		{"README", false},
	}
	for _, tc := range tests {
		if got := Eligible(tc.name); got != tc.want {
			t.Errorf("Eligible(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
