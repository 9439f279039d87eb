// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the controller shared by every Skybot front end.
//
// It owns the conversation, the channel registry, the upload queue and the
// upload status line. Front ends call its methods from a single goroutine
// and run the network halves (Fetch, FetchChannels) wherever they like.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/model"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/skybot"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// ErrBusy is returned by BeginSend while a previous query is unanswered.
var ErrBusy = errors.New("a query is already in progress")

// Backend is the subset of the Skybot client the controller needs.
type Backend interface {
	upload.Ingester
	Chat(ctx context.Context, query string, channel *string) (*skybot.ChatResponse, error)
	ListChannels(ctx context.Context) []string
}

// Options configures a controller.
type Options struct {
	Render        render.Options
	MaxUploadSize int64
	MaxPending    int
}

// App is the controller.
type App struct {
	backend  Backend
	conv     *model.Conversation
	channels *channels.Registry
	queue    *upload.Queue
	opts     Options

	mu      sync.Mutex
	status  upload.Status
	pending *PendingSend

	logger *slog.Logger
}

// New creates a controller. Call Start before uploading.
func New(backend Backend, opts Options) *App {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = skybot.DefaultMaxUploadSize
	}
	return &App{
		backend:  backend,
		conv:     model.NewConversation(),
		channels: channels.New(),
		queue:    upload.NewQueue(backend, opts.MaxPending).WithLimit(opts.MaxUploadSize),
		opts:     opts,
		logger:   logging.For("app"),
	}
}

// Start launches the upload worker.
func (a *App) Start() {
	a.queue.Start()
}

// Stop cancels the running upload and stops the worker.
func (a *App) Stop() {
	a.queue.Stop()
}

// Conversation returns the chat history.
func (a *App) Conversation() *model.Conversation {
	return a.conv
}

// Channels returns the channel registry.
func (a *App) Channels() *channels.Registry {
	return a.channels
}

// Queue returns the upload queue.
func (a *App) Queue() *upload.Queue {
	return a.queue
}

// Notifications delivers finished uploads. Pass each one to FinishUpload.
func (a *App) Notifications() <-chan upload.Notification {
	return a.queue.Notifications()
}

// Status returns the upload status line.
func (a *App) Status() upload.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) setStatus(s upload.Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Busy reports whether a query is awaiting its answer.
func (a *App) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// =============================================================================
// CHAT
// =============================================================================

// PendingSend is a query that has been added to the conversation but not
// yet answered.
type PendingSend struct {
	Query       string
	Channel     *string
	User        *model.Message
	Placeholder *model.Message
}

// Reply is the outcome of Fetch.
type Reply struct {
	Response *skybot.ChatResponse
	Err      error
}

// BeginSend appends the user message and the loading placeholder. The chat
// filter is captured here so a later selection change does not affect the
// query in flight.
func (a *App) BeginSend(text string) (*PendingSend, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, skybot.ErrEmptyQuery
	}

	a.mu.Lock()
	if a.pending != nil {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	p := &PendingSend{Query: query}
	a.pending = p
	a.mu.Unlock()

	if name, ok := a.channels.ChatChannel(); ok {
		p.Channel = skybot.Channel(name)
	}
	p.User = a.conv.AddUser(query)
	p.Placeholder = a.conv.AddLoading()
	return p, nil
}

// Fetch performs the chat call for p. It touches no controller state.
func (a *App) Fetch(ctx context.Context, p *PendingSend) Reply {
	resp, err := a.backend.Chat(ctx, p.Query, p.Channel)
	return Reply{Response: resp, Err: err}
}

// FinishSend removes the placeholder and appends the answer or the error.
func (a *App) FinishSend(p *PendingSend, r Reply) *model.Message {
	a.conv.Remove(p.Placeholder.ID)

	a.mu.Lock()
	if a.pending == p {
		a.pending = nil
	}
	a.mu.Unlock()

	if r.Err != nil {
		a.logger.Warn("chat failed", "error", r.Err, "connection", skybot.IsConnection(r.Err))
		return a.conv.AddError(ErrorText(r.Err))
	}
	return a.conv.AddSystem(render.Compose(r.Response, a.opts.Render))
}

// Send runs a whole query synchronously.
func (a *App) Send(ctx context.Context, text string) (*model.Message, error) {
	p, err := a.BeginSend(text)
	if err != nil {
		return nil, err
	}
	return a.FinishSend(p, a.Fetch(ctx, p)), nil
}

// ErrorText formats a chat failure for display.
func ErrorText(err error) string {
	if detail, ok := skybot.DetailOf(err); ok {
		return "Error: " + detail
	}
	return "Connection Error: " + err.Error()
}

// =============================================================================
// UPLOADS
// =============================================================================

// Upload validates the file at path and queues it for channel. An empty
// channel selects the current ingest target. Validation failures update the
// status line and are returned without contacting the backend.
func (a *App) Upload(path, channel string) (*upload.Job, error) {
	job, err := upload.NewFileJob(path, a.targetOr(channel))
	if err != nil {
		a.setStatus(upload.StatusFailed(err))
		return nil, err
	}
	return a.submit(job)
}

// UploadBytes queues in-memory content under name.
func (a *App) UploadBytes(name string, data []byte, channel string) (*upload.Job, error) {
	return a.submit(upload.NewBytesJob(name, data, a.targetOr(channel)))
}

// MaxUploadSize returns the upload cap in bytes that Upload and UploadBytes
// enforce.
func (a *App) MaxUploadSize() int64 {
	return a.opts.MaxUploadSize
}

func (a *App) submit(job *upload.Job) (*upload.Job, error) {
	if err := upload.Validate(job.Name, job.Size, a.opts.MaxUploadSize); err != nil {
		a.setStatus(upload.StatusFailed(err))
		return nil, err
	}
	if err := a.queue.Submit(job); err != nil {
		a.setStatus(upload.StatusFailed(err))
		return nil, err
	}
	a.setStatus(upload.StatusUploading(job.Name))
	return job, nil
}

func (a *App) targetOr(channel string) string {
	if name := channels.Normalize(channel); name != "" {
		return name
	}
	return a.channels.Target()
}

// FinishUpload applies a finished upload. On success the channel is
// confirmed and a system message is appended; the caller should then
// refresh the channel list. Failures only update the status line.
func (a *App) FinishUpload(n upload.Notification) *model.Message {
	if n.State != upload.StateSuccess {
		err := n.Err
		if err == nil {
			err = errors.New("upload failed")
		}
		a.setStatus(upload.StatusFailed(err))
		return nil
	}

	file := n.Name
	if n.Response != nil && n.Response.File != "" {
		file = n.Response.File
	}
	a.channels.Confirm(n.Channel)
	a.setStatus(upload.StatusComplete())
	return a.conv.AddSystem(upload.SystemMessage(file, n.Channel))
}

// =============================================================================
// CHANNELS
// =============================================================================

// FetchChannels lists backend channels. It touches no controller state.
func (a *App) FetchChannels(ctx context.Context) []string {
	return a.backend.ListChannels(ctx)
}

// ApplyChannels rebuilds the registry from a listing.
func (a *App) ApplyChannels(names []string) bool {
	return a.channels.Refresh(names)
}

// RefreshChannels fetches and applies the backend channel list.
func (a *App) RefreshChannels(ctx context.Context) bool {
	return a.ApplyChannels(a.FetchChannels(ctx))
}

// AddChannel creates a pending channel and selects it as the ingest target.
func (a *App) AddChannel(raw string) (string, error) {
	return a.channels.Add(raw)
}

// Clear empties the conversation.
func (a *App) Clear() {
	a.conv.Clear()
}
