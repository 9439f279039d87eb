// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package skybot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/skybot-tui/internal/logging"
)

// Configuration constants for the Skybot backend.
const (
	// DefaultBaseURL is where the backend listens in a default install.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultChannel is the channel the backend files documents under when
	// none is chosen.
	DefaultChannel = "general"

	// DefaultChatTimeout bounds a single chat round trip. Answer generation
	// on a local model is slow, so this is generous.
	DefaultChatTimeout = 120 * time.Second

	// DefaultIngestTimeout bounds an upload including server-side ingestion.
	DefaultIngestTimeout = 300 * time.Second

	// DefaultListTimeout bounds GET /channels.
	DefaultListTimeout = 10 * time.Second

	// DefaultMaxUploadSize is the largest file Ingest will transmit.
	DefaultMaxUploadSize int64 = 50 * 1024 * 1024

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "skybot-tui/1.0"
)

// Client talks to the Skybot backend. It is safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	chatTimeout   time.Duration
	ingestTimeout time.Duration
	listTimeout   time.Duration
	maxUploadSize int64
	limiter       *rate.Limiter
	logger        *slog.Logger
}

// NewClient creates a client for the backend at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:       strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient:    &http.Client{},
		chatTimeout:   DefaultChatTimeout,
		ingestTimeout: DefaultIngestTimeout,
		listTimeout:   DefaultListTimeout,
		maxUploadSize: DefaultMaxUploadSize,
		logger:        logging.For("skybot"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithTimeouts sets per-operation timeouts. Zero leaves a value unchanged.
func (c *Client) WithTimeouts(chat, ingest, list time.Duration) *Client {
	if chat > 0 {
		c.chatTimeout = chat
	}
	if ingest > 0 {
		c.ingestTimeout = ingest
	}
	if list > 0 {
		c.listTimeout = list
	}
	return c
}

// WithMaxUploadSize sets the upload cap in bytes.
func (c *Client) WithMaxUploadSize(n int64) *Client {
	if n > 0 {
		c.maxUploadSize = n
	}
	return c
}

// WithRateLimit limits outgoing requests to perSecond with the given burst.
// A non-positive perSecond removes the limit.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MaxUploadSize returns the upload cap in bytes.
func (c *Client) MaxUploadSize() int64 {
	return c.maxUploadSize
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat asks the backend a question. A nil channel queries all channels and
// leaves the channel field out of the request.
//
// Non-success statuses with a JSON body return *APIError carrying the
// backend detail. Transport failures and non-JSON error bodies return
// *ConnectionError. A successful response with no usable answer yields
// NoResponseAnswer.
func (c *Client) Chat(ctx context.Context, query string, channel *string) (*ChatResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	payload, err := json.Marshal(ChatRequest{Query: query, Channel: channel})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, body, err := c.send(ctx, c.chatTimeout, http.MethodPost, "/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, errorFromBody("/chat", status, body, "")
	}

	resp, err := decodeChatResponse(body)
	if err != nil {
		c.logger.Warn("chat response not decodable", "error", err, "bytes", len(body))
	}
	if strings.TrimSpace(resp.Answer) == "" {
		resp.Answer = NoResponseAnswer
	}
	return resp, nil
}

// Ingest uploads a document into channel. An empty channel selects
// DefaultChannel. Files over the upload cap fail with *FileTooLargeError
// before anything is sent.
func (c *Client) Ingest(ctx context.Context, f File, channel string) (*IngestResponse, error) {
	if f.Size > c.maxUploadSize {
		return nil, &FileTooLargeError{Name: f.Name, Size: f.Size, Limit: c.maxUploadSize}
	}
	if f.Content == nil {
		return nil, fmt.Errorf("no content for %s", f.Name)
	}
	if strings.TrimSpace(channel) == "" {
		channel = DefaultChannel
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(f.Content, c.maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if n > c.maxUploadSize {
		return nil, &FileTooLargeError{Name: f.Name, Size: n, Limit: c.maxUploadSize}
	}
	if err := mw.WriteField("channel", channel); err != nil {
		return nil, fmt.Errorf("failed to write channel field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	status, body, err := c.send(ctx, c.ingestTimeout, http.MethodPost, "/ingest", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, errorFromBody("/ingest", status, body, "Upload failed")
	}

	resp := &IngestResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		c.logger.Warn("ingest response not decodable", "error", err, "bytes", len(body))
		resp = &IngestResponse{Status: "unknown"}
	}
	if resp.File == "" {
		resp.File = f.Name
	}
	return resp, nil
}

// ListChannels returns the channels known to the backend. Listing is
// best-effort: every failure yields an empty slice.
func (c *Client) ListChannels(ctx context.Context) []string {
	status, body, err := c.send(ctx, c.listTimeout, http.MethodGet, "/channels", "", nil)
	if err != nil {
		c.logger.Debug("channel listing failed", "error", err)
		return []string{}
	}
	if !isSuccess(status) {
		c.logger.Debug("channel listing rejected", "status", status)
		return []string{}
	}

	var list channelList
	if err := json.Unmarshal(body, &list); err != nil {
		c.logger.Debug("channel listing not decodable", "error", err)
		return []string{}
	}

	names := make([]string, 0, len(list.Channels))
	for _, name := range list.Channels {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	return names
}

// =============================================================================
// TRANSPORT
// =============================================================================

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// send performs one request and returns the status and the size-capped body.
// Every failure before a status is available is a *ConnectionError.
func (c *Client) send(ctx context.Context, timeout time.Duration, method, path, contentType string, body io.Reader) (int, []byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &ConnectionError{Op: path, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Info("request failed", "method", method, "path", path, "error", err, "duration", time.Since(start))
		return 0, nil, &ConnectionError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return 0, nil, &ConnectionError{Op: path, Err: err}
	}

	c.logger.Info("request complete", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	return resp.StatusCode, data, nil
}

// readResponse reads the response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
