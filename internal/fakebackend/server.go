// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakebackend is an in-memory implementation of the Skybot backend
// HTTP contract. It backs the client tests and the skybot-fakebackend demo
// binary.
package fakebackend

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jeranaias/skybot-tui/internal/logging"
)

// chunkSize is the number of bytes per reported chunk.
const chunkSize = 500

// maxUploadMemory bounds multipart parsing held in memory.
const maxUploadMemory = 32 << 20

var allowedExt = map[string]bool{
	".pdf": true, ".docx": true, ".pptx": true, ".xlsx": true, ".csv": true,
	".txt": true, ".md": true, ".log": true, ".html": true, ".htm": true,
}

// Document is an ingested file.
type Document struct {
	Name    string
	Channel string
	Content []byte
	Chunks  int
}

// Request records one /chat or /ingest call.
type Request struct {
	Path    string
	Query   string
	Channel string
	// HasChannel reports whether the chat body carried a channel key at all.
	HasChannel bool
	File       string
}

type failure struct {
	status int
	detail any
}

// Server is the fake backend. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	channels []string
	docs     []Document
	images   []string
	requests []Request
	failNext *failure
	latency  time.Duration

	router *chi.Mux
	logger *slog.Logger
}

// New returns a server seeded with the "general" channel.
func New() *Server {
	s := &Server{
		channels: []string{"general"},
		logger:   logging.For("fakebackend"),
	}

	r := chi.NewRouter()
	r.Use(s.delay)
	r.Get("/health", s.handleHealth)
	r.Get("/channels", s.handleChannels)
	r.Post("/chat", s.handleChat)
	r.Post("/ingest", s.handleIngest)
	r.Get("/static/documents/{name}", s.handleDocument)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// AddChannel registers a channel without ingesting anything.
func (s *Server) AddChannel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addChannelLocked(name)
}

// AddDocument stores content as if it had been ingested.
func (s *Server) AddDocument(name, channel string, content []byte) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addDocumentLocked(name, channel, content)
}

// SetImages sets the image paths returned with every answer.
func (s *Server) SetImages(images ...string) {
	s.mu.Lock()
	s.images = append([]string(nil), images...)
	s.mu.Unlock()
}

// FailNext makes the next /chat, /ingest or /channels call fail with status.
// A string detail is sent as-is; any other value is JSON encoded.
func (s *Server) FailNext(status int, detail any) {
	s.mu.Lock()
	s.failNext = &failure{status: status, detail: detail}
	s.mu.Unlock()
}

// SetLatency delays every response.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// Requests returns a copy of the recorded chat and ingest calls.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Documents returns a copy of the ingested documents.
func (s *Server) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Document(nil), s.docs...)
}

// Channels returns the current channel list.
func (s *Server) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.channels...)
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		d := s.latency
		s.mu.Unlock()
		if d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// takeFailure consumes a pending FailNext and writes it.
func (s *Server) takeFailure(w http.ResponseWriter) bool {
	s.mu.Lock()
	f := s.failNext
	s.failNext = nil
	s.mu.Unlock()
	if f == nil {
		return false
	}
	writeJSON(w, f.status, map[string]any{"detail": f.detail})
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	if s.takeFailure(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"channels": s.Channels()})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(w) {
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidation(w, "body", "Input should be a valid dictionary")
		return
	}

	var query string
	if raw, ok := body["query"]; !ok || json.Unmarshal(raw, &query) != nil {
		writeValidation(w, "query", "Field required")
		return
	}

	rec := Request{Path: "/chat", Query: query}
	if raw, ok := body["channel"]; ok {
		rec.HasChannel = true
		_ = json.Unmarshal(raw, &rec.Channel)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	answer, citations := s.answerLocked(query, rec.Channel, rec.HasChannel)
	images := append([]string(nil), s.images...)
	s.mu.Unlock()

	s.logger.Debug("chat", "query", query, "channel", rec.Channel, "citations", len(citations))
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":    answer,
		"citations": citations,
		"images":    images,
	})
}

// answerLocked runs a keyword match over documents in scope.
func (s *Server) answerLocked(query, channel string, scoped bool) (string, []map[string]any) {
	terms := strings.Fields(strings.ToLower(query))
	var citations []map[string]any
	var excerpt string

	for _, doc := range s.docs {
		if scoped && doc.Channel != channel {
			continue
		}
		text := string(doc.Content)
		lower := strings.ToLower(text)
		for _, term := range terms {
			idx := strings.Index(lower, term)
			if idx < 0 {
				continue
			}
			citations = append(citations, map[string]any{
				"source": doc.Name,
				"page":   idx/chunkSize + 1,
			})
			if excerpt == "" {
				excerpt = snippet(text, idx)
			}
			break
		}
	}

	if len(citations) == 0 {
		return "I could not find anything about that in the documents.", nil
	}
	return "From the documents: " + excerpt, citations
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.takeFailure(w) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeValidation(w, "file", "Field required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidation(w, "file", "Field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedExt[ext] {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Unsupported file type: " + ext})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	channel := r.FormValue("channel")
	if channel == "" {
		channel = "general"
	}

	s.mu.Lock()
	doc := s.addDocumentLocked(header.Filename, channel, content)
	s.requests = append(s.requests, Request{Path: "/ingest", Channel: channel, HasChannel: true, File: header.Filename})
	s.mu.Unlock()

	s.logger.Info("ingested", "file", doc.Name, "channel", channel, "chunks", doc.Chunks)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"file":      doc.Name,
		"chunks":    doc.Chunks,
		"ingest_id": uuid.New().String(),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.docs) - 1; i >= 0; i-- {
		if s.docs[i].Name == name {
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(s.docs[i].Content)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
}

func (s *Server) addChannelLocked(name string) {
	for _, c := range s.channels {
		if c == name {
			return
		}
	}
	s.channels = append(s.channels, name)
	rest := s.channels[1:]
	sort.Strings(rest)
}

func (s *Server) addDocumentLocked(name, channel string, content []byte) Document {
	doc := Document{
		Name:    name,
		Channel: channel,
		Content: content,
		Chunks:  len(content)/chunkSize + 1,
	}
	s.docs = append(s.docs, doc)
	s.addChannelLocked(channel)
	return doc
}

func snippet(text string, at int) string {
	start := at - 40
	if start < 0 {
		start = 0
	}
	end := at + 120
	if end > len(text) {
		end = len(text)
	}
	return strings.Join(strings.Fields(text[start:end]), " ")
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"type": "missing",
			"loc":  []string{"body", field},
			"msg":  msg,
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
