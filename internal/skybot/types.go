// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package skybot

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// NoResponseAnswer is the answer used when a successful chat response has no
// usable body.
const NoResponseAnswer = "No response received."

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query string `json:"query"`
	// Channel is omitted from the JSON entirely when nil. The backend treats a
	// missing channel as "all channels", which is not the same as "".
	Channel *string `json:"channel,omitempty"`
}

// Channel returns a channel pointer for ChatRequest and Client.Chat.
func Channel(name string) *string {
	return &name
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations,omitempty"`
	Images    []string   `json:"images,omitempty"`
}

// decodeChatResponse reads a /chat body field by field so one odd citation
// or image entry does not cost the answer. Entries that do not decode are
// dropped. The error reports a body that is not a JSON object at all.
func decodeChatResponse(body []byte) (*ChatResponse, error) {
	var raw struct {
		Answer    json.RawMessage   `json:"answer"`
		Citations []json.RawMessage `json:"citations"`
		Images    []json.RawMessage `json:"images"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &ChatResponse{}, err
	}

	resp := &ChatResponse{}
	_ = json.Unmarshal(raw.Answer, &resp.Answer)
	for _, entry := range raw.Citations {
		var c Citation
		if err := json.Unmarshal(entry, &c); err == nil {
			resp.Citations = append(resp.Citations, c)
		}
	}
	for _, entry := range raw.Images {
		var img string
		if err := json.Unmarshal(entry, &img); err == nil && img != "" {
			resp.Images = append(resp.Images, img)
		}
	}
	return resp, nil
}

// Citation attributes part of an answer to a page of a source document.
type Citation struct {
	Source string `json:"source"`
	Page   string `json:"page"`
}

// UnmarshalJSON accepts the page as a number, a string or null.
func (c *Citation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Source *string         `json:"source"`
		Page   json.RawMessage `json:"page"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Source = "Unknown"
	if raw.Source != nil && strings.TrimSpace(*raw.Source) != "" {
		c.Source = *raw.Source
	}

	c.Page = "?"
	page := bytes.TrimSpace(raw.Page)
	switch {
	case len(page) == 0, bytes.Equal(page, []byte("null")):
	case page[0] == '"':
		var s string
		if err := json.Unmarshal(page, &s); err == nil && s != "" {
			c.Page = s
		}
	default:
		var n json.Number
		if err := json.Unmarshal(page, &n); err == nil {
			if i, err := n.Int64(); err == nil {
				c.Page = strconv.FormatInt(i, 10)
			} else {
				c.Page = n.String()
			}
		}
	}
	return nil
}

// Key returns the composite identity used for de-duplication.
func (c Citation) Key() string {
	return c.Source + "\x00" + c.Page
}

// IngestResponse is the body of a successful POST /ingest.
type IngestResponse struct {
	Status   string `json:"status"`
	File     string `json:"file"`
	Chunks   int    `json:"chunks"`
	IngestID string `json:"ingest_id"`
}

// File is a document to upload.
type File struct {
	// Name is the filename sent with the multipart part.
	Name string
	// ContentType is the declared MIME type of the part.
	ContentType string
	// Size is the content length in bytes.
	Size int64
	// Content is read once by Ingest.
	Content io.Reader
}

// channelList is the body of GET /channels.
type channelList struct {
	Channels []string `json:"channels"`
}

// errorBody is the error payload produced by the backend. FastAPI sends
// either a string detail or a list of validation entries.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// parseDetail extracts a human-readable detail from an error body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var entries []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(eb.Detail, &entries); err == nil {
		var msgs []string
		for _, e := range entries {
			if e.Msg == "" {
				continue
			}
			if len(e.Loc) > 0 {
				if field, ok := e.Loc[len(e.Loc)-1].(string); ok {
					msgs = append(msgs, field+": "+e.Msg)
					continue
				}
			}
			msgs = append(msgs, e.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return string(eb.Detail)
}
