// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

// StatusKind selects how the status line is styled.
type StatusKind string

const (
	StatusNone    StatusKind = ""
	StatusLoading StatusKind = "loading"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the text of the upload status line.
type Status struct {
	Kind StatusKind
	Text string
}

// CompleteText is shown after a successful ingest.
const CompleteText = "Ingestion complete! Ready to chat."

// StatusUploading is shown while name is uploading.
func StatusUploading(name string) Status {
	return Status{Kind: StatusLoading, Text: "Uploading " + name + "..."}
}

// StatusComplete is shown after a successful ingest.
func StatusComplete() Status {
	return Status{Kind: StatusSuccess, Text: CompleteText}
}

// StatusFailed is shown when an upload fails.
func StatusFailed(err error) Status {
	return Status{Kind: StatusError, Text: "Error: " + err.Error()}
}

// StatusFor returns the status line for a job in its current state.
func StatusFor(j *Job) Status {
	switch j.State() {
	case StateValidating, StateUploading:
		return StatusUploading(j.Name)
	case StateSuccess:
		return StatusComplete()
	case StateError:
		return StatusFailed(j.Err())
	default:
		return Status{}
	}
}

// SystemMessage is appended to the chat after file was ingested into channel.
func SystemMessage(file, channel string) string {
	return "I've finished reading **" + file + "** into the **" + channel + "** channel. You can now ask questions about it."
}
