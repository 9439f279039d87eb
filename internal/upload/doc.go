// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload validates documents and sends them to the backend one at a
// time.
//
// # Key Types
//
//   - Job: one upload with its state (Idle, Validating, Uploading, Success, Error)
//   - Queue: single-worker FIFO that runs jobs against an Ingester
//   - Status: the upload status line shown by front ends
//   - ValidationError: a file rejected locally because of its extension
//
// # Usage
//
//	q := upload.NewQueue(client, 20)
//	q.Start()
//	defer q.Stop()
//
//	job, err := upload.NewFileJob("manual.pdf", "process")
//	if err != nil {
//	    return err
//	}
//	q.Submit(job)
//	<-job.Done()
//	fmt.Println(upload.StatusFor(job).Text)
package upload
