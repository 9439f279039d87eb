// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build js && wasm

// Package main is the browser client. It mounts onto a page carrying the
// element ids listed in page.go and talks to the backend that served it.
//
//	GOOS=js GOARCH=wasm go build -o web/skybot.wasm ./cmd/skybot-web
//	skybot-fakebackend --web ./web
package main

import (
	"syscall/js"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/skybot"
)

func main() {
	// Logs go to the browser console through stderr.
	if _, err := logging.Init(logging.Options{Level: "info", File: logging.Stderr}); err != nil {
		panic(err)
	}

	origin := js.Global().Get("location").Get("origin").String()
	client := skybot.NewClient(origin)

	a := app.New(client, app.Options{
		Render:        render.Options{BaseURL: client.BaseURL()},
		MaxUploadSize: client.MaxUploadSize(),
	})
	a.Start()

	p, err := mount(js.Global().Get("document"), a)
	if err != nil {
		logging.For("web").Error("cannot start", "error", err)
		return
	}
	p.run()
}
