// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"syscall/js"

	"github.com/jeranaias/skybot-tui/internal/app"
	"github.com/jeranaias/skybot-tui/internal/channels"
	"github.com/jeranaias/skybot-tui/internal/logging"
	"github.com/jeranaias/skybot-tui/internal/model"
	"github.com/jeranaias/skybot-tui/internal/render"
	"github.com/jeranaias/skybot-tui/internal/upload"
)

// Element ids the page must provide.
const (
	idDropZone      = "drop-zone"
	idFileInput     = "file-input"
	idUploadStatus  = "upload-status"
	idChatHistory   = "chat-history"
	idUserInput     = "user-input"
	idSendBtn       = "send-btn"
	idChannelSelect = "channel-select"
	idChatChannel   = "chat-channel-select"
	idNewChannel    = "new-channel-input"
	idAddChannel    = "add-channel-btn"
)

// page binds the controller to the DOM. Every DOM update runs on the
// goroutine that received the event or the upload notification; syscall/js
// serializes them on the browser's single thread.
type page struct {
	app  *app.App
	html *render.HTMLRenderer
	doc  js.Value
	el   map[string]js.Value

	// funcs keeps callbacks alive for the life of the page.
	funcs  []js.Func
	logger *slog.Logger
}

func mount(doc js.Value, a *app.App) (*page, error) {
	p := &page{
		app:    a,
		html:   render.NewHTMLRenderer(),
		doc:    doc,
		el:     make(map[string]js.Value),
		logger: logging.For("web"),
	}
	for _, id := range []string{
		idDropZone, idFileInput, idUploadStatus, idChatHistory, idUserInput,
		idSendBtn, idChannelSelect, idChatChannel, idNewChannel, idAddChannel,
	} {
		v := doc.Call("getElementById", id)
		if v.IsNull() || v.IsUndefined() {
			return nil, fmt.Errorf("missing element #%s", id)
		}
		p.el[id] = v
	}
	return p, nil
}

// run wires the events and blocks forever.
func (p *page) run() {
	p.on(idDropZone, "click", func(js.Value) { p.el[idFileInput].Call("click") })
	p.on(idDropZone, "dragover", func(e js.Value) {
		e.Call("preventDefault")
		p.el[idDropZone].Get("classList").Call("add", "dragover")
	})
	p.on(idDropZone, "dragleave", func(js.Value) {
		p.el[idDropZone].Get("classList").Call("remove", "dragover")
	})
	p.on(idDropZone, "drop", func(e js.Value) {
		e.Call("preventDefault")
		p.el[idDropZone].Get("classList").Call("remove", "dragover")
		if files := e.Get("dataTransfer").Get("files"); files.Length() > 0 {
			go p.upload(files.Index(0))
		}
	})
	p.on(idFileInput, "change", func(js.Value) {
		input := p.el[idFileInput]
		if files := input.Get("files"); files.Length() > 0 {
			go p.upload(files.Index(0))
		}
		input.Set("value", "")
	})

	p.on(idUserInput, "input", func(js.Value) { p.syncInput() })
	p.on(idUserInput, "keydown", func(e js.Value) {
		if e.Get("key").String() == "Enter" && !e.Get("shiftKey").Bool() {
			e.Call("preventDefault")
			if !p.el[idSendBtn].Get("disabled").Bool() {
				p.send()
			}
		}
	})
	p.on(idSendBtn, "click", func(js.Value) { p.send() })

	p.on(idChannelSelect, "change", func(js.Value) {
		if err := p.app.Channels().SelectTarget(p.el[idChannelSelect].Get("value").String()); err != nil {
			p.logger.Warn("select target", "error", err)
		}
	})
	p.on(idChatChannel, "change", func(js.Value) {
		if err := p.app.Channels().SelectFilter(p.el[idChatChannel].Get("value").String()); err != nil {
			p.logger.Warn("select filter", "error", err)
		}
	})
	p.on(idAddChannel, "click", func(js.Value) { p.addChannel() })
	p.on(idNewChannel, "keydown", func(e js.Value) {
		if e.Get("key").String() == "Enter" {
			e.Call("preventDefault")
			p.addChannel()
		}
	})

	p.syncInput()
	p.renderChannels()
	go p.refreshChannels()
	go p.watchUploads()

	select {}
}

// on registers handler for event on element id. Handlers run inside the
// browser callback and must not block; anything that waits on the network
// or a promise starts its own goroutine.
func (p *page) on(id, event string, handler func(e js.Value)) {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		e := js.Undefined()
		if len(args) > 0 {
			e = args[0]
		}
		handler(e)
		return nil
	})
	p.funcs = append(p.funcs, fn)
	p.el[id].Call("addEventListener", event, fn)
}

// =============================================================================
// CHAT
// =============================================================================

func (p *page) syncInput() {
	empty := strings.TrimSpace(p.el[idUserInput].Get("value").String()) == ""
	p.el[idSendBtn].Set("disabled", empty || p.app.Busy())

	input := p.el[idUserInput]
	input.Get("style").Set("height", "auto")
	input.Get("style").Set("height", fmt.Sprintf("%dpx", input.Get("scrollHeight").Int()))
}

func (p *page) send() {
	text := p.el[idUserInput].Get("value").String()
	pending, err := p.app.BeginSend(text)
	if err != nil {
		return
	}
	p.el[idUserInput].Set("value", "")
	p.syncInput()
	p.renderConversation()

	go func() {
		reply := p.app.Fetch(context.Background(), pending)
		p.app.FinishSend(pending, reply)
		p.renderConversation()
		p.syncInput()
	}()
}

// =============================================================================
// UPLOADS
// =============================================================================

// upload reads a browser File and queues it for the selected channel.
func (p *page) upload(file js.Value) {
	name := file.Get("name").String()
	size := int64(file.Get("size").Float())
	if err := upload.Validate(name, size, p.app.MaxUploadSize()); err != nil {
		p.setStatus(upload.StatusFailed(err))
		return
	}

	data, err := readFile(file)
	if err != nil {
		p.setStatus(upload.StatusFailed(err))
		return
	}
	if _, err := p.app.UploadBytes(name, data, ""); err != nil {
		p.logger.Warn("upload rejected", "file", name, "error", err)
	}
	p.renderStatus()
}

// watchUploads applies finished uploads for the life of the page.
func (p *page) watchUploads() {
	for n := range p.app.Notifications() {
		if msg := p.app.FinishUpload(n); msg != nil {
			p.renderConversation()
			p.refreshChannels()
		}
		p.renderStatus()
	}
}

// readFile resolves File.arrayBuffer() into bytes.
func readFile(file js.Value) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)

	var then, catch js.Func
	then = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer then.Release()
		defer catch.Release()
		buf := js.Global().Get("Uint8Array").New(args[0])
		data := make([]byte, buf.Get("length").Int())
		js.CopyBytesToGo(data, buf)
		ch <- result{data: data}
		return nil
	})
	catch = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer then.Release()
		defer catch.Release()
		ch <- result{err: fmt.Errorf("cannot read file: %s", args[0].Call("toString").String())}
		return nil
	})
	file.Call("arrayBuffer").Call("then", then).Call("catch", catch)

	r := <-ch
	return r.data, r.err
}

func (p *page) renderStatus() {
	p.setStatus(p.app.Status())
}

func (p *page) setStatus(s upload.Status) {
	el := p.el[idUploadStatus]
	el.Set("textContent", s.Text)
	if s.Kind == upload.StatusNone {
		el.Set("className", "upload-status")
		return
	}
	el.Set("className", "upload-status status-"+string(s.Kind))
}

// =============================================================================
// CHANNELS
// =============================================================================

func (p *page) refreshChannels() {
	p.app.RefreshChannels(context.Background())
	p.renderChannels()
}

func (p *page) addChannel() {
	input := p.el[idNewChannel]
	if _, err := p.app.AddChannel(input.Get("value").String()); err != nil {
		p.setStatus(upload.StatusFailed(err))
		return
	}
	input.Set("value", "")
	p.renderChannels()
}

func (p *page) renderChannels() {
	reg := p.app.Channels()
	fillSelect(p.doc, p.el[idChannelSelect], reg.Targets(), reg.Target())
	fillSelect(p.doc, p.el[idChatChannel], reg.Filters(), reg.Filter())
}

func fillSelect(doc, sel js.Value, entries []channels.Entry, selected string) {
	sel.Set("innerHTML", "")
	for _, e := range entries {
		opt := doc.Call("createElement", "option")
		opt.Set("value", e.Name)
		label := e.Label
		if e.Pending {
			label += " (new)"
		}
		opt.Set("textContent", label)
		if e.Name == selected {
			opt.Set("selected", true)
		}
		sel.Call("appendChild", opt)
	}
}

// =============================================================================
// CONVERSATION
// =============================================================================

func (p *page) renderConversation() {
	history := p.el[idChatHistory]
	history.Set("innerHTML", "")
	for _, msg := range p.app.Conversation().Messages() {
		history.Call("appendChild", p.messageElement(msg))
	}
	history.Set("scrollTop", history.Get("scrollHeight"))
}

func (p *page) messageElement(msg *model.Message) js.Value {
	div := p.doc.Call("createElement", "div")
	class := "message " + string(msg.Type)
	if msg.IsError {
		class += " error"
	}
	div.Set("className", class)
	div.Set("id", "msg-"+msg.ID)

	avatar := p.doc.Call("createElement", "div")
	avatar.Set("className", "avatar")
	if msg.IsUser() {
		avatar.Set("textContent", "U")
	} else {
		avatar.Set("textContent", "S")
	}

	content := p.doc.Call("createElement", "div")
	content.Set("className", "content")
	content.Set("innerHTML", p.contentHTML(msg))

	div.Call("appendChild", avatar)
	div.Call("appendChild", content)
	return div
}

func (p *page) contentHTML(msg *model.Message) string {
	if msg.IsLoading {
		return `<span class="loading-dots">` + html.EscapeString(msg.Content) + `</span>`
	}
	if msg.IsUser() {
		return "<p>" + html.EscapeString(msg.Content) + "</p>"
	}
	out, err := p.html.Render(msg.Content)
	if err != nil {
		return "<p>" + html.EscapeString(msg.Content) + "</p>"
	}
	return out
}
