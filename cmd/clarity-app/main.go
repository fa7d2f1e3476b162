//go:build js && wasm

// Command clarity-app is the browser side of the Image Clarity Enhancer,
// compiled to WebAssembly. It renders the application state held by
// app.Controller into the page and forwards user input back to it.
// Enhancement requests go to the serving origin's /api/enhance.
package main

import (
	"syscall/js"

	"github.com/fpang/image-clarity/internal/api"
	"github.com/fpang/image-clarity/internal/app"
)

func main() {
	doc := js.Global().Get("document")
	root := doc.Call("getElementById", "app")
	if root.IsNull() {
		root = doc.Get("body")
	}

	origin := js.Global().Get("location").Get("origin").String()
	controller := app.NewController(api.NewClient(origin, nil))

	ui := newUI(doc, root, controller)
	controller.Subscribe(ui.render)
	ui.render(controller.Model())

	// Keep the Go runtime alive for callbacks.
	select {}
}
