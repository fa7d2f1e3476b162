//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/fpang/image-clarity/internal/app"
	"github.com/fpang/image-clarity/internal/imageref"
	"github.com/fpang/image-clarity/internal/intake"
	"github.com/fpang/image-clarity/internal/slider"
)

const (
	title    = "Image Clarity Enhancer"
	subtitle = "Upload your image to upscale resolution, remove noise, and sharpen details with the power of AI."

	loadingText = "Enhancing your image... This may take a moment."
)

// ui re-renders the page from a Model snapshot. Every js.Func created for a
// render is released by the next one.
type ui struct {
	doc        js.Value
	root       js.Value
	controller *app.Controller

	funcs      []js.Func
	comparison *slider.Slider
	dropZone   intake.DropZone
}

func newUI(doc, root js.Value, controller *app.Controller) *ui {
	return &ui{doc: doc, root: root, controller: controller}
}

// on attaches a listener whose Go callback lives until the next render.
func (u *ui) on(el js.Value, event string, fn func(evt js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		var evt js.Value
		if len(args) > 0 {
			evt = args[0]
		}
		fn(evt)
		return nil
	})
	u.funcs = append(u.funcs, f)
	el.Call("addEventListener", event, f)
}

func (u *ui) render(m app.Model) {
	for _, f := range u.funcs {
		f.Release()
	}
	u.funcs = nil
	if u.comparison != nil {
		u.comparison.Close()
		u.comparison = nil
	}

	v := m.View()
	clearChildren(u.root)
	u.root.Call("appendChild", u.header())

	content := node(u.doc, "main", "")
	u.root.Call("appendChild", content)

	if v.Uploader {
		content.Call("appendChild", u.uploader())
		return
	}
	if v.Spinner {
		content.Call("appendChild", u.spinner())
	}
	if v.ErrorBanner != "" {
		banner := node(u.doc, "div", "error",
			textNode(u.doc, "strong", "", "Error: "),
			textNode(u.doc, "span", "", v.ErrorBanner))
		banner.Call("setAttribute", "role", "alert")
		content.Call("appendChild", banner)
	}

	if v.Comparison {
		original, _ := m.Original()
		enhanced, _ := m.Enhanced()
		content.Call("appendChild", u.comparisonView(original, enhanced))
	} else if original, ok := m.Original(); ok && v.OriginalPreview {
		img := node(u.doc, "img", "")
		img.Set("src", original.DataURL())
		img.Set("alt", "Original to be enhanced")
		content.Call("appendChild", node(u.doc, "div", "preview", img,
			textNode(u.doc, "p", "", "Original Image")))
	}

	controls := node(u.doc, "div", "controls")
	if v.EnhanceControls {
		controls.Call("appendChild", u.toggle("Preserve Faces", m.PreserveFaces))
		controls.Call("appendChild", u.button("✨ Enhance Image", "primary", u.enhance))
	}
	if v.Download {
		controls.Call("appendChild", u.button("Download Enhanced Image", "primary", u.download))
	}
	if v.StartOver {
		controls.Call("appendChild", u.button("Start Over", "secondary", u.controller.StartOver))
	}
	if !controls.Get("firstChild").IsNull() {
		content.Call("appendChild", controls)
	}
}

func (u *ui) header() js.Value {
	return node(u.doc, "header", "",
		textNode(u.doc, "h1", "", title),
		textNode(u.doc, "p", "", subtitle))
}

func (u *ui) spinner() js.Value {
	spin := node(u.doc, "div", "spinner")
	spin.Call("setAttribute", "role", "status")
	return node(u.doc, "div", "overlay", spin, textNode(u.doc, "p", "", loadingText))
}

func (u *ui) button(label, variant string, onClick func()) js.Value {
	b := textNode(u.doc, "button", variant, label)
	b.Set("type", "button")
	u.on(b, "click", func(js.Value) { onClick() })
	return b
}

func (u *ui) toggle(label string, enabled bool) js.Value {
	input := node(u.doc, "input", "")
	input.Set("type", "checkbox")
	input.Set("checked", enabled)
	u.on(input, "change", func(js.Value) {
		u.controller.SetPreserveFaces(input.Get("checked").Bool())
	})
	track := node(u.doc, "div", "track", node(u.doc, "div", "dot"))
	return node(u.doc, "label", "toggle", textNode(u.doc, "span", "", label), input, track)
}

func (u *ui) uploader() js.Value {
	input := node(u.doc, "input", "")
	input.Set("type", "file")
	input.Set("accept", "image/png, image/jpeg, image/jpg")

	zone := node(u.doc, "label", "uploader", input,
		textNode(u.doc, "p", "title", "Drag & drop your image here"),
		textNode(u.doc, "p", "hint", "or click to browse"),
		textNode(u.doc, "p", "limits", "PNG, JPG, JPEG up to 10MB"))

	u.dropZone = intake.DropZone{}
	highlight := func() { toggleClass(zone, "dragging", u.dropZone.Active()) }
	stop := func(evt js.Value) {
		evt.Call("preventDefault")
		evt.Call("stopPropagation")
	}

	u.on(zone, "dragenter", func(evt js.Value) { stop(evt); u.dropZone.Enter(); highlight() })
	u.on(zone, "dragleave", func(evt js.Value) { stop(evt); u.dropZone.Leave(); highlight() })
	u.on(zone, "dragover", func(evt js.Value) { stop(evt); u.dropZone.Over() })
	u.on(zone, "drop", func(evt js.Value) {
		stop(evt)
		u.dropZone.Drop()
		highlight()
		u.handleFiles(evt.Get("dataTransfer").Get("files"))
	})
	u.on(input, "change", func(evt js.Value) {
		u.handleFiles(input.Get("files"))
	})
	return zone
}

// handleFiles takes the first file of a selection, checks its declared type
// before reading it, and uploads it once its bytes arrive.
func (u *ui) handleFiles(list js.Value) {
	handles := fileList(list)
	described := make([]intake.File, len(handles))
	for i, h := range handles {
		described[i] = intake.File{Name: h.Get("name").String(), Type: h.Get("type").String()}
	}
	file, ok := intake.FirstFile(described)
	if !ok {
		return
	}
	if !imageref.IsSupportedType(file.Type) {
		alert(intake.InvalidFileMessage)
		return
	}

	readFile(handles[0], func(data []byte, err error) {
		if err != nil {
			alert(intake.InvalidFileMessage)
			return
		}
		file.Data = data
		if err := u.controller.Upload(file); err != nil {
			var vErr *intake.ValidationError
			if errors.As(err, &vErr) {
				alert(vErr.Message)
			}
		}
	})
}

// enhance runs the request on its own goroutine; the HTTP round trip must not
// block the JS event loop.
func (u *ui) enhance() {
	go func() {
		if err := u.controller.Enhance(context.Background()); err != nil {
			js.Global().Get("console").Call("error", err.Error())
		}
	}()
}

func (u *ui) download() {
	img, filename, ok := u.controller.Download()
	if !ok {
		return
	}
	triggerDownload(u.doc, img.DataURL(), filename)
}

func (u *ui) comparisonView(before, after imageref.Image) js.Value {
	beforeImg := node(u.doc, "img", "")
	beforeImg.Set("src", before.DataURL())
	beforeImg.Set("alt", "Before")

	afterImg := node(u.doc, "img", "after")
	afterImg.Set("src", after.DataURL())
	afterImg.Set("alt", "After")

	divider := node(u.doc, "div", "divider", node(u.doc, "div", "handle"))
	afterLabel := textNode(u.doc, "div", "label after-label", "AFTER")

	container := node(u.doc, "div", "comparison",
		beforeImg, afterImg, divider,
		textNode(u.doc, "div", "label before", "BEFORE"),
		afterLabel)

	paint := func(p float64) {
		setStyle(afterImg, "clip-path", slider.ClipPath(p))
		setStyle(divider, "left", slider.Left(p))
		toggleClass(afterLabel, "visible", slider.AfterLabelVisible(p))
	}

	bounds := func() slider.Rect {
		r := container.Call("getBoundingClientRect")
		return slider.Rect{Left: r.Get("left").Float(), Width: r.Get("width").Float()}
	}
	s := slider.New(windowSurface{window: js.Global()}, bounds, paint)
	u.comparison = s
	paint(s.Position())

	u.on(container, "mousedown", func(js.Value) { s.Press(slider.Mouse) })
	u.on(container, "touchstart", func(js.Value) { s.Press(slider.Touch) })
	return container
}
