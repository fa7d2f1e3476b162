//go:build js && wasm

package main

import "syscall/js"

// node builds a DOM element with an optional class and children.
func node(doc js.Value, tag, class string, children ...js.Value) js.Value {
	el := doc.Call("createElement", tag)
	if class != "" {
		el.Set("className", class)
	}
	for _, c := range children {
		el.Call("appendChild", c)
	}
	return el
}

// textNode builds an element holding plain text.
func textNode(doc js.Value, tag, class, text string) js.Value {
	el := node(doc, tag, class)
	el.Set("textContent", text)
	return el
}

func setStyle(el js.Value, prop, value string) {
	el.Get("style").Call("setProperty", prop, value)
}

func toggleClass(el js.Value, class string, on bool) {
	el.Get("classList").Call("toggle", class, on)
}

func clearChildren(el js.Value) {
	for {
		child := el.Get("firstChild")
		if child.IsNull() {
			return
		}
		el.Call("removeChild", child)
	}
}

func alert(msg string) {
	js.Global().Call("alert", msg)
}

// fileList converts a JS FileList into a slice.
func fileList(list js.Value) []js.Value {
	if list.IsUndefined() || list.IsNull() {
		return nil
	}
	n := list.Get("length").Int()
	files := make([]js.Value, n)
	for i := 0; i < n; i++ {
		files[i] = list.Call("item", i)
	}
	return files
}

// readFile loads a File's bytes and hands them to done. It never blocks: the
// bytes arrive from a promise callback.
func readFile(file js.Value, done func(data []byte, err error)) {
	var then, catch js.Func
	release := func() {
		then.Release()
		catch.Release()
	}
	then = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		u8 := js.Global().Get("Uint8Array").New(args[0])
		data := make([]byte, u8.Get("length").Int())
		js.CopyBytesToGo(data, u8)
		done(data, nil)
		return nil
	})
	catch = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		done(nil, js.Error{Value: args[0]})
		return nil
	})
	file.Call("arrayBuffer").Call("then", then).Call("catch", catch)
}

// triggerDownload saves href under filename via a temporary anchor.
func triggerDownload(doc js.Value, href, filename string) {
	link := doc.Call("createElement", "a")
	link.Set("href", href)
	link.Set("download", filename)
	body := doc.Get("body")
	body.Call("appendChild", link)
	link.Call("click")
	body.Call("removeChild", link)
}
