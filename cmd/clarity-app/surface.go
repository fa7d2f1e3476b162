//go:build js && wasm

package main

import (
	"sync"
	"syscall/js"

	"github.com/fpang/image-clarity/internal/slider"
)

// windowSurface delivers global pointer events from window to a slider drag.
type windowSurface struct {
	window js.Value
}

func (s windowSurface) Listen(kind slider.InputKind, l slider.Listener) slider.Subscription {
	moveEvent, releaseEvent := "mousemove", "mouseup"
	if kind == slider.Touch {
		moveEvent, releaseEvent = "touchmove", "touchend"
	}

	sub := &windowSubscription{window: s.window}
	sub.move = js.FuncOf(func(this js.Value, args []js.Value) any {
		if x, ok := clientX(kind, args[0]); ok {
			l.Move(x)
		}
		return nil
	})
	sub.release = js.FuncOf(func(this js.Value, args []js.Value) any {
		l.Release()
		return nil
	})
	sub.events = [2]string{moveEvent, releaseEvent}

	s.window.Call("addEventListener", moveEvent, sub.move)
	s.window.Call("addEventListener", releaseEvent, sub.release)
	return sub
}

func clientX(kind slider.InputKind, evt js.Value) (float64, bool) {
	if kind == slider.Touch {
		touches := evt.Get("touches")
		if touches.IsUndefined() || touches.Get("length").Int() == 0 {
			return 0, false
		}
		return touches.Index(0).Get("clientX").Float(), true
	}
	return evt.Get("clientX").Float(), true
}

type windowSubscription struct {
	window  js.Value
	events  [2]string
	move    js.Func
	release js.Func
	once    sync.Once
}

// Close removes both listeners and frees the Go callbacks. It may run from
// inside the release callback itself.
func (s *windowSubscription) Close() {
	s.once.Do(func() {
		s.window.Call("removeEventListener", s.events[0], s.move)
		s.window.Call("removeEventListener", s.events[1], s.release)
		s.move.Release()
		s.release.Release()
	})
}
