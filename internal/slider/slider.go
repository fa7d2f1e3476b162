// Package slider implements the before/after comparison divider: pointer
// tracking over a bounded container, clamped percentage math, and drag-scoped
// subscriptions to the global input surface.
//
// A drag acquires exactly one Subscription from the Surface. It is released on
// pointer/touch up anywhere, or on Close when the component is torn down,
// whichever comes first.
package slider

import (
	"fmt"
	"strconv"
	"sync"
)

// InitialPosition is the divider position of a fresh slider.
const InitialPosition = 50.0

// InputKind selects which global events a drag listens to.
type InputKind int

const (
	// Mouse drags follow mousemove / mouseup.
	Mouse InputKind = iota
	// Touch drags follow touchmove / touchend.
	Touch
)

func (k InputKind) String() string {
	switch k {
	case Mouse:
		return "mouse"
	case Touch:
		return "touch"
	}
	return "unknown"
}

// Rect is the container's horizontal extent in client coordinates.
type Rect struct {
	Left  float64
	Width float64
}

// Listener receives global input events for the duration of one drag.
type Listener struct {
	Move    func(clientX float64)
	Release func()
}

// Subscription is a live set of global listeners. Close detaches them and must
// be safe to call more than once.
type Subscription interface {
	Close()
}

// Surface is the global input surface (the browser window). Listen attaches
// move and release listeners for the given input kind.
type Surface interface {
	Listen(kind InputKind, l Listener) Subscription
}

// PositionAt converts a pointer x coordinate into a divider percentage. The
// offset is clamped to [0, width]; a container with no width yields 0.
func PositionAt(clientX float64, r Rect) float64 {
	if r.Width <= 0 {
		return 0
	}
	x := clientX - r.Left
	if x < 0 {
		x = 0
	}
	if x > r.Width {
		x = r.Width
	}
	return x / r.Width * 100
}

// Slider is the divider state of one comparison view.
type Slider struct {
	mu       sync.Mutex
	position float64
	surface  Surface
	bounds   func() Rect
	onChange func(position float64)
	sub      Subscription
	closed   bool
}

// New returns a slider at the initial position. bounds is queried on every
// move so resizes during a drag are honoured. onChange may be nil.
func New(surface Surface, bounds func() Rect, onChange func(position float64)) *Slider {
	return &Slider{
		position: InitialPosition,
		surface:  surface,
		bounds:   bounds,
		onChange: onChange,
	}
}

// Position returns the current divider position in [0, 100].
func (s *Slider) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sub != nil
}

// Press starts a drag from a pointer or touch down inside the container. A
// press during an active drag or after Close is ignored.
func (s *Slider) Press(kind InputKind) {
	s.mu.Lock()
	if s.sub != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Listen is called outside the lock; a fake or real surface may dispatch
	// synchronously.
	sub := s.surface.Listen(kind, Listener{
		Move:    s.move,
		Release: s.release,
	})

	s.mu.Lock()
	if s.sub != nil || s.closed {
		s.mu.Unlock()
		sub.Close()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

func (s *Slider) move(clientX float64) {
	s.mu.Lock()
	if s.sub == nil {
		s.mu.Unlock()
		return
	}
	s.position = PositionAt(clientX, s.bounds())
	pos := s.position
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(pos)
	}
}

func (s *Slider) release() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

// Close tears the slider down, detaching any listeners left by an unfinished
// drag. Further presses are ignored.
func (s *Slider) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.release()
}

// ClipPath returns the CSS clip-path that reveals the "after" image from the
// divider to the right edge.
func ClipPath(position float64) string {
	return fmt.Sprintf("inset(0 0 0 %s%%)", formatPercent(position))
}

// Left returns the CSS left offset of the divider handle.
func Left(position float64) string {
	return formatPercent(position) + "%"
}

// AfterLabelVisible reports whether the "after" label is shown: only once the
// divider has passed the midpoint.
func AfterLabelVisible(position float64) bool {
	return position > 50
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
