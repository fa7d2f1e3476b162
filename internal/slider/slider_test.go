package slider

import (
	"math"
	"testing"
)

// fakeSurface stands in for the browser window: it keeps the attached
// listeners and dispatches events to them.
type fakeSurface struct {
	next      int
	listeners map[int]Listener
	kinds     map[int]InputKind
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		listeners: make(map[int]Listener),
		kinds:     make(map[int]InputKind),
	}
}

type fakeSub struct {
	s  *fakeSurface
	id int
}

func (f *fakeSub) Close() {
	delete(f.s.listeners, f.id)
	delete(f.s.kinds, f.id)
}

func (s *fakeSurface) Listen(kind InputKind, l Listener) Subscription {
	s.next++
	s.listeners[s.next] = l
	s.kinds[s.next] = kind
	return &fakeSub{s: s, id: s.next}
}

func (s *fakeSurface) move(x float64) {
	for _, l := range s.listeners {
		l.Move(x)
	}
}

func (s *fakeSurface) release() {
	for _, l := range s.listeners {
		l.Release()
	}
}

func (s *fakeSurface) active() int { return len(s.listeners) }

var container = Rect{Left: 100, Width: 400}

func newTestSlider() (*Slider, *fakeSurface) {
	surface := newFakeSurface()
	return New(surface, func() Rect { return container }, nil), surface
}

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name    string
		clientX float64
		rect    Rect
		want    float64
	}{
		{"left edge", 100, container, 0},
		{"middle", 300, container, 50},
		{"right edge", 500, container, 100},
		{"quarter", 200, container, 25},
		{"far left", -500, container, 0},
		{"far right", 500 + 500, container, 100},
		{"zero width", 300, Rect{Left: 100, Width: 0}, 0},
		{"negative width", 300, Rect{Left: 100, Width: -10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionAt(tt.clientX, tt.rect)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PositionAt(%v, %+v) = %v, want %v", tt.clientX, tt.rect, got, tt.want)
			}
		})
	}
}

func TestSlider_InitialPosition(t *testing.T) {
	s, _ := newTestSlider()
	if s.Position() != 50 {
		t.Errorf("Position() = %v, want 50", s.Position())
	}
	if s.Dragging() {
		t.Error("new slider should not be dragging")
	}
}

func TestSlider_MoveWithoutPressIsIgnored(t *testing.T) {
	s, surface := newTestSlider()
	surface.move(150)
	if s.Position() != 50 {
		t.Errorf("Position() = %v, want 50 without a drag", s.Position())
	}
}

func TestSlider_DragClampsOutsideContainer(t *testing.T) {
	s, surface := newTestSlider()

	s.Press(Mouse)
	if !s.Dragging() {
		t.Fatal("expected dragging after press")
	}

	surface.move(container.Left - 500)
	if s.Position() != 0 {
		t.Errorf("Position() = %v, want 0 for pointer far left", s.Position())
	}

	surface.move(container.Left + container.Width + 500)
	if s.Position() != 100 {
		t.Errorf("Position() = %v, want 100 for pointer far right", s.Position())
	}

	surface.move(container.Left + 100)
	if s.Position() != 25 {
		t.Errorf("Position() = %v, want 25", s.Position())
	}
}

func TestSlider_ReleaseOutsideEndsDrag(t *testing.T) {
	s, surface := newTestSlider()

	s.Press(Touch)
	surface.move(container.Left + 300)
	if s.Position() != 75 {
		t.Fatalf("Position() = %v, want 75", s.Position())
	}

	// Release happens on the window, outside the container.
	surface.release()
	if s.Dragging() {
		t.Fatal("drag should end on release")
	}
	if surface.active() != 0 {
		t.Fatalf("%d listeners still attached after release", surface.active())
	}

	surface.move(container.Left + 10)
	if s.Position() != 75 {
		t.Errorf("Position() = %v after release, want unchanged 75", s.Position())
	}
}

func TestSlider_PressTwiceSubscribesOnce(t *testing.T) {
	s, surface := newTestSlider()
	s.Press(Mouse)
	s.Press(Mouse)
	if surface.active() != 1 {
		t.Errorf("active listeners = %d, want 1", surface.active())
	}
	if surface.kinds[surface.next] != Mouse {
		t.Errorf("listener kind = %v, want mouse", surface.kinds[surface.next])
	}
}

func TestSlider_CloseDetachesUnfinishedDrag(t *testing.T) {
	s, surface := newTestSlider()
	s.Press(Mouse)
	surface.move(container.Left + 40)

	s.Close()
	if surface.active() != 0 {
		t.Fatalf("%d listeners leaked after Close", surface.active())
	}

	s.Press(Mouse)
	if surface.active() != 0 {
		t.Error("press after Close must not subscribe")
	}

	// Closing twice is fine.
	s.Close()
}

func TestSlider_OnChange(t *testing.T) {
	surface := newFakeSurface()
	var got []float64
	s := New(surface, func() Rect { return container }, func(p float64) { got = append(got, p) })

	s.Press(Mouse)
	surface.move(container.Left + 200)
	surface.move(container.Left + 400)
	surface.release()

	if len(got) != 2 || got[0] != 50 || got[1] != 100 {
		t.Errorf("onChange calls = %v, want [50 100]", got)
	}
}

func TestRenderingHelpers(t *testing.T) {
	if got := ClipPath(50); got != "inset(0 0 0 50%)" {
		t.Errorf("ClipPath(50) = %q", got)
	}
	if got := ClipPath(12.5); got != "inset(0 0 0 12.5%)" {
		t.Errorf("ClipPath(12.5) = %q", got)
	}
	if got := Left(0); got != "0%" {
		t.Errorf("Left(0) = %q", got)
	}
	if AfterLabelVisible(50) {
		t.Error("after label should be hidden at the midpoint")
	}
	if !AfterLabelVisible(50.1) {
		t.Error("after label should be visible past the midpoint")
	}
}
