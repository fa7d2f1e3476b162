package app

import "github.com/fpang/image-clarity/internal/imageref"

// Phase names a controller state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhaseLoading
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhaseLoading:
		return "loading"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is one of Idle, Ready, Loading, Done or Failed. Each carries only the
// fields that are meaningful in that state.
type State interface {
	Phase() Phase
}

// Idle has no original image.
type Idle struct{}

// Ready has an original image and no result.
type Ready struct {
	Original imageref.Image
}

// Loading has an enhancement in flight for Original.
type Loading struct {
	Original imageref.Image
}

// Done holds the original and its enhanced version.
type Done struct {
	Original imageref.Image
	Enhanced imageref.Image
}

// Failed keeps the original after an enhancement error.
type Failed struct {
	Original imageref.Image
	Message  string
}

func (Idle) Phase() Phase    { return PhaseIdle }
func (Ready) Phase() Phase   { return PhaseReady }
func (Loading) Phase() Phase { return PhaseLoading }
func (Done) Phase() Phase    { return PhaseDone }
func (Failed) Phase() Phase  { return PhaseFailed }

// Model is the full application state handed to the view layer.
type Model struct {
	State         State
	PreserveFaces bool
}

// Original returns the original image, if the state has one.
func (m Model) Original() (imageref.Image, bool) {
	switch s := m.State.(type) {
	case Ready:
		return s.Original, true
	case Loading:
		return s.Original, true
	case Done:
		return s.Original, true
	case Failed:
		return s.Original, true
	}
	return imageref.Image{}, false
}

// Enhanced returns the enhanced image; only Done has one.
func (m Model) Enhanced() (imageref.Image, bool) {
	if s, ok := m.State.(Done); ok {
		return s.Enhanced, true
	}
	return imageref.Image{}, false
}

// Loading reports whether an enhancement is in flight.
func (m Model) Loading() bool {
	return m.State.Phase() == PhaseLoading
}

// Error returns the message of the last failed attempt, or "".
func (m Model) Error() string {
	if s, ok := m.State.(Failed); ok {
		return s.Message
	}
	return ""
}

// View lists which parts of the page are visible for a model.
type View struct {
	Uploader        bool
	Spinner         bool
	ErrorBanner     string
	OriginalPreview bool
	Comparison      bool
	EnhanceControls bool // preserve-faces toggle and enhance button
	Download        bool
	StartOver       bool
}

// View derives the visible components from the current state. The enhance
// action is never exposed while loading.
func (m Model) View() View {
	switch s := m.State.(type) {
	case Ready:
		return View{OriginalPreview: true, EnhanceControls: true}
	case Loading:
		return View{OriginalPreview: true, Spinner: true}
	case Done:
		return View{Comparison: true, Download: true, StartOver: true}
	case Failed:
		return View{OriginalPreview: true, ErrorBanner: s.Message, EnhanceControls: true, StartOver: true}
	}
	return View{Uploader: true}
}
