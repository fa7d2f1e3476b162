// Package app is the application controller: it owns the Model, sequences
// intake, enhancement and start-over, and notifies the view after every
// transition.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fpang/image-clarity/internal/imageref"
	"github.com/fpang/image-clarity/internal/intake"
)

// DownloadFilename is the name offered for the enhanced image.
const DownloadFilename = "enhanced-image.png"

// UnknownErrorMessage is shown when an enhancement error carries no text.
const UnknownErrorMessage = "An unknown error occurred."

var (
	// ErrBusy is returned when an enhancement is already in flight.
	ErrBusy = errors.New("an enhancement is already in progress")
	// ErrNoImage is returned by Enhance when no original image is loaded.
	ErrNoImage = errors.New("no image to enhance")
	// ErrNotReady is returned by Enhance when the current result must be
	// cleared with StartOver first.
	ErrNotReady = errors.New("image already enhanced; start over to enhance another")
)

// Enhancer turns an original image into an enhanced one.
type Enhancer interface {
	Enhance(ctx context.Context, img imageref.Image, preserveFaces bool) (imageref.Image, error)
}

// Controller holds the application state. It is safe for concurrent use; the
// enhancement call runs without holding the lock. Observers are called one
// transition at a time and must not trigger a transition synchronously.
type Controller struct {
	mu        sync.Mutex
	model     Model
	enhancer  Enhancer
	attempt   uint64 // bumped whenever an in-flight result becomes stale
	observers []func(Model)

	notifyMu sync.Mutex // serialises observer calls
}

// NewController returns a controller in Idle with face preservation enabled.
func NewController(enhancer Enhancer) *Controller {
	return &Controller{
		model:    Model{State: Idle{}, PreserveFaces: true},
		enhancer: enhancer,
	}
}

// Model returns a snapshot of the current state.
func (c *Controller) Model() Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Subscribe registers fn to be called with a snapshot after each transition.
func (c *Controller) Subscribe(fn func(Model)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// notify hands observers the model as it is now, not as it was when the
// transition happened, so the last snapshot delivered is always the current
// state even when transitions race.
func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	m := c.model
	observers := append([]func(Model){}, c.observers...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(m)
	}
}

// Upload validates a file from the uploader and makes it the new original,
// clearing any result or error. A rejected file leaves the state untouched.
func (c *Controller) Upload(f intake.File) error {
	img, err := intake.Accept(f)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.model.Loading() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.attempt++
	c.model = Model{State: Ready{Original: img}, PreserveFaces: c.model.PreserveFaces}
	c.mu.Unlock()

	c.notify()
	return nil
}

// SetPreserveFaces updates the face-preservation preference.
func (c *Controller) SetPreserveFaces(enabled bool) {
	c.mu.Lock()
	c.model.PreserveFaces = enabled
	c.mu.Unlock()

	c.notify()
}

// Enhance sends the original image to the enhancer and blocks until it answers.
// Calling it while another enhancement is in flight returns ErrBusy without
// issuing a request. The returned error is the enhancement failure, if any;
// it is also recorded in the Failed state.
func (c *Controller) Enhance(ctx context.Context) error {
	c.mu.Lock()
	var original imageref.Image
	switch s := c.model.State.(type) {
	case Ready:
		original = s.Original
	case Failed:
		original = s.Original
	case Loading:
		c.mu.Unlock()
		return ErrBusy
	case Done:
		c.mu.Unlock()
		return ErrNotReady
	default:
		c.mu.Unlock()
		return ErrNoImage
	}
	c.attempt++
	attempt := c.attempt
	preserveFaces := c.model.PreserveFaces
	c.model = Model{State: Loading{Original: original}, PreserveFaces: preserveFaces}
	c.mu.Unlock()
	c.notify()

	enhanced, err := c.enhancer.Enhance(ctx, original, preserveFaces)

	c.mu.Lock()
	if c.attempt != attempt {
		// Superseded by StartOver or a new upload.
		c.mu.Unlock()
		return err
	}
	var next State
	if err != nil {
		next = Failed{Original: original, Message: errorMessage(err)}
	} else {
		next = Done{Original: original, Enhanced: enhanced}
	}
	c.model = Model{State: next, PreserveFaces: c.model.PreserveFaces}
	c.mu.Unlock()
	c.notify()

	return err
}

// StartOver returns to Idle, discarding the images and any error. The
// preference is kept.
func (c *Controller) StartOver() {
	c.mu.Lock()
	c.attempt++
	c.model = Model{State: Idle{}, PreserveFaces: c.model.PreserveFaces}
	c.mu.Unlock()

	c.notify()
}

// Download returns the enhanced image and the file name to save it under.
// ok is false unless the state is Done.
func (c *Controller) Download() (img imageref.Image, filename string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	enhanced, ok := c.model.Enhanced()
	if !ok {
		return imageref.Image{}, "", false
	}
	return enhanced, DownloadFilename, true
}

func errorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return UnknownErrorMessage
}
