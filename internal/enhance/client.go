// Package enhance sends an image to a remote generative-image model with an
// enhancement instruction and returns the image it generates.
//
// Each call is a single request/response exchange: no retries, batching or
// streaming. The API key is read on every call so a missing key surfaces as a
// request failure rather than a startup crash.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/image-clarity/internal/imageinfo"
	"github.com/fpang/image-clarity/internal/imageref"
	"github.com/fpang/image-clarity/internal/metrics"
)

// Backend performs one image edit against the remote service. It must return
// ErrNoImage when the response carries no inline image part.
type Backend interface {
	Name() string
	EditImage(ctx context.Context, apiKey string, img imageref.Image, instruction string) (*Result, error)
}

// Result is the outcome of a successful edit.
type Result struct {
	Image imageref.Image
	// Text is any commentary the model returned alongside the image.
	Text string
}

// KeyFunc returns the API key, or an error when none is configured.
type KeyFunc func() (string, error)

// Client implements the enhancement operation on top of a Backend.
type Client struct {
	backend      Backend
	apiKey       KeyFunc
	maxDimension int
}

// Option configures a Client.
type Option func(*Client)

// WithMaxDimension downscales inputs whose longer side exceeds n pixels before
// they are sent. 0 disables downscaling.
func WithMaxDimension(n int) Option {
	return func(c *Client) { c.maxDimension = n }
}

// NewClient returns a Client that reads its key from apiKey on every call.
func NewClient(backend Backend, apiKey KeyFunc, opts ...Option) *Client {
	c := &Client{backend: backend, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enhance validates the image, builds the instruction and asks the backend for
// an enhanced version. Errors are one of imageref.ErrUnsupportedFormat,
// ErrMissingCredential, ErrNoImage or a *RemoteError.
func (c *Client) Enhance(ctx context.Context, img imageref.Image, preserveFaces bool) (imageref.Image, error) {
	if err := img.Validate(); err != nil {
		return imageref.Image{}, err
	}
	if img.IsZero() {
		return imageref.Image{}, fmt.Errorf("%w (empty image)", imageref.ErrUnsupportedFormat)
	}

	apiKey, err := c.apiKey()
	if err != nil || apiKey == "" {
		log.Error().Err(err).Msg("No API key available for enhancement")
		return imageref.Image{}, ErrMissingCredential
	}

	input := imageref.New(imageref.NormalizeType(img.MIMEType), img.Data)
	if c.maxDimension > 0 {
		resized, ok, err := imageinfo.Fit(input, c.maxDimension)
		if err != nil {
			log.Warn().Err(err).Msg("Could not downscale input, sending original")
		} else if ok {
			input = resized
		}
	}

	instruction := BuildInstruction(preserveFaces)

	log.Info().
		Str("backend", c.backend.Name()).
		Str("mime", input.MIMEType).
		Int("image_bytes", len(input.Data)).
		Bool("preserve_faces", preserveFaces).
		Msg("Starting image enhancement")

	start := time.Now()
	result, err := c.backend.EditImage(ctx, apiKey, input, instruction)
	elapsed := time.Since(start)

	m := metrics.New(metrics.Namespace).
		Dimension("Backend", c.backend.Name()).
		Metric("EnhanceLatencyMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("EnhanceInputBytes", float64(len(input.Data)), metrics.UnitBytes).
		Count("EnhanceCalls")
	if err != nil {
		m.Count("EnhanceErrors")
		if errors.Is(err, ErrNoImage) {
			m.Count("EnhanceNoImage")
		}
		m.Flush()
		log.Error().Err(err).Dur("duration", elapsed).Msg("Image enhancement failed")
		return imageref.Image{}, err
	}
	m.Metric("EnhanceOutputBytes", float64(len(result.Image.Data)), metrics.UnitBytes).Flush()

	log.Info().
		Str("output_mime", result.Image.MIMEType).
		Int("output_bytes", len(result.Image.Data)).
		Str("model_text", truncateString(result.Text, 200)).
		Dur("duration", elapsed).
		Msg("Image enhancement complete")

	return result.Image, nil
}

// truncateString truncates a string to maxLen, appending "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
