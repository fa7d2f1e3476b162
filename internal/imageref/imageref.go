// Package imageref holds the self-describing image value passed between the
// uploader, the controller and the enhancement client: raw bytes plus the
// declared MIME type, rendered as (and parsed from) a Base64 data URL.
package imageref

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Supported MIME types. "image/jpg" is not registered with IANA but browsers
// and some pickers still report it, so it is accepted and normalized.
const (
	MIMEJPEG     = "image/jpeg"
	MIMEJPGAlias = "image/jpg"
	MIMEPNG      = "image/png"
)

var (
	// ErrUnsupportedFormat is returned when the declared format is missing or
	// not one of JPEG/PNG.
	ErrUnsupportedFormat = errors.New("Unsupported image format. Please use JPG or PNG.")

	// ErrMalformedDataURL is returned when a string is not a Base64 data URL.
	ErrMalformedDataURL = errors.New("malformed image data URL")
)

// Image is an encoded image and its declared format. The application never
// looks inside Data beyond format validation.
type Image struct {
	MIMEType string
	Data     []byte
}

// New returns an Image with the given declared type and payload.
func New(mimeType string, data []byte) Image {
	return Image{MIMEType: strings.ToLower(strings.TrimSpace(mimeType)), Data: data}
}

// IsSupportedType reports whether mimeType is one of the accepted image types.
func IsSupportedType(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case MIMEJPEG, MIMEJPGAlias, MIMEPNG:
		return true
	}
	return false
}

// NormalizeType maps the image/jpg alias onto image/jpeg and lowercases the rest.
func NormalizeType(mimeType string) string {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	if t == MIMEJPGAlias {
		return MIMEJPEG
	}
	return t
}

// Validate returns ErrUnsupportedFormat unless the declared type is JPEG or PNG.
func (img Image) Validate() error {
	if !IsSupportedType(img.MIMEType) {
		return fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, img.MIMEType)
	}
	return nil
}

// IsZero reports whether the image carries no payload.
func (img Image) IsZero() bool {
	return len(img.Data) == 0
}

// Base64 returns the standard Base64 encoding of the payload.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL renders the image as data:<mime>;base64,<payload>.
func (img Image) DataURL() string {
	return FormatDataURL(img.MIMEType, img.Base64())
}

// FormatDataURL joins a MIME type and an already Base64-encoded payload.
func FormatDataURL(mimeType, b64 string) string {
	return "data:" + mimeType + ";base64," + b64
}

// ParseDataURL decodes a Base64 data URL. The declared type is returned
// lowercased and without parameters; format validation is the caller's
// decision.
func ParseDataURL(s string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return Image{}, ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrMalformedDataURL
	}
	params, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("%w: payload is not base64", ErrMalformedDataURL)
	}
	// Media-type parameters (e.g. ;name=a.png) are dropped.
	mimeType, _, _ := strings.Cut(params, ";")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}
	return New(mimeType, data), nil
}

// Sniff detects the MIME type from the payload's magic bytes. It is used when a
// producer (a remote model response or a local file) does not declare one.
func Sniff(data []byte) string {
	return mimetype.Detect(data).String()
}
