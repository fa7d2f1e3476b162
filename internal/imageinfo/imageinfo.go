// Package imageinfo inspects uploaded images (dimensions and EXIF camera data)
// and downscales oversized inputs before they are sent to the model.
package imageinfo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/fpang/image-clarity/internal/imageref"
)

// jpegQuality is used when a downscaled JPEG is re-encoded.
const jpegQuality = 95

// Info describes an image. EXIF fields are best effort: PNGs and stripped
// JPEGs simply report HasEXIF = false.
type Info struct {
	MIMEType string
	Width    int
	Height   int
	Bytes    int

	HasEXIF     bool
	CameraMake  string
	CameraModel string
	DateTaken   time.Time
}

// Inspect reads the image header for dimensions and, when present, EXIF data.
func Inspect(img imageref.Image) (*Info, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	info := &Info{
		MIMEType: imageref.NormalizeType(img.MIMEType),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Bytes:    len(img.Data),
	}

	exifData, err := imagemeta.Decode(bytes.NewReader(img.Data))
	if err != nil {
		log.Debug().Err(err).Str("mime", info.MIMEType).Msg("No EXIF metadata in image")
		return info, nil
	}

	info.HasEXIF = true
	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)
	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		info.DateTaken = exifData.DateTimeOriginal()
	case !exifData.CreateDate().IsZero():
		info.DateTaken = exifData.CreateDate()
	case !exifData.ModifyDate().IsZero():
		info.DateTaken = exifData.ModifyDate()
	}

	return info, nil
}

// Camera returns "Make Model", or "" when unknown.
func (i *Info) Camera() string {
	return strings.TrimSpace(i.CameraMake + " " + i.CameraModel)
}

// FitDimensions scales (w, h) down so the longer side is at most maxDimension,
// keeping the aspect ratio. Sizes already within bounds are returned unchanged.
func FitDimensions(w, h, maxDimension int) (int, int) {
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return w, h
	}
	if w >= h {
		nh := h * maxDimension / w
		if nh < 1 {
			nh = 1
		}
		return maxDimension, nh
	}
	nw := w * maxDimension / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDimension
}

// Fit downscales img so neither side exceeds maxDimension, re-encoding in the
// original format. resized is false when the image was returned untouched; a
// maxDimension of 0 disables resizing.
func Fit(img imageref.Image, maxDimension int) (out imageref.Image, resized bool, err error) {
	if maxDimension <= 0 {
		return img, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return img, false, fmt.Errorf("failed to decode image header: %w", err)
	}
	newWidth, newHeight := FitDimensions(cfg.Width, cfg.Height, maxDimension)
	if newWidth == cfg.Width && newHeight == cfg.Height {
		return img, false, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return img, false, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	mimeType := imageref.NormalizeType(img.MIMEType)
	var buf bytes.Buffer
	switch mimeType {
	case imageref.MIMEJPEG:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case imageref.MIMEPNG:
		err = png.Encode(&buf, dst)
	default:
		return img, false, fmt.Errorf("%w (got %q)", imageref.ErrUnsupportedFormat, img.MIMEType)
	}
	if err != nil {
		return img, false, fmt.Errorf("failed to encode resized image: %w", err)
	}

	log.Debug().
		Int("orig_width", cfg.Width).
		Int("orig_height", cfg.Height).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("output_size", buf.Len()).
		Msg("Input image downscaled")

	return imageref.New(mimeType, buf.Bytes()), true, nil
}
