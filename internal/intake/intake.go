// Package intake validates files handed over by the uploader (drag-and-drop or
// the file picker) and tracks the drop zone's drag-over affordance.
package intake

import (
	"fmt"

	"github.com/fpang/image-clarity/internal/imageref"
)

// MaxFileBytes is the largest upload accepted (10 MB).
const MaxFileBytes = 10 * 1024 * 1024

// InvalidFileMessage is shown to the user when a file is rejected.
const InvalidFileMessage = "Please upload a valid image file (JPG, PNG)."

// TooLargeMessage is shown when a file exceeds MaxFileBytes.
const TooLargeMessage = "Image is too large. Please upload a file up to 10MB."

// File is a file as delivered by the browser or the local filesystem.
type File struct {
	Name string
	Type string // declared MIME type
	Data []byte
}

// ValidationError is a rejected file. Message is user-facing.
type ValidationError struct {
	Message string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Message + " (" + e.Reason + ")"
	}
	return e.Message
}

// Accept checks the declared type against the JPEG/PNG allow-list and the size
// limit, and returns the image ready to be rendered as a data URL.
func Accept(f File) (imageref.Image, error) {
	if !imageref.IsSupportedType(f.Type) {
		return imageref.Image{}, &ValidationError{
			Message: InvalidFileMessage,
			Reason:  fmt.Sprintf("unsupported type %q", f.Type),
		}
	}
	if len(f.Data) == 0 {
		return imageref.Image{}, &ValidationError{Message: InvalidFileMessage, Reason: "empty file"}
	}
	if len(f.Data) > MaxFileBytes {
		return imageref.Image{}, &ValidationError{
			Message: TooLargeMessage,
			Reason:  fmt.Sprintf("%d bytes", len(f.Data)),
		}
	}
	return imageref.New(f.Type, f.Data), nil
}

// FirstFile picks the file to process from a drop or picker selection. Only
// the first file is used; ok is false for an empty selection.
func FirstFile(files []File) (File, bool) {
	if len(files) == 0 {
		return File{}, false
	}
	return files[0], true
}

// DropZone is the drag-over highlight state of the upload area.
type DropZone struct {
	active bool
}

// Enter highlights the zone.
func (d *DropZone) Enter() { d.active = true }

// Leave clears the highlight.
func (d *DropZone) Leave() { d.active = false }

// Over is a drag-over event. It never toggles the highlight on its own.
func (d *DropZone) Over() {}

// Drop clears the highlight; the dropped files are handled by the caller.
func (d *DropZone) Drop() { d.active = false }

// Active reports whether the zone is highlighted.
func (d *DropZone) Active() bool { return d.active }
