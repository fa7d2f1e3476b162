package enhance

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key could be found. It is a
	// configuration problem, not something a retry fixes.
	ErrMissingCredential = errors.New("GEMINI_API_KEY environment variable not set.")

	// ErrNoImage means the model answered without an inline image part.
	ErrNoImage = errors.New("Image enhancement failed. Could not retrieve the enhanced image from the AI response.")
)

// RemoteError is a failed call to the remote model.
type RemoteError struct {
	StatusCode int    // HTTP status when known, else 0
	Message    string // message reported by the service
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("Image enhancement failed: %s (status %d)", e.Message, e.StatusCode)
	case e.Message != "":
		return "Image enhancement failed: " + e.Message
	case e.Err != nil:
		return "Image enhancement failed: " + e.Err.Error()
	}
	return "Image enhancement failed."
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
