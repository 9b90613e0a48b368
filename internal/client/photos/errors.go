package photos

import (
	"errors"
	"fmt"
)

// Reason says why a capture was refused.
type Reason int

const (
	ReasonOffline Reason = iota
	ReasonLoading
	ReasonBlank
	ReasonEncode
)

// CaptureError aborts a capture; nothing is saved.
type CaptureError struct {
	Reason Reason
	Err    error
}

func (e *CaptureError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonOffline:
		msg = "Camera is offline"
	case ReasonLoading:
		msg = "Camera is still loading, try again in a moment"
	case ReasonBlank:
		msg = "Captured frame is blank"
	case ReasonEncode:
		msg = "Could not encode the frame"
	default:
		msg = "Capture failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

var (
	ErrNoSuchPhoto = errors.New("no such photo")
	ErrNoImageData = errors.New("photo has no retrievable image data")
)
