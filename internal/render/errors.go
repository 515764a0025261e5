package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFrames indicates an animation with a non-positive frame count.
	ErrNoFrames = errors.New("render: animation has no frames")

	// ErrRender indicates the surface failed to rasterise a frame.
	ErrRender = errors.New("render: cannot rasterise frame")
)

// FrameError wraps an error with the frame it occurred on.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
