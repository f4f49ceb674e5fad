package particlefield

import "errors"

var (
	// ErrRenderTargetUnavailable means the drawing surface could not be acquired.
	// Fatal at initialization.
	ErrRenderTargetUnavailable = errors.New("render target unavailable")

	// ErrRenderFailure means one frame failed to draw. The frame is skipped.
	ErrRenderFailure = errors.New("render failure")

	// ErrResizeOutOfRange reports non-positive viewport dimensions, which are
	// clamped to 1.
	ErrResizeOutOfRange = errors.New("resize out of range")
)
