package config

import "errors"

// Configuration errors. The checks guard against setups that would
// render a wrong animation rather than fail at runtime.
var (
	ErrUnknownPreset     = errors.New("config: unknown preset")
	ErrInvalidFrames     = errors.New("config: frame count must be positive")
	ErrInvalidFPS        = errors.New("config: fps must be in (0, 100]")
	ErrInvalidTimeScale  = errors.New("config: time scale must be positive")
	ErrInvalidCanvas     = errors.New("config: canvas size and dpi must be positive")
	ErrInvalidAxes       = errors.New("config: axis limits are empty or inverted")
	ErrUnknownColor      = errors.New("config: unknown color")
	ErrUnknownLengthMode = errors.New("config: unknown payload arrow mode")
)
