package renderer

import "errors"

var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrInvalidFrameSize = errors.New("renderer: invalid frame size")
	ErrNoSolver         = errors.New("renderer: no column solver")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")
)
