package opencl

import "errors"

var (
	ErrNotInitialized  = errors.New("opencl tracer: tracer not initialized")
	ErrBusy            = errors.New("opencl tracer: worker did not accept block request")
	ErrBlockOutOfRange = errors.New("opencl tracer: block exceeds frame bounds")
	ErrLayoutMismatch  = errors.New("opencl tracer: device output does not match host evaluation")
)
