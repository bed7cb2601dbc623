package service

import "errors"

var (
	// ErrInvalidConfiguration indicates inputs the simulator cannot run on,
	// like a non-positive cycle length.
	ErrInvalidConfiguration = errors.New("configuración inválida")

	// ErrZeroCycles indicates the derived cycle count came out as zero, so
	// there is nothing to simulate. Non-fatal: callers should surface it as
	// a warning, not a failure.
	ErrZeroCycles = errors.New("cero ciclos por año")
)
