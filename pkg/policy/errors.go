package policy

import "errors"

var (
	ErrCompileRule     = errors.New("compile rule pattern")
	ErrInvalidPathGlob = errors.New("invalid protected path glob")
	ErrDetectRoot      = errors.New("detect project root")
)
