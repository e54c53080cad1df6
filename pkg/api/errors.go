package api

import "errors"

var (
	ErrDecodeHookInput = errors.New("decode hook input")
	ErrUnknownPolicy   = errors.New("unknown policy mode")
)
