package main

import "errors"

// Config errors
var (
	ErrReadConfig  = errors.New("read config file")
	ErrParseConfig = errors.New("parse config file")
)

// Check errors
var (
	ErrUnknownOperation = errors.New("unknown operation kind")
	ErrMissingArgument  = errors.New("command or path required")
)

// Log errors
var (
	ErrHistoryDisabled = errors.New("decision history is disabled (set audit.history_path)")
)
