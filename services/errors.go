package services

import "errors"

var (
	// ErrValidation marks malformed or missing input
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference that does not exist for the caller
	ErrNotFound = errors.New("not found")
	// ErrGeneration is returned when every candidate generator failed and no usable set exists
	ErrGeneration = errors.New("recommendation generation failed")
)
