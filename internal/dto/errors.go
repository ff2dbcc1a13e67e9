package dto

import "errors"

var (
	ErrInternalFailure = errors.New("internal failure")
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidConfig   = errors.New("invalid config")
)
