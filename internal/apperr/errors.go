package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidStrategy = errors.New("invalid strategy")
)
