package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidPosition = errors.New("invalid position")
)
