package domain

import "errors"

var (
	ErrNotFound     = errors.New("conversation not found")
	ErrInvalidInput = errors.New("invalid conversation input")
)
