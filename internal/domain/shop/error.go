package shop

import "errors"

var (
	ErrNotFound     = errors.New("shop not found")
	ErrExists       = errors.New("shop already registered")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
)
