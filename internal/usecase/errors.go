package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrNetwork      = errors.New("network failure")
	ErrDecode       = errors.New("decode failure")
	ErrPersistence  = errors.New("persistence failure")
)
