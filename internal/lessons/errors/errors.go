package errors

import "errors"

var (
	ErrNotFound = errors.New("lesson not found")

	ErrInvalidID = errors.New("invalid lesson ID format")
)
