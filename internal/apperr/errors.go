// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrDisabled = errors.New("disabled")
)
