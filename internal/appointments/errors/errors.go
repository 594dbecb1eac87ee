package errors

import "errors"

var (
	ErrNotFound = errors.New("appointment not found")

	ErrSlotNotFound = errors.New("slot not found")

	ErrInvalidID = errors.New("invalid appointment ID format")
)
