package errors

import "errors"

var (
	ErrNotFound = errors.New("availability not found")

	ErrSlotNotFound = errors.New("slot not found")

	ErrInvalidID = errors.New("invalid availability ID format")
)
