// Package booking enforces the slot booking invariants for the two
// disciplines: stream (one booking exclusively occupies a slot) and wave
// (a slot admits up to maxBookings concurrent bookings). All mode dispatch
// in the system goes through For; nothing else compares mode strings.
package booking

import (
	"fmt"

	apperrors "mediq/pkg/errors"
	"mediq/pkg/model"
)

// Discipline applies one mode's booking rules to a slot. After any
// sequence of Book/Release calls the slot satisfies:
// stream: isBooked == (bookingCount == 1), bookingCount in {0,1};
// wave:   0 <= bookingCount <= maxBookings, isBooked iff at capacity.
type Discipline interface {
	// Book takes one unit of capacity, or returns a Conflict and leaves
	// the slot untouched.
	Book(s *model.Slot) error
	// Release returns one unit of capacity. Never fails; releasing an
	// empty slot is a no-op.
	Release(s *model.Slot)
	// HasRoom reports whether Book would succeed.
	HasRoom(s *model.Slot) bool
}

// For selects the discipline for a mode. maxBookings is the owning
// window's capacity; it is ignored for stream.
func For(mode model.BookingMode, maxBookings int) (Discipline, error) {
	switch mode {
	case model.ModeStream:
		return streamDiscipline{}, nil
	case model.ModeWave:
		if maxBookings < 1 {
			return nil, fmt.Errorf("wave discipline requires maxBookings >= 1, got %d", maxBookings)
		}
		return waveDiscipline{maxBookings: maxBookings}, nil
	default:
		return nil, fmt.Errorf("unknown booking mode %q", mode)
	}
}

type streamDiscipline struct{}

func (streamDiscipline) Book(s *model.Slot) error {
	if s.IsBooked {
		return apperrors.Conflict("Slot already booked")
	}
	s.BookingCount = 1
	s.IsBooked = true
	return nil
}

func (streamDiscipline) Release(s *model.Slot) {
	s.BookingCount = 0
	s.IsBooked = false
}

func (streamDiscipline) HasRoom(s *model.Slot) bool {
	return !s.IsBooked
}

type waveDiscipline struct {
	maxBookings int
}

func (d waveDiscipline) Book(s *model.Slot) error {
	if s.BookingCount >= d.maxBookings {
		return apperrors.Conflict("Slot already booked to capacity")
	}
	s.BookingCount++
	s.IsBooked = s.BookingCount >= d.maxBookings
	return nil
}

func (d waveDiscipline) Release(s *model.Slot) {
	if s.BookingCount > 0 {
		s.BookingCount--
	}
	s.IsBooked = s.BookingCount >= d.maxBookings
}

func (d waveDiscipline) HasRoom(s *model.Slot) bool {
	return s.BookingCount < d.maxBookings
}
